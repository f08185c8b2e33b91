package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhjdev/bartender-order-service-sub000/internal/adapter/http/middleware"
	"github.com/jhjdev/bartender-order-service-sub000/internal/adapter/ws"
	"github.com/jhjdev/bartender-order-service-sub000/internal/logging"
)

func NewRouter(h *OrderHandler, th *TokenHandler, authz *middleware.Authz, hub *ws.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", th.IssueToken)

	// Realtime push; the admin UI joins the "orders" topic here.
	r.GET("/ws", hub.Handle())

	v1 := r.Group("/v1")
	{
		v1.POST("/orders", authz.Require("orders.write"), h.CreateOrder)
		v1.GET("/orders", authz.Require("orders.read"), h.ListOrders)
		v1.GET("/orders/:id", authz.Require("orders.read"), h.GetOrder)
		v1.PATCH("/orders/:id/status", authz.Require("orders.write"), h.UpdateStatus)
		v1.PATCH("/orders/:id/payment", authz.Require("orders.write"), h.UpdatePayment)
		v1.POST("/orders/:id/items", authz.Require("orders.write"), h.AddItems)
		v1.DELETE("/orders/:id/items/:itemId", authz.Require("orders.write"), h.RemoveItem)
		v1.POST("/orders/:id/notes", authz.Require("orders.write"), h.AddNote)
		v1.DELETE("/orders/:id", authz.Require("orders.write"), h.DeleteOrder)
	}

	return r
}
