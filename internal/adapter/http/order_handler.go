package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jhjdev/bartender-order-service-sub000/internal/adapter/http/middleware"
	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
	"github.com/jhjdev/bartender-order-service-sub000/internal/usecase"
)

const (
	writeOpTimeout = 5 * time.Second
	readOpTimeout  = 3 * time.Second
)

// OrderService is what the handlers need from the use case layer.
type OrderService interface {
	Create(ctx context.Context, in usecase.CreateOrderInput) (*domain.Order, error)
	List(ctx context.Context, q usecase.ListOrdersQuery) ([]domain.Order, usecase.PageInfo, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (*domain.Order, error)
	UpdatePayment(ctx context.Context, id string, p usecase.PaymentPatch) (*domain.Order, error)
	AddItems(ctx context.Context, id string, items []usecase.ItemRequest) (*domain.Order, error)
	RemoveItem(ctx context.Context, orderID, itemID string) (*domain.Order, error)
	AddNote(ctx context.Context, id string, in usecase.NoteInput, author string) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type itemReq struct {
	DrinkID  string `json:"drinkId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gte=1"`
	Notes    string `json:"notes"`
}

type noteReq struct {
	Text     string `json:"text" binding:"required"`
	Category string `json:"category"`
}

type createOrderReq struct {
	CustomerNumber string    `json:"customerNumber" binding:"required"`
	TableNumber    string    `json:"tableNumber"`
	Items          []itemReq `json:"items" binding:"required,min=1,dive"`
	Notes          []noteReq `json:"notes" binding:"omitempty,dive"`
}

func toItemRequests(items []itemReq) []usecase.ItemRequest {
	out := make([]usecase.ItemRequest, 0, len(items))
	for _, it := range items {
		out = append(out, usecase.ItemRequest{DrinkID: it.DrinkID, Quantity: it.Quantity, Notes: it.Notes})
	}
	return out
}

// CreateOrder handles POST /v1/orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "customerNumber and at least one item are required")
		return
	}

	in := usecase.CreateOrderInput{
		CustomerNumber: req.CustomerNumber,
		TableNumber:    req.TableNumber,
		StaffID:        middleware.StaffID(c),
		Author:         middleware.StaffName(c),
		Items:          toItemRequests(req.Items),
	}
	for _, n := range req.Notes {
		in.Notes = append(in.Notes, usecase.NoteInput{Text: n.Text, Category: domain.NoteCategory(n.Category)})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), writeOpTimeout)
	defer cancel()

	order, err := h.orders.Create(ctx, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /v1/orders?status=&paid=&table=&page=&limit=.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	q := usecase.ListOrdersQuery{Table: c.Query("table")}

	if s := c.Query("status"); s != "" {
		status := domain.OrderStatus(s)
		if !status.Valid() {
			badRequest(c, "invalid status filter "+strconv.Quote(s))
			return
		}
		q.Status = &status
	}
	if p := c.Query("paid"); p != "" {
		paid, err := strconv.ParseBool(p)
		if err != nil {
			badRequest(c, "paid must be a boolean")
			return
		}
		q.Paid = &paid
	}
	if page, err := strconv.ParseInt(c.Query("page"), 10, 64); err == nil {
		q.Page = page
	}
	if limit, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil {
		q.Limit = limit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readOpTimeout)
	defer cancel()

	orders, page, err := h.orders.List(ctx, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "pagination": page})
}

// GetOrder handles GET /v1/orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readOpTimeout)
	defer cancel()

	order, err := h.orders.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /v1/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), writeOpTimeout)
	defer cancel()

	order, err := h.orders.UpdateStatus(ctx, c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type paymentReq struct {
	PaymentStatus *string `json:"paymentStatus"`
	PaymentMethod *string `json:"paymentMethod"`
}

// UpdatePayment handles PATCH /v1/orders/:id/payment.
func (h *OrderHandler) UpdatePayment(c *gin.Context) {
	var req paymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payment body")
		return
	}

	var patch usecase.PaymentPatch
	if req.PaymentStatus != nil {
		s := domain.PaymentStatus(*req.PaymentStatus)
		patch.Status = &s
	}
	if req.PaymentMethod != nil {
		m := domain.PaymentMethod(*req.PaymentMethod)
		patch.Method = &m
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), writeOpTimeout)
	defer cancel()

	order, err := h.orders.UpdatePayment(ctx, c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type addItemsReq struct {
	Items []itemReq `json:"items" binding:"required,min=1,dive"`
}

// AddItems handles POST /v1/orders/:id/items.
func (h *OrderHandler) AddItems(c *gin.Context) {
	var req addItemsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "at least one item is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), writeOpTimeout)
	defer cancel()

	order, err := h.orders.AddItems(ctx, c.Param("id"), toItemRequests(req.Items))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// RemoveItem handles DELETE /v1/orders/:id/items/:itemId.
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), writeOpTimeout)
	defer cancel()

	order, err := h.orders.RemoveItem(ctx, c.Param("id"), c.Param("itemId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// AddNote handles POST /v1/orders/:id/notes.
func (h *OrderHandler) AddNote(c *gin.Context) {
	var req noteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "note text is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), writeOpTimeout)
	defer cancel()

	in := usecase.NoteInput{Text: req.Text, Category: domain.NoteCategory(req.Category)}
	order, err := h.orders.AddNote(ctx, c.Param("id"), in, middleware.StaffName(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /v1/orders/:id.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), writeOpTimeout)
	defer cancel()

	id := c.Param("id")
	if err := h.orders.Delete(ctx, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order deleted", "id": id})
}
