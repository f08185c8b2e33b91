package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhjdev/bartender-order-service-sub000/internal/logging"
	"github.com/jhjdev/bartender-order-service-sub000/internal/usecase"
)

// writeError maps the use case error taxonomy to HTTP. Anything unrecognized
// is a bug or infrastructure failure: logged in full, surfaced as a generic
// 500 so internals never leak to the client.
func writeError(c *gin.Context, err error) {
	var (
		validation *usecase.ValidationError
		notFound   *usecase.NotFoundError
		transition *usecase.InvalidTransitionError
	)
	switch {
	case errors.As(err, &validation):
		body := gin.H{"message": validation.Message}
		if len(validation.MissingDrinks) > 0 {
			body["missingDrinks"] = validation.MissingDrinks
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"message": transition.Error(),
			"from":    transition.From,
			"to":      transition.To,
		})
	case errors.Is(err, usecase.ErrConflict):
		// Sustained write contention on one order; the client should retry.
		c.JSON(http.StatusConflict, gin.H{"message": "order was modified concurrently, retry"})
	default:
		logging.From(c).Error("request failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}
