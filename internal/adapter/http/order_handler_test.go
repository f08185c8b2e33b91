package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
	"github.com/jhjdev/bartender-order-service-sub000/internal/usecase"
)

// stubService lets each test script the outcome of one use case call.
type stubService struct {
	order *domain.Order
	page  usecase.PageInfo
	err   error

	gotCreate usecase.CreateOrderInput
	gotQuery  usecase.ListOrdersQuery
	gotStatus domain.OrderStatus
}

func (s *stubService) Create(_ context.Context, in usecase.CreateOrderInput) (*domain.Order, error) {
	s.gotCreate = in
	return s.order, s.err
}

func (s *stubService) List(_ context.Context, q usecase.ListOrdersQuery) ([]domain.Order, usecase.PageInfo, error) {
	s.gotQuery = q
	if s.err != nil {
		return nil, usecase.PageInfo{}, s.err
	}
	return []domain.Order{*s.order}, s.page, nil
}

func (s *stubService) Get(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubService) UpdateStatus(_ context.Context, _ string, next domain.OrderStatus) (*domain.Order, error) {
	s.gotStatus = next
	return s.order, s.err
}

func (s *stubService) UpdatePayment(_ context.Context, _ string, _ usecase.PaymentPatch) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubService) AddItems(_ context.Context, _ string, _ []usecase.ItemRequest) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubService) RemoveItem(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubService) AddNote(_ context.Context, _ string, _ usecase.NoteInput, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubService) Delete(_ context.Context, _ string) error {
	return s.err
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:             primitive.NewObjectID(),
		CustomerNumber: "C001",
		Items:          []domain.OrderItem{{ID: "i1", DrinkID: "d1", Name: "House Lager", Price: 8.50, Quantity: 2}},
		TotalAmount:    17.00,
		Status:         domain.StatusPending,
		PaymentStatus:  domain.PaymentUnpaid,
	}
}

func newTestRouter(svc OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(svc)
	r := gin.New()
	r.POST("/v1/orders", h.CreateOrder)
	r.GET("/v1/orders", h.ListOrders)
	r.GET("/v1/orders/:id", h.GetOrder)
	r.PATCH("/v1/orders/:id/status", h.UpdateStatus)
	r.PATCH("/v1/orders/:id/payment", h.UpdatePayment)
	r.POST("/v1/orders/:id/items", h.AddItems)
	r.DELETE("/v1/orders/:id/items/:itemId", h.RemoveItem)
	r.POST("/v1/orders/:id/notes", h.AddNote)
	r.DELETE("/v1/orders/:id", h.DeleteOrder)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrderHandler(t *testing.T) {
	t.Run("201 with the order body", func(t *testing.T) {
		svc := &stubService{order: testOrder()}
		w := doJSON(newTestRouter(svc), http.MethodPost, "/v1/orders",
			`{"customerNumber":"C001","items":[{"drinkId":"d1","quantity":2}]}`)

		require.Equal(t, http.StatusCreated, w.Code)
		var got domain.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 17.00, got.TotalAmount)
		assert.Equal(t, "C001", svc.gotCreate.CustomerNumber)
		assert.Len(t, svc.gotCreate.Items, 1)
	})

	t.Run("400 on missing items", func(t *testing.T) {
		svc := &stubService{order: testOrder()}
		w := doJSON(newTestRouter(svc), http.MethodPost, "/v1/orders", `{"customerNumber":"C001","items":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "message")
	})

	t.Run("400 with missing drink ids from the service", func(t *testing.T) {
		svc := &stubService{err: &usecase.ValidationError{Message: "unknown drinks", MissingDrinks: []string{"d9"}}}
		w := doJSON(newTestRouter(svc), http.MethodPost, "/v1/orders",
			`{"customerNumber":"C001","items":[{"drinkId":"d9","quantity":1}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missingDrinks")
		assert.Contains(t, w.Body.String(), "d9")
	})
}

func TestListOrdersHandler(t *testing.T) {
	t.Run("parses filters and pagination", func(t *testing.T) {
		svc := &stubService{order: testOrder(), page: usecase.PageInfo{Page: 2, Limit: 10, Total: 11, Pages: 2}}
		w := doJSON(newTestRouter(svc), http.MethodGet, "/v1/orders?status=pending&paid=false&table=7&page=2&limit=10", "")

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.gotQuery.Status)
		assert.Equal(t, domain.StatusPending, *svc.gotQuery.Status)
		require.NotNil(t, svc.gotQuery.Paid)
		assert.False(t, *svc.gotQuery.Paid)
		assert.Equal(t, "7", svc.gotQuery.Table)
		assert.Equal(t, int64(2), svc.gotQuery.Page)
		assert.Contains(t, w.Body.String(), `"pagination"`)
	})

	t.Run("400 on bad status filter", func(t *testing.T) {
		w := doJSON(newTestRouter(&stubService{order: testOrder()}), http.MethodGet, "/v1/orders?status=frozen", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("500 on store failure", func(t *testing.T) {
		svc := &stubService{err: &usecase.StoreError{Op: "orders.list", Err: context.DeadlineExceeded}}
		w := doJSON(newTestRouter(svc), http.MethodGet, "/v1/orders", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal server error")
		assert.NotContains(t, w.Body.String(), "deadline")
	})
}

func TestGetOrderHandler(t *testing.T) {
	svc := &stubService{err: &usecase.NotFoundError{Resource: "order", ID: "abc"}}
	w := doJSON(newTestRouter(svc), http.MethodGet, "/v1/orders/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatusHandler(t *testing.T) {
	t.Run("409 on invalid transition", func(t *testing.T) {
		svc := &stubService{err: &usecase.InvalidTransitionError{From: domain.StatusCompleted, To: domain.StatusInProgress}}
		w := doJSON(newTestRouter(svc), http.MethodPatch, "/v1/orders/abc/status", `{"status":"in_progress"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "completed")
	})

	t.Run("400 on missing status", func(t *testing.T) {
		w := doJSON(newTestRouter(&stubService{order: testOrder()}), http.MethodPatch, "/v1/orders/abc/status", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("200 passes the requested status through", func(t *testing.T) {
		svc := &stubService{order: testOrder()}
		w := doJSON(newTestRouter(svc), http.MethodPatch, "/v1/orders/abc/status", `{"status":"in_progress"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.StatusInProgress, svc.gotStatus)
	})
}

func TestDeleteOrderHandler(t *testing.T) {
	t.Run("200 with confirmation", func(t *testing.T) {
		w := doJSON(newTestRouter(&stubService{}), http.MethodDelete, "/v1/orders/abc", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"abc"`)
	})

	t.Run("404 when absent", func(t *testing.T) {
		svc := &stubService{err: &usecase.NotFoundError{Resource: "order", ID: "abc"}}
		w := doJSON(newTestRouter(svc), http.MethodDelete, "/v1/orders/abc", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRemoveItemHandler(t *testing.T) {
	svc := &stubService{order: testOrder()}
	w := doJSON(newTestRouter(svc), http.MethodDelete, "/v1/orders/abc/items/i1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddNoteHandler(t *testing.T) {
	t.Run("400 on empty body", func(t *testing.T) {
		w := doJSON(newTestRouter(&stubService{order: testOrder()}), http.MethodPost, "/v1/orders/abc/notes", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("200 on success", func(t *testing.T) {
		w := doJSON(newTestRouter(&stubService{order: testOrder()}), http.MethodPost, "/v1/orders/abc/notes", `{"text":"nut allergy","category":"allergy"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
