package usecase

import (
	"context"
	"time"

	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
)

const (
	defaultPage  = 1
	defaultLimit = 50
	maxLimit     = 200
)

// ListOrdersQuery filters and paginates the order listing. Nil pointer fields
// mean "no filter on this axis".
type ListOrdersQuery struct {
	Status *domain.OrderStatus
	Paid   *bool
	Table  string
	Page   int64
	Limit  int64
}

// Normalized applies pagination defaults and the limit cap.
func (q ListOrdersQuery) Normalized() ListOrdersQuery {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return q
}

type PageInfo struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// FieldPatch is the set of top-level order fields a store writes in one atomic
// update ($set semantics, no document overwrite). Nil fields are left alone.
type FieldPatch struct {
	Status        *domain.OrderStatus
	PaymentStatus *domain.PaymentStatus
	PaymentMethod *domain.PaymentMethod
	CompletedAt   *time.Time
}

// OrderStore is the persistence port for order documents. Every method is
// atomic at the single-document level; mutating methods bump updatedAt and
// return the post-update document. Absent ids surface as ErrNotFound.
type OrderStore interface {
	Insert(ctx context.Context, o *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, q ListOrdersQuery) ([]domain.Order, int64, error)
	SetFields(ctx context.Context, id string, patch FieldPatch) (*domain.Order, error)
	// SetStatusIf applies patch only while the document still holds status
	// from; a concurrent transition surfaces as ErrConflict.
	SetStatusIf(ctx context.Context, id string, from domain.OrderStatus, patch FieldPatch) (*domain.Order, error)
	SetItems(ctx context.Context, id string, items []domain.OrderItem, total float64) (*domain.Order, error)
	PushNote(ctx context.Context, id string, note domain.OrderNote) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// Catalog resolves drink ids to current name and price. Unknown ids are simply
// absent from the result map; callers decide whether that is fatal.
type Catalog interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.Drink, error)
}

// Notifier broadcasts an order lifecycle event to subscribers of a topic.
// Delivery is best-effort; implementations must not block the caller on slow
// subscribers.
type Notifier interface {
	Publish(topic, event string, payload any)
}

const (
	TopicOrders = "orders"

	EventOrderCreated = "order:created"
	EventOrderUpdated = "order:updated"
	EventOrderDeleted = "order:deleted"
)

// DeletedEvent is the payload of order:deleted; the document no longer exists,
// so only the id travels.
type DeletedEvent struct {
	ID string `json:"id"`
}

// MultiNotifier fans one publish out to several notifiers (websocket hub plus
// an optional broker).
type MultiNotifier []Notifier

func (m MultiNotifier) Publish(topic, event string, payload any) {
	for _, n := range m {
		n.Publish(topic, event, payload)
	}
}
