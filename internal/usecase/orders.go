package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
	"github.com/jhjdev/bartender-order-service-sub000/internal/logging"
)

// Orders orchestrates the order lifecycle: domain logic + store + catalog, with
// one realtime broadcast per successful mutation, published strictly after the
// store write is confirmed.
type Orders struct {
	store    OrderStore
	catalog  Catalog
	notifier Notifier
	now      func() time.Time
}

func NewOrders(store OrderStore, catalog Catalog, notifier Notifier) *Orders {
	return &Orders{
		store:    store,
		catalog:  catalog,
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateOrderInput struct {
	CustomerNumber string
	TableNumber    string
	StaffID        string
	Author         string // note author display name; falls back to StaffID
	Items          []ItemRequest
	Notes          []NoteInput
}

func (s *Orders) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if strings.TrimSpace(in.CustomerNumber) == "" {
		return nil, invalid("customerNumber is required")
	}
	if len(in.Items) == 0 {
		return nil, invalid("at least one item is required")
	}

	drinks, err := s.lookupDrinks(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	items, total, err := ResolveItems(in.Items, drinks)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	author := in.Author
	if author == "" {
		author = in.StaffID
	}
	notes := make([]domain.OrderNote, 0, len(in.Notes))
	for _, n := range in.Notes {
		note, err := BuildNote(n, author, now)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	order := &domain.Order{
		CustomerNumber: strings.TrimSpace(in.CustomerNumber),
		TableNumber:    strings.TrimSpace(in.TableNumber),
		StaffID:        in.StaffID,
		Items:          items,
		TotalAmount:    total,
		Status:         domain.StatusPending,
		PaymentStatus:  domain.PaymentUnpaid,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	stored, err := s.store.Insert(ctx, order)
	if err != nil {
		logging.FromCtx(ctx).Error("order insert failed", "err", err)
		return nil, &StoreError{Op: "orders.insert", Err: err}
	}
	s.notifier.Publish(TopicOrders, EventOrderCreated, stored)
	return stored, nil
}

func (s *Orders) List(ctx context.Context, q ListOrdersQuery) ([]domain.Order, PageInfo, error) {
	q = q.Normalized()
	orders, total, err := s.store.List(ctx, q)
	if err != nil {
		logging.FromCtx(ctx).Error("order list failed", "err", err)
		return nil, PageInfo{}, &StoreError{Op: "orders.list", Err: err}
	}
	pages := total / q.Limit
	if total%q.Limit != 0 {
		pages++
	}
	return orders, PageInfo{Page: q.Page, Limit: q.Limit, Total: total, Pages: pages}, nil
}

func (s *Orders) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrapStoreErr(ctx, "orders.findById", id, err)
	}
	return order, nil
}

// statusRetries bounds the re-read loop when a status write loses a race.
const statusRetries = 2

// UpdateStatus applies a state-machine-checked status change. The write is
// conditioned on the status the check saw, so a racing transition can never
// be overwritten; losing the race re-reads and re-validates. Entering
// completed sets completedAt exactly once; an already-set completedAt is kept
// as a historical marker and never touched again.
func (s *Orders) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, invalid("invalid status %q", string(next))
	}
	for attempt := 0; ; attempt++ {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := ValidateStatusTransition(current.Status, next); err != nil {
			return nil, err
		}

		patch := FieldPatch{
			Status:      &next,
			CompletedAt: CompletionTimestamp(current.CompletedAt, next, s.now()),
		}
		updated, err := s.store.SetStatusIf(ctx, id, current.Status, patch)
		if errors.Is(err, ErrConflict) && attempt < statusRetries {
			continue
		}
		if err != nil {
			return nil, s.wrapStoreErr(ctx, "orders.setStatus", id, err)
		}
		s.notifier.Publish(TopicOrders, EventOrderUpdated, updated)
		return updated, nil
	}
}

// PaymentPatch carries the optional payment fields of a payment update.
type PaymentPatch struct {
	Status *domain.PaymentStatus
	Method *domain.PaymentMethod
}

// UpdatePayment sets paymentStatus and/or paymentMethod. The payment axis is
// independent from the order status; no cross-field rule is enforced.
func (s *Orders) UpdatePayment(ctx context.Context, id string, p PaymentPatch) (*domain.Order, error) {
	if p.Status == nil && p.Method == nil {
		return nil, invalid("paymentStatus or paymentMethod is required")
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, invalid("invalid paymentStatus %q", string(*p.Status))
	}
	if p.Method != nil && !p.Method.Valid() {
		return nil, invalid("invalid paymentMethod %q", string(*p.Method))
	}

	updated, err := s.store.SetFields(ctx, id, FieldPatch{PaymentStatus: p.Status, PaymentMethod: p.Method})
	if err != nil {
		return nil, s.wrapStoreErr(ctx, "orders.setPayment", id, err)
	}
	s.notifier.Publish(TopicOrders, EventOrderUpdated, updated)
	return updated, nil
}

// AddItems appends catalog-resolved items to an existing order and recomputes
// the total. Unknown drink ids reject the whole call; the order is untouched.
func (s *Orders) AddItems(ctx context.Context, id string, reqs []ItemRequest) (*domain.Order, error) {
	if len(reqs) == 0 {
		return nil, invalid("at least one item is required")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	drinks, err := s.lookupDrinks(ctx, reqs)
	if err != nil {
		return nil, err
	}
	newItems, _, err := ResolveItems(reqs, drinks)
	if err != nil {
		return nil, err
	}

	items := append(append([]domain.OrderItem{}, current.Items...), newItems...)
	updated, err := s.store.SetItems(ctx, id, items, RecomputeTotal(items))
	if err != nil {
		return nil, s.wrapStoreErr(ctx, "orders.addItems", id, err)
	}
	s.notifier.Publish(TopicOrders, EventOrderUpdated, updated)
	return updated, nil
}

// RemoveItem drops the item with the given id and recomputes the total from
// the remaining stored snapshots; the catalog is never re-queried, so
// historical pricing is preserved. An unknown item id is a no-op success.
func (s *Orders) RemoveItem(ctx context.Context, orderID, itemID string) (*domain.Order, error) {
	current, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.OrderItem, 0, len(current.Items))
	for _, it := range current.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(current.Items) {
		return current, nil
	}

	updated, err := s.store.SetItems(ctx, orderID, kept, RecomputeTotal(kept))
	if err != nil {
		return nil, s.wrapStoreErr(ctx, "orders.removeItem", orderID, err)
	}
	s.notifier.Publish(TopicOrders, EventOrderUpdated, updated)
	return updated, nil
}

func (s *Orders) AddNote(ctx context.Context, id string, in NoteInput, author string) (*domain.Order, error) {
	note, err := BuildNote(in, author, s.now())
	if err != nil {
		return nil, err
	}
	updated, err := s.store.PushNote(ctx, id, note)
	if err != nil {
		return nil, s.wrapStoreErr(ctx, "orders.addNote", id, err)
	}
	s.notifier.Publish(TopicOrders, EventOrderUpdated, updated)
	return updated, nil
}

func (s *Orders) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.wrapStoreErr(ctx, "orders.delete", id, err)
	}
	s.notifier.Publish(TopicOrders, EventOrderDeleted, DeletedEvent{ID: id})
	return nil
}

func (s *Orders) lookupDrinks(ctx context.Context, reqs []ItemRequest) (map[string]domain.Drink, error) {
	seen := map[string]bool{}
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if r.DrinkID != "" && !seen[r.DrinkID] {
			seen[r.DrinkID] = true
			ids = append(ids, r.DrinkID)
		}
	}
	drinks, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		logging.FromCtx(ctx).Error("catalog lookup failed", "err", err, "ids", ids)
		return nil, &UpstreamError{Op: "catalog.findByIds", Err: err}
	}
	return drinks, nil
}

func (s *Orders) wrapStoreErr(ctx context.Context, op, id string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return &NotFoundError{Resource: "order", ID: id}
	}
	logging.FromCtx(ctx).Error("store operation failed", "op", op, "order_id", id, "err", err)
	return &StoreError{Op: op, Err: err}
}
