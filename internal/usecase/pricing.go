package usecase

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
)

// ItemRequest is what a client sends when adding items: a drink reference, a
// quantity, and an optional per-item note ("no ice").
type ItemRequest struct {
	DrinkID  string
	Quantity int
	Notes    string
}

// ResolveItems turns item requests into order items, snapshotting name and
// price from the given catalog entries and computing the line total. If any
// requested drink id is missing from the catalog the whole call fails with a
// ValidationError listing every missing id; nothing is resolved partially.
func ResolveItems(reqs []ItemRequest, drinks map[string]domain.Drink) ([]domain.OrderItem, float64, error) {
	if len(reqs) == 0 {
		return nil, 0, invalid("at least one item is required")
	}

	var missing []string
	seen := map[string]bool{}
	for _, r := range reqs {
		if strings.TrimSpace(r.DrinkID) == "" {
			return nil, 0, invalid("item drinkId is required")
		}
		if r.Quantity < 1 {
			return nil, 0, invalid("item quantity must be at least 1 (drink %s)", r.DrinkID)
		}
		if _, ok := drinks[r.DrinkID]; !ok && !seen[r.DrinkID] {
			seen[r.DrinkID] = true
			missing = append(missing, r.DrinkID)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, 0, &ValidationError{Message: "unknown drinks", MissingDrinks: missing}
	}

	items := make([]domain.OrderItem, 0, len(reqs))
	for _, r := range reqs {
		d := drinks[r.DrinkID]
		items = append(items, domain.OrderItem{
			ID:       uuid.NewString(),
			DrinkID:  r.DrinkID,
			Name:     d.Name,
			Price:    d.Price,
			Quantity: r.Quantity,
			Notes:    strings.TrimSpace(r.Notes),
		})
	}
	return items, RecomputeTotal(items), nil
}

// RecomputeTotal sums price*quantity over items, rounded to cents. Always
// called on the same operation that mutates an order's items.
func RecomputeTotal(items []domain.OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return roundCents(total)
}

func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}

// NoteInput is the client-supplied part of an order note; id, author and
// timestamp are assigned server-side.
type NoteInput struct {
	Text     string
	Category domain.NoteCategory
}

// BuildNote assigns id, author and server timestamp. Empty text or author is
// rejected; an empty category defaults to general.
func BuildNote(in NoteInput, author string, now time.Time) (domain.OrderNote, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return domain.OrderNote{}, invalid("note text is required")
	}
	if strings.TrimSpace(author) == "" {
		return domain.OrderNote{}, invalid("note author is required")
	}
	cat := in.Category
	if cat == "" {
		cat = domain.NoteGeneral
	}
	if !cat.Valid() {
		return domain.OrderNote{}, invalid("invalid note category %q", string(in.Category))
	}
	return domain.OrderNote{
		ID:        uuid.NewString(),
		Text:      text,
		Author:    author,
		Timestamp: now.UTC(),
		Category:  cat,
	}, nil
}
