package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
	"github.com/jhjdev/bartender-order-service-sub000/internal/usecase"
)

func boolPtr(b bool) *bool { return &b }

func TestListFilter(t *testing.T) {
	pending := domain.StatusPending

	tests := []struct {
		name string
		q    usecase.ListOrdersQuery
		want bson.M
	}{
		{
			name: "empty query matches everything",
			q:    usecase.ListOrdersQuery{},
			want: bson.M{},
		},
		{
			name: "status filter",
			q:    usecase.ListOrdersQuery{Status: &pending},
			want: bson.M{"status": domain.StatusPending},
		},
		{
			name: "paid filter",
			q:    usecase.ListOrdersQuery{Paid: boolPtr(true)},
			want: bson.M{"paymentStatus": domain.PaymentPaid},
		},
		{
			name: "unpaid includes partially paid",
			q:    usecase.ListOrdersQuery{Paid: boolPtr(false)},
			want: bson.M{"paymentStatus": bson.M{"$ne": domain.PaymentPaid}},
		},
		{
			name: "table filter",
			q:    usecase.ListOrdersQuery{Table: "12"},
			want: bson.M{"tableNumber": "12"},
		},
		{
			name: "combined",
			q:    usecase.ListOrdersQuery{Status: &pending, Paid: boolPtr(false), Table: "3"},
			want: bson.M{
				"status":        domain.StatusPending,
				"paymentStatus": bson.M{"$ne": domain.PaymentPaid},
				"tableNumber":   "3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, listFilter(tt.q))
		})
	}
}

func TestParseID(t *testing.T) {
	t.Run("malformed hex maps to not found", func(t *testing.T) {
		_, err := parseID("definitely-not-an-object-id")
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})

	t.Run("valid hex round-trips", func(t *testing.T) {
		oid, err := parseID("507f1f77bcf86cd799439011")
		assert.NoError(t, err)
		assert.Equal(t, "507f1f77bcf86cd799439011", oid.Hex())
	})
}

func TestFieldSet(t *testing.T) {
	t.Run("nil fields stay out of the update", func(t *testing.T) {
		paid := domain.PaymentPaid
		set := fieldSet(usecase.FieldPatch{PaymentStatus: &paid})
		assert.Equal(t, domain.PaymentPaid, set["paymentStatus"])
		assert.Contains(t, set, "updatedAt")
		assert.NotContains(t, set, "status")
		assert.NotContains(t, set, "paymentMethod")
		assert.NotContains(t, set, "completedAt")
	})

	t.Run("status and completion travel together", func(t *testing.T) {
		completed := domain.StatusCompleted
		done := time.Date(2025, 6, 1, 22, 15, 0, 0, time.UTC)
		set := fieldSet(usecase.FieldPatch{Status: &completed, CompletedAt: &done})
		assert.Equal(t, domain.StatusCompleted, set["status"])
		assert.Equal(t, done, set["completedAt"])
	})
}
