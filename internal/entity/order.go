package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Terminal reports whether no further transition (other than a no-op) is
// allowed out of s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartiallyPaid, PaymentPaid:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayCash  PaymentMethod = "cash"
	PayCard  PaymentMethod = "card"
	PaySplit PaymentMethod = "split"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCash, PayCard, PaySplit:
		return true
	}
	return false
}

type NoteCategory string

const (
	NoteAllergy        NoteCategory = "allergy"
	NoteSpecialRequest NoteCategory = "special_request"
	NoteGeneral        NoteCategory = "general"
)

func (c NoteCategory) Valid() bool {
	switch c {
	case NoteAllergy, NoteSpecialRequest, NoteGeneral:
		return true
	}
	return false
}

// OrderItem is a line entry in an order. Name and Price are a snapshot taken
// from the drink catalog at the moment the item was added; later catalog edits
// never change them.
type OrderItem struct {
	ID       string  `bson:"id" json:"id"`
	DrinkID  string  `bson:"drinkId" json:"drinkId"`
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Notes    string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

// OrderNote is a free-text annotation on an order. Timestamp is always
// server-assigned.
type OrderNote struct {
	ID        string       `bson:"id" json:"id"`
	Text      string       `bson:"text" json:"text"`
	Author    string       `bson:"author" json:"author"`
	Timestamp time.Time    `bson:"timestamp" json:"timestamp"`
	Category  NoteCategory `bson:"category" json:"category"`
}

// Order is the persisted root aggregate. TotalAmount is derived from Items and
// recomputed by the service on every item mutation, never trusted from input.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerNumber string             `bson:"customerNumber" json:"customerNumber"`
	TableNumber    string             `bson:"tableNumber,omitempty" json:"tableNumber,omitempty"`
	StaffID        string             `bson:"staffId,omitempty" json:"staffId,omitempty"`
	Items          []OrderItem        `bson:"items" json:"items"`
	TotalAmount    float64            `bson:"totalAmount" json:"totalAmount"`
	Status         OrderStatus        `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod  PaymentMethod      `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	Notes          []OrderNote        `bson:"notes" json:"notes"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
	CompletedAt    *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}
