package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solenne-shop/solenne-backend/pkg/enums"
)

// ListFilters describe the inputs supported by the admin orders list.
type ListFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	Search        string
	SortField     string
	SortDesc      bool
}

// CustomerSummary is the customer block on list rows and detail.
type CustomerSummary struct {
	Email string     `json:"email"`
	Phone *string    `json:"phone,omitempty"`
	Name  string     `json:"name,omitempty"`
	ID    *uuid.UUID `json:"id,omitempty"`
}

// OrderSummary is one admin listing row.
type OrderSummary struct {
	ID                uuid.UUID               `json:"id"`
	Number            string                  `json:"number"`
	Status            enums.OrderStatus       `json:"status"`
	PaymentStatus     enums.PaymentStatus     `json:"paymentStatus"`
	FulfillmentStatus enums.FulfillmentStatus `json:"fulfillmentStatus"`
	Currency          enums.Currency          `json:"currency"`
	Total             decimal.Decimal         `json:"total"`
	ItemCount         int                     `json:"itemCount"`
	Customer          CustomerSummary         `json:"customer"`
	CreatedAt         time.Time               `json:"createdAt"`
}

// OrderList wraps one listing page. TotalEstimated flags that the count query
// missed its deadline and Total carries the fallback figure.
type OrderList struct {
	Orders         []OrderSummary
	Total          int64
	TotalEstimated bool
}

// ItemDTO is one line on the order detail. UnitPrice is always derived from
// the stored line total.
type ItemDTO struct {
	ID           uuid.UUID         `json:"id"`
	VariantID    *uuid.UUID        `json:"variantId,omitempty"`
	ProductTitle string            `json:"productTitle"`
	SKU          string            `json:"sku"`
	Options      map[string]string `json:"options,omitempty"`
	Quantity     int               `json:"quantity"`
	UnitPrice    decimal.Decimal   `json:"unitPrice"`
	Total        decimal.Decimal   `json:"total"`
}

// PaymentDTO is one payment attempt on the order detail.
type PaymentDTO struct {
	ID        uuid.UUID           `json:"id"`
	Provider  string              `json:"provider"`
	Reference *string             `json:"reference,omitempty"`
	Amount    decimal.Decimal     `json:"amount"`
	Status    enums.PaymentStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// EventDTO is one audit row on the order detail.
type EventDTO struct {
	ID             uuid.UUID            `json:"id"`
	Kind           enums.OrderEventKind `json:"kind"`
	PreviousStatus *string              `json:"previousStatus,omitempty"`
	NewStatus      *string              `json:"newStatus,omitempty"`
	ActorID        *uuid.UUID           `json:"actorId,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// Totals is the display breakdown recomputed from the stored parts. It is
// never written back; the stored Total stays authoritative.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Computed decimal.Decimal `json:"computed"`
	Stored   decimal.Decimal `json:"stored"`
}

// OrderDetail is the full admin order view.
type OrderDetail struct {
	ID                uuid.UUID               `json:"id"`
	Number            string                  `json:"number"`
	Status            enums.OrderStatus       `json:"status"`
	PaymentStatus     enums.PaymentStatus     `json:"paymentStatus"`
	FulfillmentStatus enums.FulfillmentStatus `json:"fulfillmentStatus"`
	Currency          enums.Currency          `json:"currency"`
	Customer          CustomerSummary         `json:"customer"`
	Items             []ItemDTO               `json:"items"`
	Payments          []PaymentDTO            `json:"payments"`
	Events            []EventDTO              `json:"events"`
	Totals            Totals                  `json:"totals"`
	PaidAt            *time.Time              `json:"paidAt,omitempty"`
	FulfilledAt       *time.Time              `json:"fulfilledAt,omitempty"`
	CancelledAt       *time.Time              `json:"cancelledAt,omitempty"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// UpdateStatusInput carries the admin status patch. Absent fields stay
// untouched.
type UpdateStatusInput struct {
	Status            *string `json:"status"`
	PaymentStatus     *string `json:"paymentStatus"`
	FulfillmentStatus *string `json:"fulfillmentStatus"`
}
