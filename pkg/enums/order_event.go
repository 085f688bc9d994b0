package enums

// OrderEventKind names the audit events appended to an order's history.
type OrderEventKind string

const (
	OrderEventKindStatusChanged      OrderEventKind = "status_changed"
	OrderEventKindPaymentChanged     OrderEventKind = "payment_status_changed"
	OrderEventKindFulfillmentChanged OrderEventKind = "fulfillment_status_changed"
)

// String implements fmt.Stringer.
func (k OrderEventKind) String() string {
	return string(k)
}
