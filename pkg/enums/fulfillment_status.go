package enums

// FulfillmentStatus tracks physical fulfillment of an order.
type FulfillmentStatus string

const (
	FulfillmentStatusUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentStatusFulfilled   FulfillmentStatus = "fulfilled"
	FulfillmentStatusShipped     FulfillmentStatus = "shipped"
	FulfillmentStatusDelivered   FulfillmentStatus = "delivered"
)

var validFulfillmentStatuses = []FulfillmentStatus{
	FulfillmentStatusUnfulfilled,
	FulfillmentStatusFulfilled,
	FulfillmentStatusShipped,
	FulfillmentStatusDelivered,
}

func (f FulfillmentStatus) String() string { return string(f) }

func (f FulfillmentStatus) IsValid() bool { return isMember(validFulfillmentStatuses, f) }

func ParseFulfillmentStatus(value string) (FulfillmentStatus, error) {
	return parseMember(validFulfillmentStatuses, value, "fulfillment status")
}
