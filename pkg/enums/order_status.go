package enums

// OrderStatus tracks the lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// OrderStatuses lists every known status in lifecycle order.
func OrderStatuses() []OrderStatus {
	return validOrderStatuses
}

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) IsValid() bool { return isMember(validOrderStatuses, s) }

func ParseOrderStatus(value string) (OrderStatus, error) {
	return parseMember(validOrderStatuses, value, "order status")
}
