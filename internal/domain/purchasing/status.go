package purchasing

// OrderStatus is the lifecycle state of a purchase order.
//
//	DRAFT -> PARTIALLY_RECEIVED -> RECEIVED
//	DRAFT | PARTIALLY_RECEIVED -> CANCELLED
//
// RECEIVED and CANCELLED are terminal.
type OrderStatus string

const (
	OrderStatusDraft             OrderStatus = "DRAFT"
	OrderStatusPartiallyReceived OrderStatus = "PARTIALLY_RECEIVED"
	OrderStatusReceived          OrderStatus = "RECEIVED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is known
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPartiallyReceived, OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for RECEIVED and CANCELLED
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusReceived || s == OrderStatusCancelled
}

// CanTransitionTo reports whether moving to target is a legal transition
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusPartiallyReceived || target == OrderStatusReceived || target == OrderStatusCancelled
	case OrderStatusPartiallyReceived:
		return target == OrderStatusPartiallyReceived || target == OrderStatusReceived || target == OrderStatusCancelled
	}
	return false
}

// DeriveStatus computes the receiving status from item fulfilment.
// It never yields CANCELLED, which is only reached by explicit action.
func DeriveStatus(items []OrderItem) OrderStatus {
	var ordered, received int64
	for _, it := range items {
		ordered += it.QuantityOrdered
		received += it.QuantityReceived
	}
	switch {
	case received == 0:
		return OrderStatusDraft
	case received >= ordered:
		return OrderStatusReceived
	default:
		return OrderStatusPartiallyReceived
	}
}
