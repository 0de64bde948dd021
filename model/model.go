package models

import "time"

// ReservationStatus is the lifecycle state of a stock reservation.
// Transitions are one-directional: active -> completed | cancelled | expired.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationExpired   ReservationStatus = "expired"
)

// Terminal reports whether no further transition is allowed from s.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCompleted || s == ReservationCancelled || s == ReservationExpired
}

// Valid reports whether s is one of the known statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationActive, ReservationCompleted, ReservationCancelled, ReservationExpired:
		return true
	}
	return false
}

// HistoryAction labels an inventory_history row.
type HistoryAction string

const (
	HistorySet     HistoryAction = "set"
	HistoryAdjust  HistoryAction = "adjust"
	HistoryReserve HistoryAction = "reserve"
	HistoryRelease HistoryAction = "release"
	HistoryCommit  HistoryAction = "commit"
)

// Well-known activity event types. The activity log accepts arbitrary types;
// these are the ones the analytics queries care about.
const (
	EventPageView        = "page_view"
	EventProductView     = "product_view"
	EventAddToCart       = "add_to_cart"
	EventCheckoutStarted = "checkout_started"
	EventOrderPlaced     = "order_placed"
)

// CheckoutStep is one entry of the static checkout flow configuration.
type CheckoutStep struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// Keys of the checkout steps, in flow order.
const (
	StepCart            = "cart"
	StepShippingAddress = "shipping-address"
	StepDelivery        = "delivery"
	StepPayment         = "payment"
	StepReview          = "review"
)

// CheckoutSteps returns the checkout flow in order.
func CheckoutSteps() []CheckoutStep {
	return []CheckoutStep{
		{Key: StepCart, Title: "Cart", Position: 1},
		{Key: StepShippingAddress, Title: "Shipping address", Position: 2},
		{Key: StepDelivery, Title: "Delivery method", Position: 3},
		{Key: StepPayment, Title: "Payment", Position: 4},
		{Key: StepReview, Title: "Review", Position: 5},
	}
}

// ReservationTTLDefault is used when a reserve request carries no TTL.
const ReservationTTLDefault = 30 * time.Minute
