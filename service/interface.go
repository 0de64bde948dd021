package service

import (
	"encoding/json"
	"time"

	models "commerce-backend/model"
)

// InventoryInterface covers stock levels, reservations and the audit trail.
type InventoryInterface interface {
	GetInventory(productID int64) (InventoryDTO, error)
	ListInventory(lowStockOnly bool) ([]InventoryDTO, error)
	SetStock(productID int64, quantity int, reason string) (InventoryDTO, error)
	AdjustStock(productID int64, delta int, reason string) (InventoryDTO, error)
	SetLowStockThreshold(productID int64, threshold int) (InventoryDTO, error)
	ListHistory(productID int64, limit int) ([]HistoryDTO, error)

	Reserve(req ReserveRequest) (ReservationDTO, error)
	GetReservation(id string) (ReservationDTO, error)
	ListReservations(q ReservationQuery) ([]ReservationDTO, error)
	CompleteReservation(id string) (ReservationDTO, error)
	CancelReservation(id string) (ReservationDTO, error)
	ExpireDue() (int, error)
}

// AddressInterface is CRUD over customer addresses.
type AddressInterface interface {
	Create(customerID string, in AddressInput) (AddressDTO, error)
	Get(id string) (AddressDTO, error)
	List(customerID string) ([]AddressDTO, error)
	Update(id, customerID string, in AddressInput) (AddressDTO, error)
	Delete(id string) error
}

// SessionInterface manages guest sessions.
type SessionInterface interface {
	Create(metadata json.RawMessage) (SessionDTO, error)
	Get(token string) (SessionDTO, error)
	Touch(token string) (SessionDTO, error)
	Convert(token, customerID string) (SessionDTO, error)
	Delete(token string) error
	PurgeExpired() (int, error)
}

// ActivityInterface records user activity and serves engagement analytics.
type ActivityInterface interface {
	Record(in ActivityInput) (int64, error)
	Engagement(from, to time.Time) (EngagementDTO, error)
	EngagementDaily(from, to time.Time) ([]DailyCountDTO, error)
}

// CheckoutInterface serves the step config and validates step payloads.
type CheckoutInterface interface {
	Steps() []models.CheckoutStep
	ValidateStep(key string, payload json.RawMessage, customerID string) (StepResult, error)
}

// Services bundles everything the HTTP layer needs.
type Services struct {
	Inventory InventoryInterface
	Addresses AddressInterface
	Sessions  SessionInterface
	Activity  ActivityInterface
	Checkout  CheckoutInterface
}
