package store

import "time"

// Store is everything the service layer needs from persistence.
type Store interface {
	// Inventory
	GetInventory(productID int64) (InventoryRow, error)
	ListInventory(lowStockOnly bool) ([]InventoryRow, error)
	SetStock(productID int64, quantity int, reason string) (InventoryRow, error)
	AdjustStock(productID int64, delta int, reason string) (InventoryRow, error)
	SetLowStockThreshold(productID int64, threshold int) (InventoryRow, error)
	ListHistory(productID int64, limit int) ([]HistoryRow, error)

	// Reservations
	CreateReservation(r ReservationRow) (ReservationRow, error)
	GetReservation(id string) (ReservationRow, error)
	ListReservations(f ReservationFilter) ([]ReservationRow, error)
	FinishReservation(id, status string) (ReservationRow, error)
	ExpireDueReservations(now time.Time) (int, error)

	// Addresses
	CreateAddress(a AddressRow) (AddressRow, error)
	GetAddress(id string) (AddressRow, error)
	ListAddresses(customerID string) ([]AddressRow, error)
	UpdateAddress(a AddressRow) (AddressRow, error)
	DeleteAddress(id string) error

	// Guest sessions
	CreateSession(s SessionRow) (SessionRow, error)
	GetSessionByToken(token string, now time.Time) (SessionRow, error)
	TouchSession(token string, now, until time.Time) (SessionRow, error)
	ConvertSession(token, customerID string, now time.Time) (SessionRow, error)
	DeleteSession(token string) error
	PurgeExpiredSessions(now time.Time) (int, error)

	// Activity & analytics
	InsertActivity(e ActivityRow) (int64, error)
	EngagementSummary(from, to time.Time) (EngagementRow, []EventCountRow, error)
	DailyEngagement(from, to time.Time) ([]DailyCountRow, error)

	Close() error
}
