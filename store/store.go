package store

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// Sentinel errors the service and handler layers map to HTTP codes.
var (
	// ErrInsufficientStock returned when a reservation would push reserved above quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNotFound returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition returned when a reservation is not active anymore.
	ErrInvalidTransition = errors.New("reservation is not active")
	// ErrReservedExceedsStock returned when a stock change would drop quantity below reserved.
	ErrReservedExceedsStock = errors.New("quantity would fall below reserved")
	// ErrSessionConverted returned when a guest session already has a customer attached.
	ErrSessionConverted = errors.New("session already converted")
)

// InventoryRow mirrors one inventory table row.
type InventoryRow struct {
	ProductID         int64
	Quantity          int
	Reserved          int
	LowStockThreshold int
	UpdatedAt         time.Time
}

// ReservationRow mirrors one stock_reservations row.
type ReservationRow struct {
	ID         string
	ProductID  int64
	Quantity   int
	OrderID    string
	CustomerID string
	Status     string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HistoryRow mirrors one inventory_history row.
type HistoryRow struct {
	ID            int64
	ProductID     int64
	Action        string
	QuantityDelta int
	ReservedDelta int
	QuantityAfter int
	ReservedAfter int
	Reason        string
	CreatedAt     time.Time
}

// AddressRow mirrors one addresses row.
type AddressRow struct {
	ID                string
	CustomerID        string
	Label             string
	FirstName         string
	LastName          string
	Line1             string
	Line2             string
	City              string
	Region            string
	PostalCode        string
	Country           string
	Phone             string
	IsDefaultShipping bool
	IsDefaultBilling  bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SessionRow mirrors one guest_sessions row.
type SessionRow struct {
	ID         string
	Token      string
	CustomerID sql.NullString
	Metadata   []byte
	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastSeenAt time.Time
}

// ActivityRow mirrors one activity_events row.
type ActivityRow struct {
	ID         int64
	SessionID  string
	CustomerID string
	EventType  string
	Path       string
	ProductID  sql.NullInt64
	Metadata   []byte
	CreatedAt  time.Time
}

// EventCountRow is a per-event-type aggregate.
type EventCountRow struct {
	EventType string
	Count     int64
}

// DailyCountRow is a per-day, per-event-type aggregate.
type DailyCountRow struct {
	Day       time.Time
	EventType string
	Count     int64
}

// EngagementRow is the summary aggregate over the activity log.
type EngagementRow struct {
	TotalEvents       int64
	UniqueSessions    int64
	ConvertedSessions int64
}

// ReservationFilter narrows ListReservations. Zero values mean "any".
type ReservationFilter struct {
	ProductID  int64
	OrderID    string
	CustomerID string
	Status     string
	Limit      int
}

// PostgresStore is a Store backed by Postgres with process-local
// per-product locks around the reservation paths.
type PostgresStore struct {
	DB *sql.DB

	// per-product mutexes so concurrent goroutines in this process
	// queue up before contending on the row lock. Keys are product_id.
	locks sync.Map // map[int64]*sync.Mutex
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// lockForProduct acquires the process-local lock for a product. Returns unlock func.
func (s *PostgresStore) lockForProduct(productID int64) func() {
	if v, ok := s.locks.Load(productID); ok {
		m := v.(*sync.Mutex)
		m.Lock()
		return m.Unlock
	}
	m := &sync.Mutex{}
	actual, _ := s.locks.LoadOrStore(productID, m)
	mtx := actual.(*sync.Mutex)
	mtx.Lock()
	return mtx.Unlock
}
