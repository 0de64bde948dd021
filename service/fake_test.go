package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"commerce-backend/metrics"
	"commerce-backend/store"
)

// fakeStore implements store.Store via per-method funcs, set per test.
type fakeStore struct {
	GetInventoryFn         func(productID int64) (store.InventoryRow, error)
	ListInventoryFn        func(lowStockOnly bool) ([]store.InventoryRow, error)
	SetStockFn             func(productID int64, quantity int, reason string) (store.InventoryRow, error)
	AdjustStockFn          func(productID int64, delta int, reason string) (store.InventoryRow, error)
	SetLowStockThresholdFn func(productID int64, threshold int) (store.InventoryRow, error)
	ListHistoryFn          func(productID int64, limit int) ([]store.HistoryRow, error)

	CreateReservationFn     func(r store.ReservationRow) (store.ReservationRow, error)
	GetReservationFn        func(id string) (store.ReservationRow, error)
	ListReservationsFn      func(f store.ReservationFilter) ([]store.ReservationRow, error)
	FinishReservationFn     func(id, status string) (store.ReservationRow, error)
	ExpireDueReservationsFn func(now time.Time) (int, error)

	CreateAddressFn func(a store.AddressRow) (store.AddressRow, error)
	GetAddressFn    func(id string) (store.AddressRow, error)
	ListAddressesFn func(customerID string) ([]store.AddressRow, error)
	UpdateAddressFn func(a store.AddressRow) (store.AddressRow, error)
	DeleteAddressFn func(id string) error

	CreateSessionFn       func(s store.SessionRow) (store.SessionRow, error)
	GetSessionByTokenFn   func(token string, now time.Time) (store.SessionRow, error)
	TouchSessionFn        func(token string, now, until time.Time) (store.SessionRow, error)
	ConvertSessionFn      func(token, customerID string, now time.Time) (store.SessionRow, error)
	DeleteSessionFn       func(token string) error
	PurgeExpiredSessionsFn func(now time.Time) (int, error)

	InsertActivityFn    func(e store.ActivityRow) (int64, error)
	EngagementSummaryFn func(from, to time.Time) (store.EngagementRow, []store.EventCountRow, error)
	DailyEngagementFn   func(from, to time.Time) ([]store.DailyCountRow, error)
}

func (f *fakeStore) GetInventory(productID int64) (store.InventoryRow, error) {
	return f.GetInventoryFn(productID)
}
func (f *fakeStore) ListInventory(lowStockOnly bool) ([]store.InventoryRow, error) {
	return f.ListInventoryFn(lowStockOnly)
}
func (f *fakeStore) SetStock(productID int64, quantity int, reason string) (store.InventoryRow, error) {
	return f.SetStockFn(productID, quantity, reason)
}
func (f *fakeStore) AdjustStock(productID int64, delta int, reason string) (store.InventoryRow, error) {
	return f.AdjustStockFn(productID, delta, reason)
}
func (f *fakeStore) SetLowStockThreshold(productID int64, threshold int) (store.InventoryRow, error) {
	return f.SetLowStockThresholdFn(productID, threshold)
}
func (f *fakeStore) ListHistory(productID int64, limit int) ([]store.HistoryRow, error) {
	return f.ListHistoryFn(productID, limit)
}
func (f *fakeStore) CreateReservation(r store.ReservationRow) (store.ReservationRow, error) {
	return f.CreateReservationFn(r)
}
func (f *fakeStore) GetReservation(id string) (store.ReservationRow, error) {
	return f.GetReservationFn(id)
}
func (f *fakeStore) ListReservations(fl store.ReservationFilter) ([]store.ReservationRow, error) {
	return f.ListReservationsFn(fl)
}
func (f *fakeStore) FinishReservation(id, status string) (store.ReservationRow, error) {
	return f.FinishReservationFn(id, status)
}
func (f *fakeStore) ExpireDueReservations(now time.Time) (int, error) {
	return f.ExpireDueReservationsFn(now)
}
func (f *fakeStore) CreateAddress(a store.AddressRow) (store.AddressRow, error) {
	return f.CreateAddressFn(a)
}
func (f *fakeStore) GetAddress(id string) (store.AddressRow, error) { return f.GetAddressFn(id) }
func (f *fakeStore) ListAddresses(customerID string) ([]store.AddressRow, error) {
	return f.ListAddressesFn(customerID)
}
func (f *fakeStore) UpdateAddress(a store.AddressRow) (store.AddressRow, error) {
	return f.UpdateAddressFn(a)
}
func (f *fakeStore) DeleteAddress(id string) error { return f.DeleteAddressFn(id) }
func (f *fakeStore) CreateSession(s store.SessionRow) (store.SessionRow, error) {
	return f.CreateSessionFn(s)
}
func (f *fakeStore) GetSessionByToken(token string, now time.Time) (store.SessionRow, error) {
	return f.GetSessionByTokenFn(token, now)
}
func (f *fakeStore) TouchSession(token string, now, until time.Time) (store.SessionRow, error) {
	return f.TouchSessionFn(token, now, until)
}
func (f *fakeStore) ConvertSession(token, customerID string, now time.Time) (store.SessionRow, error) {
	return f.ConvertSessionFn(token, customerID, now)
}
func (f *fakeStore) DeleteSession(token string) error { return f.DeleteSessionFn(token) }
func (f *fakeStore) PurgeExpiredSessions(now time.Time) (int, error) {
	return f.PurgeExpiredSessionsFn(now)
}
func (f *fakeStore) InsertActivity(e store.ActivityRow) (int64, error) {
	return f.InsertActivityFn(e)
}
func (f *fakeStore) EngagementSummary(from, to time.Time) (store.EngagementRow, []store.EventCountRow, error) {
	return f.EngagementSummaryFn(from, to)
}
func (f *fakeStore) DailyEngagement(from, to time.Time) ([]store.DailyCountRow, error) {
	return f.DailyEngagementFn(from, to)
}
func (f *fakeStore) Close() error { return nil }

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}
