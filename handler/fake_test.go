package handler

import (
	"encoding/json"
	"time"

	models "commerce-backend/model"
	"commerce-backend/service"
)

// Fakes for the service interfaces. Each method delegates to an optional
// function field; unset methods return zero values.

type fakeInventory struct {
	GetInventoryFn         func(productID int64) (service.InventoryDTO, error)
	ListInventoryFn        func(lowStockOnly bool) ([]service.InventoryDTO, error)
	SetStockFn             func(productID int64, quantity int, reason string) (service.InventoryDTO, error)
	AdjustStockFn          func(productID int64, delta int, reason string) (service.InventoryDTO, error)
	SetLowStockThresholdFn func(productID int64, threshold int) (service.InventoryDTO, error)
	ListHistoryFn          func(productID int64, limit int) ([]service.HistoryDTO, error)
	ReserveFn              func(req service.ReserveRequest) (service.ReservationDTO, error)
	GetReservationFn       func(id string) (service.ReservationDTO, error)
	ListReservationsFn     func(q service.ReservationQuery) ([]service.ReservationDTO, error)
	CompleteReservationFn  func(id string) (service.ReservationDTO, error)
	CancelReservationFn    func(id string) (service.ReservationDTO, error)
	ExpireDueFn            func() (int, error)
}

func (f *fakeInventory) GetInventory(productID int64) (service.InventoryDTO, error) {
	if f.GetInventoryFn != nil {
		return f.GetInventoryFn(productID)
	}
	return service.InventoryDTO{}, nil
}

func (f *fakeInventory) ListInventory(lowStockOnly bool) ([]service.InventoryDTO, error) {
	if f.ListInventoryFn != nil {
		return f.ListInventoryFn(lowStockOnly)
	}
	return nil, nil
}

func (f *fakeInventory) SetStock(productID int64, quantity int, reason string) (service.InventoryDTO, error) {
	if f.SetStockFn != nil {
		return f.SetStockFn(productID, quantity, reason)
	}
	return service.InventoryDTO{}, nil
}

func (f *fakeInventory) AdjustStock(productID int64, delta int, reason string) (service.InventoryDTO, error) {
	if f.AdjustStockFn != nil {
		return f.AdjustStockFn(productID, delta, reason)
	}
	return service.InventoryDTO{}, nil
}

func (f *fakeInventory) SetLowStockThreshold(productID int64, threshold int) (service.InventoryDTO, error) {
	if f.SetLowStockThresholdFn != nil {
		return f.SetLowStockThresholdFn(productID, threshold)
	}
	return service.InventoryDTO{}, nil
}

func (f *fakeInventory) ListHistory(productID int64, limit int) ([]service.HistoryDTO, error) {
	if f.ListHistoryFn != nil {
		return f.ListHistoryFn(productID, limit)
	}
	return nil, nil
}

func (f *fakeInventory) Reserve(req service.ReserveRequest) (service.ReservationDTO, error) {
	if f.ReserveFn != nil {
		return f.ReserveFn(req)
	}
	return service.ReservationDTO{}, nil
}

func (f *fakeInventory) GetReservation(id string) (service.ReservationDTO, error) {
	if f.GetReservationFn != nil {
		return f.GetReservationFn(id)
	}
	return service.ReservationDTO{}, nil
}

func (f *fakeInventory) ListReservations(q service.ReservationQuery) ([]service.ReservationDTO, error) {
	if f.ListReservationsFn != nil {
		return f.ListReservationsFn(q)
	}
	return nil, nil
}

func (f *fakeInventory) CompleteReservation(id string) (service.ReservationDTO, error) {
	if f.CompleteReservationFn != nil {
		return f.CompleteReservationFn(id)
	}
	return service.ReservationDTO{}, nil
}

func (f *fakeInventory) CancelReservation(id string) (service.ReservationDTO, error) {
	if f.CancelReservationFn != nil {
		return f.CancelReservationFn(id)
	}
	return service.ReservationDTO{}, nil
}

func (f *fakeInventory) ExpireDue() (int, error) {
	if f.ExpireDueFn != nil {
		return f.ExpireDueFn()
	}
	return 0, nil
}

type fakeAddresses struct {
	CreateFn func(customerID string, in service.AddressInput) (service.AddressDTO, error)
	GetFn    func(id string) (service.AddressDTO, error)
	ListFn   func(customerID string) ([]service.AddressDTO, error)
	UpdateFn func(id, customerID string, in service.AddressInput) (service.AddressDTO, error)
	DeleteFn func(id string) error
}

func (f *fakeAddresses) Create(customerID string, in service.AddressInput) (service.AddressDTO, error) {
	if f.CreateFn != nil {
		return f.CreateFn(customerID, in)
	}
	return service.AddressDTO{}, nil
}

func (f *fakeAddresses) Get(id string) (service.AddressDTO, error) {
	if f.GetFn != nil {
		return f.GetFn(id)
	}
	return service.AddressDTO{}, nil
}

func (f *fakeAddresses) List(customerID string) ([]service.AddressDTO, error) {
	if f.ListFn != nil {
		return f.ListFn(customerID)
	}
	return nil, nil
}

func (f *fakeAddresses) Update(id, customerID string, in service.AddressInput) (service.AddressDTO, error) {
	if f.UpdateFn != nil {
		return f.UpdateFn(id, customerID, in)
	}
	return service.AddressDTO{}, nil
}

func (f *fakeAddresses) Delete(id string) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(id)
	}
	return nil
}

type fakeSessions struct {
	CreateFn       func(metadata json.RawMessage) (service.SessionDTO, error)
	GetFn          func(token string) (service.SessionDTO, error)
	TouchFn        func(token string) (service.SessionDTO, error)
	ConvertFn      func(token, customerID string) (service.SessionDTO, error)
	DeleteFn       func(token string) error
	PurgeExpiredFn func() (int, error)
}

func (f *fakeSessions) Create(metadata json.RawMessage) (service.SessionDTO, error) {
	if f.CreateFn != nil {
		return f.CreateFn(metadata)
	}
	return service.SessionDTO{}, nil
}

func (f *fakeSessions) Get(token string) (service.SessionDTO, error) {
	if f.GetFn != nil {
		return f.GetFn(token)
	}
	return service.SessionDTO{}, nil
}

func (f *fakeSessions) Touch(token string) (service.SessionDTO, error) {
	if f.TouchFn != nil {
		return f.TouchFn(token)
	}
	return service.SessionDTO{}, nil
}

func (f *fakeSessions) Convert(token, customerID string) (service.SessionDTO, error) {
	if f.ConvertFn != nil {
		return f.ConvertFn(token, customerID)
	}
	return service.SessionDTO{}, nil
}

func (f *fakeSessions) Delete(token string) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(token)
	}
	return nil
}

func (f *fakeSessions) PurgeExpired() (int, error) {
	if f.PurgeExpiredFn != nil {
		return f.PurgeExpiredFn()
	}
	return 0, nil
}

type fakeActivity struct {
	RecordFn          func(in service.ActivityInput) (int64, error)
	EngagementFn      func(from, to time.Time) (service.EngagementDTO, error)
	EngagementDailyFn func(from, to time.Time) ([]service.DailyCountDTO, error)
}

func (f *fakeActivity) Record(in service.ActivityInput) (int64, error) {
	if f.RecordFn != nil {
		return f.RecordFn(in)
	}
	return 0, nil
}

func (f *fakeActivity) Engagement(from, to time.Time) (service.EngagementDTO, error) {
	if f.EngagementFn != nil {
		return f.EngagementFn(from, to)
	}
	return service.EngagementDTO{}, nil
}

func (f *fakeActivity) EngagementDaily(from, to time.Time) ([]service.DailyCountDTO, error) {
	if f.EngagementDailyFn != nil {
		return f.EngagementDailyFn(from, to)
	}
	return nil, nil
}

type fakeCheckout struct {
	StepsFn        func() []models.CheckoutStep
	ValidateStepFn func(key string, payload json.RawMessage, customerID string) (service.StepResult, error)
}

func (f *fakeCheckout) Steps() []models.CheckoutStep {
	if f.StepsFn != nil {
		return f.StepsFn()
	}
	return models.CheckoutSteps()
}

func (f *fakeCheckout) ValidateStep(key string, payload json.RawMessage, customerID string) (service.StepResult, error) {
	if f.ValidateStepFn != nil {
		return f.ValidateStepFn(key, payload, customerID)
	}
	return service.StepResult{Step: key, Valid: true}, nil
}
