package service

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"commerce-backend/metrics"
	models "commerce-backend/model"
	"commerce-backend/store"
)

// InventoryService holds stock levels and the reservation lifecycle.
type InventoryService struct {
	store   store.Store
	clock   clock.Clock
	logger  *zap.Logger
	metrics *metrics.Metrics

	// default hold duration when a reserve request carries no TTL
	reservationTTL time.Duration
}

func NewInventoryService(s store.Store, clk clock.Clock, logger *zap.Logger, m *metrics.Metrics, reservationTTL time.Duration) *InventoryService {
	if reservationTTL <= 0 {
		reservationTTL = models.ReservationTTLDefault
	}
	return &InventoryService{store: s, clock: clk, logger: logger, metrics: m, reservationTTL: reservationTTL}
}

// DTOs

type InventoryDTO struct {
	ProductID         int64     `json:"product_id"`
	Quantity          int       `json:"quantity"`
	Reserved          int       `json:"reserved"`
	Available         int       `json:"available"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	IsLowStock        bool      `json:"is_low_stock"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type HistoryDTO struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"product_id"`
	Action        string    `json:"action"`
	QuantityDelta int       `json:"quantity_delta"`
	ReservedDelta int       `json:"reserved_delta"`
	QuantityAfter int       `json:"quantity_after"`
	ReservedAfter int       `json:"reserved_after"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

type ReservationDTO struct {
	ID         string    `json:"id"`
	ProductID  int64     `json:"product_id"`
	Quantity   int       `json:"quantity"`
	OrderID    string    `json:"order_id,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReserveRequest is the input to Reserve. TTL of zero means the service default.
type ReserveRequest struct {
	ProductID  int64
	Quantity   int
	OrderID    string
	CustomerID string
	TTL        time.Duration
}

// ReservationQuery filters ListReservations. Zero values mean "any".
type ReservationQuery struct {
	ProductID  int64
	OrderID    string
	CustomerID string
	Status     string
	Limit      int
}

func toInventoryDTO(r store.InventoryRow) InventoryDTO {
	available := r.Quantity - r.Reserved
	return InventoryDTO{
		ProductID:         r.ProductID,
		Quantity:          r.Quantity,
		Reserved:          r.Reserved,
		Available:         available,
		LowStockThreshold: r.LowStockThreshold,
		IsLowStock:        available <= r.LowStockThreshold,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toReservationDTO(r store.ReservationRow) ReservationDTO {
	return ReservationDTO{
		ID:         r.ID,
		ProductID:  r.ProductID,
		Quantity:   r.Quantity,
		OrderID:    r.OrderID,
		CustomerID: r.CustomerID,
		Status:     r.Status,
		ExpiresAt:  r.ExpiresAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (s *InventoryService) GetInventory(productID int64) (InventoryDTO, error) {
	if productID <= 0 {
		return InventoryDTO{}, errors.New("product_id required")
	}
	row, err := s.store.GetInventory(productID)
	if err != nil {
		return InventoryDTO{}, err
	}
	return toInventoryDTO(row), nil
}

func (s *InventoryService) ListInventory(lowStockOnly bool) ([]InventoryDTO, error) {
	rows, err := s.store.ListInventory(lowStockOnly)
	if err != nil {
		return nil, err
	}
	out := make([]InventoryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, toInventoryDTO(r))
	}
	return out, nil
}

func (s *InventoryService) SetStock(productID int64, quantity int, reason string) (InventoryDTO, error) {
	if productID <= 0 {
		return InventoryDTO{}, errors.New("product_id required")
	}
	if quantity < 0 {
		return InventoryDTO{}, errors.New("quantity must be >= 0")
	}
	row, err := s.store.SetStock(productID, quantity, reason)
	if err != nil {
		return InventoryDTO{}, err
	}
	dto := toInventoryDTO(row)
	if dto.IsLowStock {
		s.logger.Warn("low stock",
			zap.Int64("product_id", dto.ProductID),
			zap.Int("available", dto.Available),
			zap.Int("threshold", dto.LowStockThreshold))
	}
	return dto, nil
}

func (s *InventoryService) AdjustStock(productID int64, delta int, reason string) (InventoryDTO, error) {
	if productID <= 0 {
		return InventoryDTO{}, errors.New("product_id required")
	}
	if delta == 0 {
		return InventoryDTO{}, errors.New("delta must be non-zero")
	}
	row, err := s.store.AdjustStock(productID, delta, reason)
	if err != nil {
		return InventoryDTO{}, err
	}
	dto := toInventoryDTO(row)
	if dto.IsLowStock {
		s.logger.Warn("low stock",
			zap.Int64("product_id", dto.ProductID),
			zap.Int("available", dto.Available),
			zap.Int("threshold", dto.LowStockThreshold))
	}
	return dto, nil
}

func (s *InventoryService) SetLowStockThreshold(productID int64, threshold int) (InventoryDTO, error) {
	if productID <= 0 {
		return InventoryDTO{}, errors.New("product_id required")
	}
	if threshold < 0 {
		return InventoryDTO{}, errors.New("threshold must be >= 0")
	}
	row, err := s.store.SetLowStockThreshold(productID, threshold)
	if err != nil {
		return InventoryDTO{}, err
	}
	return toInventoryDTO(row), nil
}

func (s *InventoryService) ListHistory(productID int64, limit int) ([]HistoryDTO, error) {
	if productID <= 0 {
		return nil, errors.New("product_id required")
	}
	rows, err := s.store.ListHistory(productID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, HistoryDTO{
			ID:            r.ID,
			ProductID:     r.ProductID,
			Action:        r.Action,
			QuantityDelta: r.QuantityDelta,
			ReservedDelta: r.ReservedDelta,
			QuantityAfter: r.QuantityAfter,
			ReservedAfter: r.ReservedAfter,
			Reason:        r.Reason,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out, nil
}

// Reserve places a time-limited hold against available stock.
func (s *InventoryService) Reserve(req ReserveRequest) (ReservationDTO, error) {
	if req.ProductID <= 0 {
		return ReservationDTO{}, errors.New("product_id required")
	}
	if req.Quantity <= 0 {
		return ReservationDTO{}, errors.New("quantity must be > 0")
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = s.reservationTTL
	}
	row := store.ReservationRow{
		ID:         uuid.NewString(),
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		OrderID:    req.OrderID,
		CustomerID: req.CustomerID,
		Status:     string(models.ReservationActive),
		ExpiresAt:  s.clock.Now().Add(ttl),
	}
	out, err := s.store.CreateReservation(row)
	if err != nil {
		return ReservationDTO{}, err
	}
	s.logger.Info("stock reserved",
		zap.String("reservation_id", out.ID),
		zap.Int64("product_id", out.ProductID),
		zap.Int("quantity", out.Quantity),
		zap.Time("expires_at", out.ExpiresAt))
	return toReservationDTO(out), nil
}

func (s *InventoryService) GetReservation(id string) (ReservationDTO, error) {
	if id == "" {
		return ReservationDTO{}, errors.New("reservation id required")
	}
	row, err := s.store.GetReservation(id)
	if err != nil {
		return ReservationDTO{}, err
	}
	return toReservationDTO(row), nil
}

func (s *InventoryService) ListReservations(q ReservationQuery) ([]ReservationDTO, error) {
	if q.Status != "" && !models.ReservationStatus(q.Status).Valid() {
		return nil, errors.New("unknown status")
	}
	rows, err := s.store.ListReservations(store.ReservationFilter{
		ProductID:  q.ProductID,
		OrderID:    q.OrderID,
		CustomerID: q.CustomerID,
		Status:     q.Status,
		Limit:      q.Limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]ReservationDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, toReservationDTO(r))
	}
	return out, nil
}

// CompleteReservation commits a hold: the stock leaves inventory for good.
func (s *InventoryService) CompleteReservation(id string) (ReservationDTO, error) {
	return s.finish(id, models.ReservationCompleted)
}

// CancelReservation releases a hold back to available stock.
func (s *InventoryService) CancelReservation(id string) (ReservationDTO, error) {
	return s.finish(id, models.ReservationCancelled)
}

func (s *InventoryService) finish(id string, status models.ReservationStatus) (ReservationDTO, error) {
	if id == "" {
		return ReservationDTO{}, errors.New("reservation id required")
	}
	row, err := s.store.FinishReservation(id, string(status))
	if err != nil {
		return ReservationDTO{}, err
	}
	s.logger.Info("reservation finished",
		zap.String("reservation_id", row.ID),
		zap.String("status", row.Status),
		zap.Int64("product_id", row.ProductID))
	s.metrics.ReservationsFinished.WithLabelValues(row.Status).Inc()
	return toReservationDTO(row), nil
}

// ExpireDue expires every active reservation past its deadline and releases
// the stock it held. Called by the sweeper and by the admin endpoint.
func (s *InventoryService) ExpireDue() (int, error) {
	n, err := s.store.ExpireDueReservations(s.clock.Now())
	if err != nil {
		return n, err
	}
	if n > 0 {
		s.logger.Info("reservations expired", zap.Int("count", n))
		s.metrics.ReservationsFinished.WithLabelValues(string(models.ReservationExpired)).Add(float64(n))
	}
	return n, nil
}
