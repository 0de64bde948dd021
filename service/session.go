package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"commerce-backend/store"
)

// SessionService manages guest sessions with a sliding expiry.
type SessionService struct {
	store  store.Store
	clock  clock.Clock
	logger *zap.Logger
	ttl    time.Duration
}

func NewSessionService(s store.Store, clk clock.Clock, logger *zap.Logger, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{store: s, clock: clk, logger: logger, ttl: ttl}
}

type SessionDTO struct {
	ID         string          `json:"id"`
	Token      string          `json:"token"`
	CustomerID string          `json:"customer_id,omitempty"`
	Metadata   json.RawMessage `json:"metadata"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
	LastSeenAt time.Time       `json:"last_seen_at"`
}

func toSessionDTO(r store.SessionRow) SessionDTO {
	dto := SessionDTO{
		ID:         r.ID,
		Token:      r.Token,
		Metadata:   json.RawMessage(r.Metadata),
		CreatedAt:  r.CreatedAt,
		ExpiresAt:  r.ExpiresAt,
		LastSeenAt: r.LastSeenAt,
	}
	if r.CustomerID.Valid {
		dto.CustomerID = r.CustomerID.String
	}
	if len(dto.Metadata) == 0 {
		dto.Metadata = json.RawMessage(`{}`)
	}
	return dto
}

func (s *SessionService) Create(metadata json.RawMessage) (SessionDTO, error) {
	if len(metadata) == 0 {
		metadata = json.RawMessage(`{}`)
	} else if !json.Valid(metadata) {
		return SessionDTO{}, errors.New("metadata must be valid JSON")
	}
	row, err := s.store.CreateSession(store.SessionRow{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		Metadata:  []byte(metadata),
		ExpiresAt: s.clock.Now().Add(s.ttl),
	})
	if err != nil {
		return SessionDTO{}, err
	}
	s.logger.Debug("guest session created", zap.String("session_id", row.ID))
	return toSessionDTO(row), nil
}

func (s *SessionService) Get(token string) (SessionDTO, error) {
	if token == "" {
		return SessionDTO{}, errors.New("token required")
	}
	row, err := s.store.GetSessionByToken(token, s.clock.Now())
	if err != nil {
		return SessionDTO{}, err
	}
	return toSessionDTO(row), nil
}

// Touch slides the session expiry forward by the configured TTL.
func (s *SessionService) Touch(token string) (SessionDTO, error) {
	if token == "" {
		return SessionDTO{}, errors.New("token required")
	}
	now := s.clock.Now()
	row, err := s.store.TouchSession(token, now, now.Add(s.ttl))
	if err != nil {
		return SessionDTO{}, err
	}
	return toSessionDTO(row), nil
}

// Convert attaches a customer to a guest session. One-way.
func (s *SessionService) Convert(token, customerID string) (SessionDTO, error) {
	if token == "" {
		return SessionDTO{}, errors.New("token required")
	}
	if customerID == "" {
		return SessionDTO{}, errors.New("customer_id required")
	}
	row, err := s.store.ConvertSession(token, customerID, s.clock.Now())
	if err != nil {
		return SessionDTO{}, err
	}
	s.logger.Info("guest session converted",
		zap.String("session_id", row.ID),
		zap.String("customer_id", customerID))
	return toSessionDTO(row), nil
}

func (s *SessionService) Delete(token string) error {
	if token == "" {
		return errors.New("token required")
	}
	return s.store.DeleteSession(token)
}

func (s *SessionService) PurgeExpired() (int, error) {
	n, err := s.store.PurgeExpiredSessions(s.clock.Now())
	if err != nil {
		return n, err
	}
	if n > 0 {
		s.logger.Debug("expired sessions purged", zap.Int("count", n))
	}
	return n, nil
}
