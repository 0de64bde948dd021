package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"commerce-backend/metrics"
	"commerce-backend/store"
)

// ActivityService appends activity events and serves engagement analytics.
type ActivityService struct {
	store   store.Store
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewActivityService(s store.Store, logger *zap.Logger, m *metrics.Metrics) *ActivityService {
	return &ActivityService{store: s, logger: logger, metrics: m}
}

// ActivityInput is one tracked event. SessionID or CustomerID may be empty
// but not both.
type ActivityInput struct {
	SessionID  string          `json:"session_id"`
	CustomerID string          `json:"customer_id"`
	EventType  string          `json:"event_type"`
	Path       string          `json:"path"`
	ProductID  int64           `json:"product_id"`
	Metadata   json.RawMessage `json:"metadata"`
}

type EventCountDTO struct {
	EventType string `json:"event_type"`
	Count     int64  `json:"count"`
}

type EngagementDTO struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	TotalEvents       int64           `json:"total_events"`
	UniqueSessions    int64           `json:"unique_sessions"`
	ConvertedSessions int64           `json:"converted_sessions"`
	ConversionRate    float64         `json:"conversion_rate"`
	ByEventType       []EventCountDTO `json:"by_event_type"`
}

type DailyCountDTO struct {
	Day       string `json:"day"`
	EventType string `json:"event_type"`
	Count     int64  `json:"count"`
}

func (s *ActivityService) Record(in ActivityInput) (int64, error) {
	if in.EventType == "" {
		return 0, errors.New("event_type required")
	}
	if in.SessionID == "" && in.CustomerID == "" {
		return 0, errors.New("session_id or customer_id required")
	}
	meta := in.Metadata
	if len(meta) == 0 {
		meta = json.RawMessage(`{}`)
	} else if !json.Valid(meta) {
		return 0, errors.New("metadata must be valid JSON")
	}
	row := store.ActivityRow{
		SessionID:  in.SessionID,
		CustomerID: in.CustomerID,
		EventType:  in.EventType,
		Path:       in.Path,
		Metadata:   []byte(meta),
	}
	if in.ProductID > 0 {
		row.ProductID = sql.NullInt64{Int64: in.ProductID, Valid: true}
	}
	id, err := s.store.InsertActivity(row)
	if err != nil {
		return 0, err
	}
	s.metrics.ActivityEvents.WithLabelValues(in.EventType).Inc()
	return id, nil
}

func (s *ActivityService) Engagement(from, to time.Time) (EngagementDTO, error) {
	if !from.Before(to) {
		return EngagementDTO{}, errors.New("from must be before to")
	}
	sum, counts, err := s.store.EngagementSummary(from, to)
	if err != nil {
		return EngagementDTO{}, err
	}
	dto := EngagementDTO{
		From:              from,
		To:                to,
		TotalEvents:       sum.TotalEvents,
		UniqueSessions:    sum.UniqueSessions,
		ConvertedSessions: sum.ConvertedSessions,
		ByEventType:       make([]EventCountDTO, 0, len(counts)),
	}
	if sum.UniqueSessions > 0 {
		dto.ConversionRate = float64(sum.ConvertedSessions) / float64(sum.UniqueSessions)
	}
	for _, c := range counts {
		dto.ByEventType = append(dto.ByEventType, EventCountDTO{EventType: c.EventType, Count: c.Count})
	}
	return dto, nil
}

func (s *ActivityService) EngagementDaily(from, to time.Time) ([]DailyCountDTO, error) {
	if !from.Before(to) {
		return nil, errors.New("from must be before to")
	}
	rows, err := s.store.DailyEngagement(from, to)
	if err != nil {
		return nil, err
	}
	out := make([]DailyCountDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, DailyCountDTO{
			Day:       r.Day.Format("2006-01-02"),
			EventType: r.EventType,
			Count:     r.Count,
		})
	}
	return out, nil
}
