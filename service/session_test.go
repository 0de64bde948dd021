package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"commerce-backend/store"
)

func TestCreateSessionGeneratesTokenAndExpiry(t *testing.T) {
	mock := clock.NewMock()
	var captured store.SessionRow
	fs := &fakeStore{
		CreateSessionFn: func(s store.SessionRow) (store.SessionRow, error) {
			captured = s
			s.CreatedAt = mock.Now()
			s.LastSeenAt = mock.Now()
			return s, nil
		},
	}
	svc := NewSessionService(fs, mock, zap.NewNop(), 2*time.Hour)

	out, err := svc.Create(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Token == "" || captured.ID == "" {
		t.Fatalf("expected generated id and token")
	}
	if want := mock.Now().Add(2 * time.Hour); !captured.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, captured.ExpiresAt)
	}
	if string(out.Metadata) != `{}` {
		t.Fatalf("expected empty metadata object, got %s", out.Metadata)
	}

	// invalid metadata rejected
	if _, err := svc.Create(json.RawMessage(`{broken`)); err == nil {
		t.Fatalf("expected error for invalid metadata json")
	}
}

func TestTouchSessionSlidesExpiry(t *testing.T) {
	mock := clock.NewMock()
	var gotUntil time.Time
	fs := &fakeStore{
		TouchSessionFn: func(token string, now, until time.Time) (store.SessionRow, error) {
			gotUntil = until
			return store.SessionRow{ID: "s1", Token: token, ExpiresAt: until, LastSeenAt: now}, nil
		},
	}
	svc := NewSessionService(fs, mock, zap.NewNop(), time.Hour)

	out, err := svc.Touch("tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := mock.Now().Add(time.Hour); !gotUntil.Equal(want) {
		t.Fatalf("expected new expiry %v, got %v", want, gotUntil)
	}
	if !out.ExpiresAt.Equal(gotUntil) {
		t.Fatalf("dto expiry mismatch")
	}
}

func TestConvertSessionOneWay(t *testing.T) {
	fs := &fakeStore{
		ConvertSessionFn: func(token, customerID string, now time.Time) (store.SessionRow, error) {
			return store.SessionRow{}, store.ErrSessionConverted
		},
	}
	svc := NewSessionService(fs, clock.NewMock(), zap.NewNop(), time.Hour)
	if _, err := svc.Convert("tok", "c1"); !errors.Is(err, store.ErrSessionConverted) {
		t.Fatalf("expected ErrSessionConverted, got %v", err)
	}
	if _, err := svc.Convert("tok", ""); err == nil {
		t.Fatalf("expected error for empty customer_id")
	}
	if _, err := svc.Convert("", "c1"); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestGetSessionMapsCustomer(t *testing.T) {
	fs := &fakeStore{
		GetSessionByTokenFn: func(token string, now time.Time) (store.SessionRow, error) {
			return store.SessionRow{
				ID:         "s1",
				Token:      token,
				CustomerID: sql.NullString{String: "c9", Valid: true},
				Metadata:   []byte(`{"utm":"mail"}`),
			}, nil
		},
	}
	svc := NewSessionService(fs, clock.NewMock(), zap.NewNop(), time.Hour)
	out, err := svc.Get("tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.CustomerID != "c9" {
		t.Fatalf("expected customer c9, got %q", out.CustomerID)
	}
	if string(out.Metadata) != `{"utm":"mail"}` {
		t.Fatalf("unexpected metadata: %s", out.Metadata)
	}
}

func TestPurgeExpiredForwardsClockNow(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	var gotNow time.Time
	fs := &fakeStore{
		PurgeExpiredSessionsFn: func(now time.Time) (int, error) {
			gotNow = now
			return 2, nil
		},
	}
	svc := NewSessionService(fs, mock, zap.NewNop(), time.Hour)
	n, err := svc.PurgeExpired()
	if err != nil || n != 2 {
		t.Fatalf("unexpected result: %d %v", n, err)
	}
	if !gotNow.Equal(mock.Now()) {
		t.Fatalf("expected purge at mock now, got %v", gotNow)
	}
}
