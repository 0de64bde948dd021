package store

import (
	"database/sql"
	"errors"
	"time"
)

const sessionCols = `id, token, customer_id, metadata, created_at, expires_at, last_seen_at`

func scanSession(row interface{ Scan(...interface{}) error }) (SessionRow, error) {
	var s SessionRow
	err := row.Scan(&s.ID, &s.Token, &s.CustomerID, &s.Metadata, &s.CreatedAt, &s.ExpiresAt, &s.LastSeenAt)
	return s, err
}

func (s *PostgresStore) CreateSession(sess SessionRow) (SessionRow, error) {
	out, err := scanSession(s.DB.QueryRow(`
		INSERT INTO guest_sessions (id, token, customer_id, metadata, expires_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+sessionCols,
		sess.ID, sess.Token, sess.CustomerID, sess.Metadata, sess.ExpiresAt))
	if err != nil {
		return sess, err
	}
	return out, nil
}

// GetSessionByToken returns the session for a token. Expired sessions are
// reported as not found; purging them is the sweeper's job.
func (s *PostgresStore) GetSessionByToken(token string, now time.Time) (SessionRow, error) {
	out, err := scanSession(s.DB.QueryRow(`
		SELECT `+sessionCols+` FROM guest_sessions WHERE token = $1 AND expires_at > $2
	`, token, now))
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound
	}
	return out, err
}

// TouchSession slides the expiry forward and stamps last_seen_at.
func (s *PostgresStore) TouchSession(token string, now, until time.Time) (SessionRow, error) {
	out, err := scanSession(s.DB.QueryRow(`
		UPDATE guest_sessions SET expires_at = $1, last_seen_at = $2
		WHERE token = $3 AND expires_at > $2
		RETURNING `+sessionCols,
		until, now, token))
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound
	}
	return out, err
}

// ConvertSession attaches a customer to a guest session. One-way: a session
// that already carries a customer cannot be converted again.
func (s *PostgresStore) ConvertSession(token, customerID string, now time.Time) (SessionRow, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return SessionRow{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := scanSession(tx.QueryRow(`SELECT `+sessionCols+` FROM guest_sessions WHERE token = $1 AND expires_at > $2 FOR UPDATE`, token, now))
	if errors.Is(err, sql.ErrNoRows) {
		return cur, ErrNotFound
	}
	if err != nil {
		return cur, err
	}
	if cur.CustomerID.Valid {
		return cur, ErrSessionConverted
	}
	out, err := scanSession(tx.QueryRow(`
		UPDATE guest_sessions SET customer_id = $1, last_seen_at = $2 WHERE token = $3
		RETURNING `+sessionCols,
		customerID, now, token))
	if err != nil {
		return out, err
	}
	return out, tx.Commit()
}

func (s *PostgresStore) DeleteSession(token string) error {
	res, err := s.DB.Exec(`DELETE FROM guest_sessions WHERE token = $1`, token)
	if err != nil {
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) PurgeExpiredSessions(now time.Time) (int, error) {
	res, err := s.DB.Exec(`DELETE FROM guest_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	ra, _ := res.RowsAffected()
	return int(ra), nil
}
