package store

import (
	"time"

	models "commerce-backend/model"
)

func (s *PostgresStore) InsertActivity(e ActivityRow) (int64, error) {
	var id int64
	err := s.DB.QueryRow(`
		INSERT INTO activity_events (session_id, customer_id, event_type, path, product_id, metadata)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, e.SessionID, e.CustomerID, e.EventType, e.Path, e.ProductID, e.Metadata).Scan(&id)
	return id, err
}

// EngagementSummary aggregates the activity log over [from, to): total events,
// unique sessions, sessions that placed an order, and per-type counts.
func (s *PostgresStore) EngagementSummary(from, to time.Time) (EngagementRow, []EventCountRow, error) {
	var sum EngagementRow
	err := s.DB.QueryRow(`
		SELECT COUNT(*),
		       COUNT(DISTINCT session_id) FILTER (WHERE session_id <> ''),
		       COUNT(DISTINCT session_id) FILTER (WHERE session_id <> '' AND event_type = $3)
		FROM activity_events
		WHERE created_at >= $1 AND created_at < $2
	`, from, to, models.EventOrderPlaced).Scan(&sum.TotalEvents, &sum.UniqueSessions, &sum.ConvertedSessions)
	if err != nil {
		return sum, nil, err
	}

	rows, err := s.DB.Query(`
		SELECT event_type, COUNT(*)
		FROM activity_events
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY event_type
		ORDER BY COUNT(*) DESC
	`, from, to)
	if err != nil {
		return sum, nil, err
	}
	defer rows.Close()
	counts := []EventCountRow{}
	for rows.Next() {
		var c EventCountRow
		if err := rows.Scan(&c.EventType, &c.Count); err != nil {
			return sum, nil, err
		}
		counts = append(counts, c)
	}
	return sum, counts, rows.Err()
}

func (s *PostgresStore) DailyEngagement(from, to time.Time) ([]DailyCountRow, error) {
	rows, err := s.DB.Query(`
		SELECT date_trunc('day', created_at) AS day, event_type, COUNT(*)
		FROM activity_events
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY day, event_type
		ORDER BY day, event_type
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []DailyCountRow{}
	for rows.Next() {
		var d DailyCountRow
		if err := rows.Scan(&d.Day, &d.EventType, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
