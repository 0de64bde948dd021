package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"commerce-backend/service"
)

// RecordActivity handles POST /activity. Open to guests: a session id from a
// guest session or a customer id identifies the actor.
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var in service.ActivityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	// an authenticated caller is always recorded under their own id
	if claims := claimsFrom(h.authenticate(r)); claims != nil {
		in.CustomerID = claims.Subject
	}
	id, err := h.svc.Activity.Record(in)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// timeRange reads from/to query params (RFC3339), defaulting to the last 30 days.
func timeRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from, to := now.AddDate(0, 0, -30), now
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, err
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, err
		}
		to = t
	}
	return from, to, nil
}

// Engagement handles GET /analytics/engagement?from=&to= (admin).
func (h *Handler) Engagement(w http.ResponseWriter, r *http.Request) {
	from, to, err := timeRange(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "from/to must be RFC3339 timestamps")
		return
	}
	out, err := h.svc.Activity.Engagement(from, to)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// EngagementDaily handles GET /analytics/engagement/daily?from=&to= (admin).
func (h *Handler) EngagementDaily(w http.ResponseWriter, r *http.Request) {
	from, to, err := timeRange(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "from/to must be RFC3339 timestamps")
		return
	}
	out, err := h.svc.Activity.EngagementDaily(from, to)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
