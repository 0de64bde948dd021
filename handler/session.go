package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type createSessionReq struct {
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json")
			return
		}
	}
	sess, err := h.svc.Sessions.Create(req.Metadata)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// GetSession handles GET /sessions/{token}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Sessions.Get(mux.Vars(r)["token"])
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// TouchSession handles POST /sessions/{token}/touch: slides the expiry.
func (h *Handler) TouchSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Sessions.Touch(mux.Vars(r)["token"])
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// ConvertSession handles POST /sessions/{token}/convert: attaches the
// authenticated customer to the guest session.
func (h *Handler) ConvertSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Sessions.Convert(mux.Vars(r)["token"], claimsFrom(r).Subject)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles DELETE /sessions/{token}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Sessions.Delete(mux.Vars(r)["token"]); err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
