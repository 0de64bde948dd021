package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"commerce-backend/service"
	"commerce-backend/store"
)

// CreateAddress handles POST /addresses.
func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var in service.AddressInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	addr, err := h.svc.Addresses.Create(claimsFrom(r).Subject, in)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addr)
}

// ListAddresses handles GET /addresses. Admins may pass ?customer_id= to
// list someone else's book.
func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	customerID := claims.Subject
	if other := r.URL.Query().Get("customer_id"); other != "" {
		if !claims.Admin {
			writeErr(w, http.StatusForbidden, "cannot list another customer's addresses")
			return
		}
		customerID = other
	}
	out, err := h.svc.Addresses.List(customerID)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ownedAddress loads an address and enforces the owner-or-admin policy.
func (h *Handler) ownedAddress(w http.ResponseWriter, r *http.Request) (service.AddressDTO, bool) {
	addr, err := h.svc.Addresses.Get(mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "address not found")
		return addr, false
	}
	if err != nil {
		h.writeServiceErr(w, err)
		return addr, false
	}
	claims := claimsFrom(r)
	if !claims.Admin && addr.CustomerID != claims.Subject {
		writeErr(w, http.StatusForbidden, "not your address")
		return addr, false
	}
	return addr, true
}

// GetAddress handles GET /addresses/{id}.
func (h *Handler) GetAddress(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.ownedAddress(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, addr)
}

// UpdateAddress handles PUT /addresses/{id}.
func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.ownedAddress(w, r)
	if !ok {
		return
	}
	var in service.AddressInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	out, err := h.svc.Addresses.Update(addr.ID, addr.CustomerID, in)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DeleteAddress handles DELETE /addresses/{id}.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.ownedAddress(w, r)
	if !ok {
		return
	}
	if err := h.svc.Addresses.Delete(addr.ID); err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
