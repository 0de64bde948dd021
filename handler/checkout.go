package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// CheckoutSteps handles GET /checkout/steps.
func (h *Handler) CheckoutSteps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Checkout.Steps())
}

// ValidateCheckoutStep handles POST /checkout/steps/{key}/validate.
// Validation failures come back in the body with 200; only unknown steps and
// malformed payloads are HTTP errors. Works for guests; a bearer token
// additionally pins address ownership checks to the caller.
func (h *Handler) ValidateCheckoutStep(w http.ResponseWriter, r *http.Request) {
	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	customerID := ""
	if claims := claimsFrom(h.authenticate(r)); claims != nil {
		customerID = claims.Subject
	}
	res, err := h.svc.Checkout.ValidateStep(mux.Vars(r)["key"], payload, customerID)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}
