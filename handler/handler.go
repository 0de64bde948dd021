package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"commerce-backend/auth"
	"commerce-backend/metrics"
	"commerce-backend/service"
	"commerce-backend/store"
)

// Handler is the HTTP layer over the services.
type Handler struct {
	svc     service.Services
	tokens  *auth.Tokens
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewHandler(svc service.Services, tokens *auth.Tokens, logger *zap.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, tokens: tokens, logger: logger, metrics: m}
}

// RegisterRoutes registers all routes on the provided router.
func (h *Handler) RegisterRoutes(r *mux.Router, gatherer prometheus.Gatherer) {
	r.Use(h.instrument)

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")

	// Inventory
	r.HandleFunc("/inventory", h.requireAdmin(h.ListInventory)).Methods("GET")
	r.HandleFunc("/inventory/{productID:[0-9]+}", h.GetInventory).Methods("GET")
	r.HandleFunc("/inventory/{productID:[0-9]+}/stock", h.requireAdmin(h.SetStock)).Methods("PUT")
	r.HandleFunc("/inventory/{productID:[0-9]+}/adjust", h.requireAdmin(h.AdjustStock)).Methods("POST")
	r.HandleFunc("/inventory/{productID:[0-9]+}/threshold", h.requireAdmin(h.SetThreshold)).Methods("PUT")
	r.HandleFunc("/inventory/{productID:[0-9]+}/history", h.requireAdmin(h.ListHistory)).Methods("GET")

	// Reservations
	r.HandleFunc("/reservations", h.requireAuth(h.CreateReservation)).Methods("POST")
	r.HandleFunc("/reservations", h.requireAdmin(h.ListReservations)).Methods("GET")
	r.HandleFunc("/reservations/expire", h.requireAdmin(h.ExpireReservations)).Methods("POST")
	r.HandleFunc("/reservations/{id}", h.requireAuth(h.GetReservation)).Methods("GET")
	r.HandleFunc("/reservations/{id}/complete", h.requireAuth(h.CompleteReservation)).Methods("POST")
	r.HandleFunc("/reservations/{id}/cancel", h.requireAuth(h.CancelReservation)).Methods("POST")

	// Addresses
	r.HandleFunc("/addresses", h.requireAuth(h.CreateAddress)).Methods("POST")
	r.HandleFunc("/addresses", h.requireAuth(h.ListAddresses)).Methods("GET")
	r.HandleFunc("/addresses/{id}", h.requireAuth(h.GetAddress)).Methods("GET")
	r.HandleFunc("/addresses/{id}", h.requireAuth(h.UpdateAddress)).Methods("PUT")
	r.HandleFunc("/addresses/{id}", h.requireAuth(h.DeleteAddress)).Methods("DELETE")

	// Checkout
	r.HandleFunc("/checkout/steps", h.CheckoutSteps).Methods("GET")
	r.HandleFunc("/checkout/steps/{key}/validate", h.ValidateCheckoutStep).Methods("POST")

	// Guest sessions
	r.HandleFunc("/sessions", h.CreateSession).Methods("POST")
	r.HandleFunc("/sessions/{token}", h.GetSession).Methods("GET")
	r.HandleFunc("/sessions/{token}/touch", h.TouchSession).Methods("POST")
	r.HandleFunc("/sessions/{token}/convert", h.requireAuth(h.ConvertSession)).Methods("POST")
	r.HandleFunc("/sessions/{token}", h.DeleteSession).Methods("DELETE")

	// Activity & analytics
	r.HandleFunc("/activity", h.RecordActivity).Methods("POST")
	r.HandleFunc("/analytics/engagement", h.requireAdmin(h.Engagement)).Methods("GET")
	r.HandleFunc("/analytics/engagement/daily", h.requireAdmin(h.EngagementDaily)).Methods("GET")
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceErr maps store sentinels to HTTP codes; anything else from the
// service layer is a validation failure (the services only produce those and
// wrapped store errors).
func (h *Handler) writeServiceErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrReservedExceedsStock),
		errors.Is(err, store.ErrSessionConverted):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		writeErr(w, http.StatusBadRequest, err.Error())
	}
}
