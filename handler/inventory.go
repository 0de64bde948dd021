package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"commerce-backend/service"
)

// --- request shapes ---

type setStockReq struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

type adjustStockReq struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason,omitempty"`
}

type setThresholdReq struct {
	Threshold int `json:"threshold"`
}

type reserveReq struct {
	ProductID  int64  `json:"product_id"`
	Quantity   int    `json:"quantity"`
	OrderID    string `json:"order_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"` // admin only; others reserve as themselves
	TTLSeconds int    `json:"ttl_seconds,omitempty"`
}

func productIDVar(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["productID"], 10, 64)
	return id
}

// GetInventory handles GET /inventory/{productID}. Public: checkout needs
// availability without a login.
func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Inventory.GetInventory(productIDVar(r))
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// ListInventory handles GET /inventory?low_stock=true (admin).
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	lowStockOnly := r.URL.Query().Get("low_stock") == "true"
	out, err := h.svc.Inventory.ListInventory(lowStockOnly)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SetStock handles PUT /inventory/{productID}/stock (admin).
func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request) {
	var req setStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity < 0 {
		writeErr(w, http.StatusBadRequest, "quantity must be >= 0")
		return
	}
	inv, err := h.svc.Inventory.SetStock(productIDVar(r), req.Quantity, req.Reason)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// AdjustStock handles POST /inventory/{productID}/adjust (admin).
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Delta == 0 {
		writeErr(w, http.StatusBadRequest, "delta must be non-zero")
		return
	}
	inv, err := h.svc.Inventory.AdjustStock(productIDVar(r), req.Delta, req.Reason)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// SetThreshold handles PUT /inventory/{productID}/threshold (admin).
func (h *Handler) SetThreshold(w http.ResponseWriter, r *http.Request) {
	var req setThresholdReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Threshold < 0 {
		writeErr(w, http.StatusBadRequest, "threshold must be >= 0")
		return
	}
	inv, err := h.svc.Inventory.SetLowStockThreshold(productIDVar(r), req.Threshold)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// ListHistory handles GET /inventory/{productID}/history?limit= (admin).
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.svc.Inventory.ListHistory(productIDVar(r), limit)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateReservation handles POST /reservations.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req reserveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID <= 0 {
		writeErr(w, http.StatusBadRequest, "product_id required")
		return
	}
	if req.Quantity <= 0 {
		writeErr(w, http.StatusBadRequest, "quantity must be > 0")
		return
	}
	claims := claimsFrom(r)
	customerID := claims.Subject
	if req.CustomerID != "" {
		if !claims.Admin {
			writeErr(w, http.StatusForbidden, "cannot reserve for another customer")
			return
		}
		customerID = req.CustomerID
	}
	res, err := h.svc.Inventory.Reserve(service.ReserveRequest{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		OrderID:    req.OrderID,
		CustomerID: customerID,
		TTL:        time.Duration(req.TTLSeconds) * time.Second,
	})
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GetReservation handles GET /reservations/{id} (owner or admin).
func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Inventory.GetReservation(mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	claims := claimsFrom(r)
	if !claims.Admin && res.CustomerID != claims.Subject {
		writeErr(w, http.StatusForbidden, "not your reservation")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListReservations handles GET /reservations (admin).
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	productID, _ := strconv.ParseInt(q.Get("product_id"), 10, 64)
	limit, _ := strconv.Atoi(q.Get("limit"))
	out, err := h.svc.Inventory.ListReservations(service.ReservationQuery{
		ProductID:  productID,
		OrderID:    q.Get("order_id"),
		CustomerID: q.Get("customer_id"),
		Status:     q.Get("status"),
		Limit:      limit,
	})
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CompleteReservation handles POST /reservations/{id}/complete.
func (h *Handler) CompleteReservation(w http.ResponseWriter, r *http.Request) {
	h.finishReservation(w, r, h.svc.Inventory.CompleteReservation)
}

// CancelReservation handles POST /reservations/{id}/cancel.
func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	h.finishReservation(w, r, h.svc.Inventory.CancelReservation)
}

func (h *Handler) finishReservation(w http.ResponseWriter, r *http.Request, finish func(string) (service.ReservationDTO, error)) {
	id := mux.Vars(r)["id"]
	claims := claimsFrom(r)
	if !claims.Admin {
		res, err := h.svc.Inventory.GetReservation(id)
		if err != nil {
			h.writeServiceErr(w, err)
			return
		}
		if res.CustomerID != claims.Subject {
			writeErr(w, http.StatusForbidden, "not your reservation")
			return
		}
	}
	res, err := finish(id)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ExpireReservations handles POST /reservations/expire (admin): runs the
// expiry sweep on demand.
func (h *Handler) ExpireReservations(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Inventory.ExpireDue()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"expired": n})
}
