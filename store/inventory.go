package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	models "commerce-backend/model"
)

// recordHistory appends an inventory_history row inside the caller's transaction.
// Every quantity/reserved mutation goes through here so the audit trail stays complete.
func recordHistory(tx *sql.Tx, productID int64, action models.HistoryAction, qtyDelta, resDelta, qtyAfter, resAfter int, reason string) error {
	_, err := tx.Exec(`
		INSERT INTO inventory_history (product_id, action, quantity_delta, reserved_delta, quantity_after, reserved_after, reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, productID, string(action), qtyDelta, resDelta, qtyAfter, resAfter, reason)
	return err
}

func (s *PostgresStore) GetInventory(productID int64) (InventoryRow, error) {
	var inv InventoryRow
	err := s.DB.QueryRow(`
		SELECT product_id, quantity, reserved, low_stock_threshold, updated_at
		FROM inventory WHERE product_id = $1
	`, productID).Scan(&inv.ProductID, &inv.Quantity, &inv.Reserved, &inv.LowStockThreshold, &inv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return inv, ErrNotFound
	}
	return inv, err
}

func (s *PostgresStore) ListInventory(lowStockOnly bool) ([]InventoryRow, error) {
	q := `SELECT product_id, quantity, reserved, low_stock_threshold, updated_at FROM inventory`
	if lowStockOnly {
		q += ` WHERE quantity - reserved <= low_stock_threshold`
	}
	q += ` ORDER BY product_id`
	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []InventoryRow{}
	for rows.Next() {
		var inv InventoryRow
		if err := rows.Scan(&inv.ProductID, &inv.Quantity, &inv.Reserved, &inv.LowStockThreshold, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// SetStock sets the absolute quantity for a product, creating the inventory
// row if it does not exist yet. Fails if the new quantity is below reserved.
func (s *PostgresStore) SetStock(productID int64, quantity int, reason string) (InventoryRow, error) {
	unlock := s.lockForProduct(productID)
	defer unlock()

	var inv InventoryRow
	tx, err := s.DB.Begin()
	if err != nil {
		return inv, err
	}
	defer func() { _ = tx.Rollback() }()

	var oldQty, reserved, threshold int
	err = tx.QueryRow(`SELECT quantity, reserved, low_stock_threshold FROM inventory WHERE product_id = $1 FOR UPDATE`, productID).
		Scan(&oldQty, &reserved, &threshold)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first stock entry for this product
		if err := tx.QueryRow(`
			INSERT INTO inventory (product_id, quantity) VALUES ($1,$2)
			RETURNING product_id, quantity, reserved, low_stock_threshold, updated_at
		`, productID, quantity).Scan(&inv.ProductID, &inv.Quantity, &inv.Reserved, &inv.LowStockThreshold, &inv.UpdatedAt); err != nil {
			return inv, err
		}
		if err := recordHistory(tx, productID, models.HistorySet, quantity, 0, quantity, 0, reason); err != nil {
			return inv, err
		}
		return inv, tx.Commit()
	case err != nil:
		return inv, err
	}

	if quantity < reserved {
		return inv, ErrReservedExceedsStock
	}
	if err := tx.QueryRow(`
		UPDATE inventory SET quantity = $1, updated_at = now() WHERE product_id = $2
		RETURNING product_id, quantity, reserved, low_stock_threshold, updated_at
	`, quantity, productID).Scan(&inv.ProductID, &inv.Quantity, &inv.Reserved, &inv.LowStockThreshold, &inv.UpdatedAt); err != nil {
		return inv, err
	}
	if err := recordHistory(tx, productID, models.HistorySet, quantity-oldQty, 0, quantity, reserved, reason); err != nil {
		return inv, err
	}
	return inv, tx.Commit()
}

// AdjustStock applies a relative quantity change. Fails if the result would
// drop below zero or below the currently reserved amount.
func (s *PostgresStore) AdjustStock(productID int64, delta int, reason string) (InventoryRow, error) {
	unlock := s.lockForProduct(productID)
	defer unlock()

	var inv InventoryRow
	tx, err := s.DB.Begin()
	if err != nil {
		return inv, err
	}
	defer func() { _ = tx.Rollback() }()

	var qty, reserved int
	err = tx.QueryRow(`SELECT quantity, reserved FROM inventory WHERE product_id = $1 FOR UPDATE`, productID).Scan(&qty, &reserved)
	if errors.Is(err, sql.ErrNoRows) {
		return inv, ErrNotFound
	}
	if err != nil {
		return inv, err
	}

	newQty := qty + delta
	if newQty < 0 || newQty < reserved {
		return inv, ErrReservedExceedsStock
	}
	if err := tx.QueryRow(`
		UPDATE inventory SET quantity = $1, updated_at = now() WHERE product_id = $2
		RETURNING product_id, quantity, reserved, low_stock_threshold, updated_at
	`, newQty, productID).Scan(&inv.ProductID, &inv.Quantity, &inv.Reserved, &inv.LowStockThreshold, &inv.UpdatedAt); err != nil {
		return inv, err
	}
	if err := recordHistory(tx, productID, models.HistoryAdjust, delta, 0, newQty, reserved, reason); err != nil {
		return inv, err
	}
	return inv, tx.Commit()
}

func (s *PostgresStore) SetLowStockThreshold(productID int64, threshold int) (InventoryRow, error) {
	var inv InventoryRow
	err := s.DB.QueryRow(`
		UPDATE inventory SET low_stock_threshold = $1, updated_at = now() WHERE product_id = $2
		RETURNING product_id, quantity, reserved, low_stock_threshold, updated_at
	`, threshold, productID).Scan(&inv.ProductID, &inv.Quantity, &inv.Reserved, &inv.LowStockThreshold, &inv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return inv, ErrNotFound
	}
	return inv, err
}

func (s *PostgresStore) ListHistory(productID int64, limit int) ([]HistoryRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.DB.Query(`
		SELECT id, product_id, action, quantity_delta, reserved_delta, quantity_after, reserved_after, reason, created_at
		FROM inventory_history WHERE product_id = $1 ORDER BY id DESC LIMIT $2
	`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []HistoryRow{}
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(&h.ID, &h.ProductID, &h.Action, &h.QuantityDelta, &h.ReservedDelta, &h.QuantityAfter, &h.ReservedAfter, &h.Reason, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// CreateReservation reserves stock atomically: the inventory row is locked,
// available stock checked, the reservation inserted and reserved bumped in a
// single transaction. Either all of it lands or none of it does, so no
// compensating delete is needed and reserved can never exceed quantity.
func (s *PostgresStore) CreateReservation(r ReservationRow) (ReservationRow, error) {
	unlock := s.lockForProduct(r.ProductID)
	defer unlock()

	tx, err := s.DB.Begin()
	if err != nil {
		return r, err
	}
	defer func() { _ = tx.Rollback() }()

	var qty, reserved int
	err = tx.QueryRow(`SELECT quantity, reserved FROM inventory WHERE product_id = $1 FOR UPDATE`, r.ProductID).Scan(&qty, &reserved)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	if err != nil {
		return r, err
	}
	if qty-reserved < r.Quantity {
		return r, ErrInsufficientStock
	}

	if err := tx.QueryRow(`
		INSERT INTO stock_reservations (id, product_id, quantity, order_id, customer_id, status, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at
	`, r.ID, r.ProductID, r.Quantity, r.OrderID, r.CustomerID, r.Status, r.ExpiresAt).Scan(&r.CreatedAt, &r.UpdatedAt); err != nil {
		return r, err
	}

	newReserved := reserved + r.Quantity
	if _, err := tx.Exec(`UPDATE inventory SET reserved = $1, updated_at = now() WHERE product_id = $2`, newReserved, r.ProductID); err != nil {
		return r, err
	}
	if err := recordHistory(tx, r.ProductID, models.HistoryReserve, 0, r.Quantity, qty, newReserved, "reservation "+r.ID); err != nil {
		return r, err
	}
	return r, tx.Commit()
}

func (s *PostgresStore) GetReservation(id string) (ReservationRow, error) {
	var r ReservationRow
	err := s.DB.QueryRow(`
		SELECT id, product_id, quantity, order_id, customer_id, status, expires_at, created_at, updated_at
		FROM stock_reservations WHERE id = $1
	`, id).Scan(&r.ID, &r.ProductID, &r.Quantity, &r.OrderID, &r.CustomerID, &r.Status, &r.ExpiresAt, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) ListReservations(f ReservationFilter) ([]ReservationRow, error) {
	conds := []string{}
	args := []interface{}{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != 0 {
		add("product_id = $%d", f.ProductID)
	}
	if f.OrderID != "" {
		add("order_id = $%d", f.OrderID)
	}
	if f.CustomerID != "" {
		add("customer_id = $%d", f.CustomerID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	q := `SELECT id, product_id, quantity, order_id, customer_id, status, expires_at, created_at, updated_at FROM stock_reservations`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	q += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := s.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ReservationRow{}
	for rows.Next() {
		var r ReservationRow
		if err := rows.Scan(&r.ID, &r.ProductID, &r.Quantity, &r.OrderID, &r.CustomerID, &r.Status, &r.ExpiresAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FinishReservation moves an active reservation into a terminal status and
// releases (cancelled, expired) or commits (completed) the held stock.
func (s *PostgresStore) FinishReservation(id, status string) (ReservationRow, error) {
	var r ReservationRow
	tx, err := s.DB.Begin()
	if err != nil {
		return r, err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRow(`
		SELECT id, product_id, quantity, order_id, customer_id, status, expires_at, created_at, updated_at
		FROM stock_reservations WHERE id = $1 FOR UPDATE
	`, id).Scan(&r.ID, &r.ProductID, &r.Quantity, &r.OrderID, &r.CustomerID, &r.Status, &r.ExpiresAt, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	if err != nil {
		return r, err
	}
	if r.Status != string(models.ReservationActive) {
		return r, ErrInvalidTransition
	}

	if err := tx.QueryRow(`
		UPDATE stock_reservations SET status = $1, updated_at = now() WHERE id = $2
		RETURNING status, updated_at
	`, status, id).Scan(&r.Status, &r.UpdatedAt); err != nil {
		return r, err
	}

	var qty, reserved int
	if err := tx.QueryRow(`SELECT quantity, reserved FROM inventory WHERE product_id = $1 FOR UPDATE`, r.ProductID).Scan(&qty, &reserved); err != nil {
		return r, err
	}

	if status == string(models.ReservationCompleted) {
		// stock leaves for good: both quantity and reserved shrink
		newQty, newReserved := qty-r.Quantity, reserved-r.Quantity
		if _, err := tx.Exec(`UPDATE inventory SET quantity = $1, reserved = $2, updated_at = now() WHERE product_id = $3`, newQty, newReserved, r.ProductID); err != nil {
			return r, err
		}
		if err := recordHistory(tx, r.ProductID, models.HistoryCommit, -r.Quantity, -r.Quantity, newQty, newReserved, "reservation "+r.ID); err != nil {
			return r, err
		}
	} else {
		newReserved := reserved - r.Quantity
		if _, err := tx.Exec(`UPDATE inventory SET reserved = $1, updated_at = now() WHERE product_id = $2`, newReserved, r.ProductID); err != nil {
			return r, err
		}
		if err := recordHistory(tx, r.ProductID, models.HistoryRelease, 0, -r.Quantity, qty, newReserved, "reservation "+r.ID); err != nil {
			return r, err
		}
	}
	return r, tx.Commit()
}

// ExpireDueReservations expires every active reservation whose expires_at has
// passed, releasing the held stock. Returns the number expired.
func (s *PostgresStore) ExpireDueReservations(now time.Time) (int, error) {
	rows, err := s.DB.Query(`SELECT id FROM stock_reservations WHERE status = $1 AND expires_at <= $2`, string(models.ReservationActive), now)
	if err != nil {
		return 0, err
	}
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		if _, err := s.FinishReservation(id, string(models.ReservationExpired)); err != nil {
			// a concurrent complete/cancel got there first; fine either way
			if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrNotFound) {
				continue
			}
			return expired, err
		}
		expired++
	}
	return expired, nil
}
