package store

import (
	"database/sql"
	"errors"
)

const addressCols = `id, customer_id, label, first_name, last_name, line1, line2, city, region, postal_code, country, phone, is_default_shipping, is_default_billing, created_at, updated_at`

func scanAddress(row interface{ Scan(...interface{}) error }) (AddressRow, error) {
	var a AddressRow
	err := row.Scan(&a.ID, &a.CustomerID, &a.Label, &a.FirstName, &a.LastName, &a.Line1, &a.Line2,
		&a.City, &a.Region, &a.PostalCode, &a.Country, &a.Phone,
		&a.IsDefaultShipping, &a.IsDefaultBilling, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// clearDefaults unsets existing default flags that the incoming row claims,
// so a customer never holds two default shipping or billing addresses.
func clearDefaults(tx *sql.Tx, a AddressRow) error {
	if a.IsDefaultShipping {
		if _, err := tx.Exec(`UPDATE addresses SET is_default_shipping = FALSE, updated_at = now() WHERE customer_id = $1 AND is_default_shipping AND id <> $2`, a.CustomerID, a.ID); err != nil {
			return err
		}
	}
	if a.IsDefaultBilling {
		if _, err := tx.Exec(`UPDATE addresses SET is_default_billing = FALSE, updated_at = now() WHERE customer_id = $1 AND is_default_billing AND id <> $2`, a.CustomerID, a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) CreateAddress(a AddressRow) (AddressRow, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return a, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearDefaults(tx, a); err != nil {
		return a, err
	}
	out, err := scanAddress(tx.QueryRow(`
		INSERT INTO addresses (id, customer_id, label, first_name, last_name, line1, line2, city, region, postal_code, country, phone, is_default_shipping, is_default_billing)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING `+addressCols,
		a.ID, a.CustomerID, a.Label, a.FirstName, a.LastName, a.Line1, a.Line2,
		a.City, a.Region, a.PostalCode, a.Country, a.Phone, a.IsDefaultShipping, a.IsDefaultBilling))
	if err != nil {
		return a, err
	}
	return out, tx.Commit()
}

func (s *PostgresStore) GetAddress(id string) (AddressRow, error) {
	a, err := scanAddress(s.DB.QueryRow(`SELECT `+addressCols+` FROM addresses WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

func (s *PostgresStore) ListAddresses(customerID string) ([]AddressRow, error) {
	rows, err := s.DB.Query(`SELECT `+addressCols+` FROM addresses WHERE customer_id = $1 ORDER BY created_at`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AddressRow{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateAddress(a AddressRow) (AddressRow, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return a, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearDefaults(tx, a); err != nil {
		return a, err
	}
	out, err := scanAddress(tx.QueryRow(`
		UPDATE addresses SET label=$1, first_name=$2, last_name=$3, line1=$4, line2=$5, city=$6, region=$7,
			postal_code=$8, country=$9, phone=$10, is_default_shipping=$11, is_default_billing=$12, updated_at=now()
		WHERE id = $13 AND customer_id = $14
		RETURNING `+addressCols,
		a.Label, a.FirstName, a.LastName, a.Line1, a.Line2, a.City, a.Region,
		a.PostalCode, a.Country, a.Phone, a.IsDefaultShipping, a.IsDefaultBilling, a.ID, a.CustomerID))
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	if err != nil {
		return a, err
	}
	return out, tx.Commit()
}

func (s *PostgresStore) DeleteAddress(id string) error {
	res, err := s.DB.Exec(`DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}
