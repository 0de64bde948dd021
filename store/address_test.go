package store

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func addressRowValues(id, customerID string, defShip, defBill bool) []driver.Value {
	now := time.Now()
	return []driver.Value{id, customerID, "home", "Ada", "Lovelace", "1 Main St", "", "Springfield", "IL", "62701", "US", "", defShip, defBill, now, now}
}

func addressSQLRows(vals ...[]driver.Value) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "customer_id", "label", "first_name", "last_name", "line1", "line2", "city", "region", "postal_code", "country", "phone", "is_default_shipping", "is_default_billing", "created_at", "updated_at"})
	for _, v := range vals {
		rows.AddRow(v...)
	}
	return rows
}

func TestCreateAddress_ClearsPriorDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE addresses SET is_default_shipping = FALSE, updated_at = now() WHERE customer_id = $1 AND is_default_shipping AND id <> $2`)).
		WithArgs("c1", "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO addresses`)).
		WillReturnRows(addressSQLRows(addressRowValues("a1", "c1", true, false)))
	mock.ExpectCommit()

	out, err := s.CreateAddress(AddressRow{
		ID: "a1", CustomerID: "c1", Label: "home", FirstName: "Ada", LastName: "Lovelace",
		Line1: "1 Main St", City: "Springfield", Region: "IL", PostalCode: "62701", Country: "US",
		IsDefaultShipping: true,
	})
	if err != nil {
		t.Fatalf("CreateAddress failed: %v", err)
	}
	if !out.IsDefaultShipping {
		t.Fatalf("expected default shipping flag set")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateAddress_NoDefaultsSkipsClear(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO addresses`)).
		WillReturnRows(addressSQLRows(addressRowValues("a1", "c1", false, false)))
	mock.ExpectCommit()

	if _, err := s.CreateAddress(AddressRow{ID: "a1", CustomerID: "c1"}); err != nil {
		t.Fatalf("CreateAddress failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateAddress_WrongCustomerIsNotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE addresses SET`)).
		WillReturnRows(addressSQLRows()) // zero rows scans as ErrNoRows
	mock.ExpectRollback()

	_, err := s.UpdateAddress(AddressRow{ID: "a1", CustomerID: "someone-else"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteAddress_NoRowsIsNotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM addresses WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteAddress("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
