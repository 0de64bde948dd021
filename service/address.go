package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"commerce-backend/store"
)

// AddressService validates and persists customer addresses.
type AddressService struct {
	store  store.Store
	logger *zap.Logger
}

func NewAddressService(s store.Store, logger *zap.Logger) *AddressService {
	return &AddressService{store: s, logger: logger}
}

// AddressInput carries the writable address fields.
type AddressInput struct {
	Label             string `json:"label"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Line1             string `json:"line1"`
	Line2             string `json:"line2"`
	City              string `json:"city"`
	Region            string `json:"region"`
	PostalCode        string `json:"postal_code"`
	Country           string `json:"country"`
	Phone             string `json:"phone"`
	IsDefaultShipping bool   `json:"is_default_shipping"`
	IsDefaultBilling  bool   `json:"is_default_billing"`
}

type AddressDTO struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	AddressInput
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func validateAddress(in AddressInput) error {
	required := []struct{ field, value string }{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"line1", in.Line1},
		{"city", in.City},
		{"postal_code", in.PostalCode},
		{"country", in.Country},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required", r.field)
		}
	}
	if len(in.Country) != 2 {
		return errors.New("country must be a 2-letter uppercase ISO code")
	}
	for _, r := range in.Country {
		if r < 'A' || r > 'Z' {
			return errors.New("country must be a 2-letter uppercase ISO code")
		}
	}
	if len(in.PostalCode) > 20 {
		return errors.New("postal_code too long")
	}
	return nil
}

func toAddressDTO(r store.AddressRow) AddressDTO {
	return AddressDTO{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		AddressInput: AddressInput{
			Label:             r.Label,
			FirstName:         r.FirstName,
			LastName:          r.LastName,
			Line1:             r.Line1,
			Line2:             r.Line2,
			City:              r.City,
			Region:            r.Region,
			PostalCode:        r.PostalCode,
			Country:           r.Country,
			Phone:             r.Phone,
			IsDefaultShipping: r.IsDefaultShipping,
			IsDefaultBilling:  r.IsDefaultBilling,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func rowFromInput(id, customerID string, in AddressInput) store.AddressRow {
	return store.AddressRow{
		ID:                id,
		CustomerID:        customerID,
		Label:             in.Label,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Line1:             in.Line1,
		Line2:             in.Line2,
		City:              in.City,
		Region:            in.Region,
		PostalCode:        in.PostalCode,
		Country:           in.Country,
		Phone:             in.Phone,
		IsDefaultShipping: in.IsDefaultShipping,
		IsDefaultBilling:  in.IsDefaultBilling,
	}
}

func (s *AddressService) Create(customerID string, in AddressInput) (AddressDTO, error) {
	if customerID == "" {
		return AddressDTO{}, errors.New("customer_id required")
	}
	if err := validateAddress(in); err != nil {
		return AddressDTO{}, err
	}
	row, err := s.store.CreateAddress(rowFromInput(uuid.NewString(), customerID, in))
	if err != nil {
		return AddressDTO{}, err
	}
	s.logger.Info("address created", zap.String("address_id", row.ID), zap.String("customer_id", customerID))
	return toAddressDTO(row), nil
}

func (s *AddressService) Get(id string) (AddressDTO, error) {
	if id == "" {
		return AddressDTO{}, errors.New("address id required")
	}
	row, err := s.store.GetAddress(id)
	if err != nil {
		return AddressDTO{}, err
	}
	return toAddressDTO(row), nil
}

func (s *AddressService) List(customerID string) ([]AddressDTO, error) {
	if customerID == "" {
		return nil, errors.New("customer_id required")
	}
	rows, err := s.store.ListAddresses(customerID)
	if err != nil {
		return nil, err
	}
	out := make([]AddressDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, toAddressDTO(r))
	}
	return out, nil
}

func (s *AddressService) Update(id, customerID string, in AddressInput) (AddressDTO, error) {
	if id == "" || customerID == "" {
		return AddressDTO{}, errors.New("address id and customer_id required")
	}
	if err := validateAddress(in); err != nil {
		return AddressDTO{}, err
	}
	row, err := s.store.UpdateAddress(rowFromInput(id, customerID, in))
	if err != nil {
		return AddressDTO{}, err
	}
	return toAddressDTO(row), nil
}

func (s *AddressService) Delete(id string) error {
	if id == "" {
		return errors.New("address id required")
	}
	return s.store.DeleteAddress(id)
}
