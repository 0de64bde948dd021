package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	models "commerce-backend/model"
	"commerce-backend/store"
)

// CheckoutService serves the static step config and validates step payloads
// against the current state of addresses and inventory.
type CheckoutService struct {
	addresses AddressInterface
	inventory InventoryInterface
	logger    *zap.Logger

	deliveryMethods []string
	paymentMethods  []string
}

func NewCheckoutService(addresses AddressInterface, inventory InventoryInterface, logger *zap.Logger, deliveryMethods, paymentMethods []string) *CheckoutService {
	if len(deliveryMethods) == 0 {
		deliveryMethods = []string{"standard", "express"}
	}
	if len(paymentMethods) == 0 {
		paymentMethods = []string{"card", "paypal"}
	}
	return &CheckoutService{
		addresses:       addresses,
		inventory:       inventory,
		logger:          logger,
		deliveryMethods: deliveryMethods,
		paymentMethods:  paymentMethods,
	}
}

// FieldError is one validation failure inside a step payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StepResult is the outcome of validating one checkout step.
type StepResult struct {
	Step   string       `json:"step"`
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

// Step payloads.

type cartPayload struct {
	Items []cartItem `json:"items"`
}

type cartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type shippingAddressPayload struct {
	AddressID string `json:"address_id"`
}

type methodPayload struct {
	Method string `json:"method"`
}

type reviewPayload struct {
	Cart           cartPayload `json:"cart"`
	AddressID      string      `json:"address_id"`
	DeliveryMethod string      `json:"delivery_method"`
	PaymentMethod  string      `json:"payment_method"`
}

func (s *CheckoutService) Steps() []models.CheckoutStep {
	return models.CheckoutSteps()
}

// ValidateStep checks one step's payload. Validation failures land in the
// result, not in the returned error; the error is for unknown steps and
// malformed JSON only.
func (s *CheckoutService) ValidateStep(key string, payload json.RawMessage, customerID string) (StepResult, error) {
	res := StepResult{Step: key, Errors: []FieldError{}}
	switch key {
	case models.StepCart:
		var p cartPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return res, errors.New("invalid payload")
		}
		res.Errors = s.validateCart(p)
	case models.StepShippingAddress:
		var p shippingAddressPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return res, errors.New("invalid payload")
		}
		res.Errors = s.validateShippingAddress(p.AddressID, customerID)
	case models.StepDelivery:
		var p methodPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return res, errors.New("invalid payload")
		}
		res.Errors = validateMethod("method", p.Method, s.deliveryMethods)
	case models.StepPayment:
		var p methodPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return res, errors.New("invalid payload")
		}
		res.Errors = validateMethod("method", p.Method, s.paymentMethods)
	case models.StepReview:
		var p reviewPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return res, errors.New("invalid payload")
		}
		res.Errors = append(res.Errors, s.validateCart(p.Cart)...)
		res.Errors = append(res.Errors, s.validateShippingAddress(p.AddressID, customerID)...)
		res.Errors = append(res.Errors, validateMethod("delivery_method", p.DeliveryMethod, s.deliveryMethods)...)
		res.Errors = append(res.Errors, validateMethod("payment_method", p.PaymentMethod, s.paymentMethods)...)
	default:
		return res, fmt.Errorf("unknown checkout step %q", key)
	}
	res.Valid = len(res.Errors) == 0
	return res, nil
}

func (s *CheckoutService) validateCart(p cartPayload) []FieldError {
	errs := []FieldError{}
	if len(p.Items) == 0 {
		return append(errs, FieldError{Field: "items", Message: "cart is empty"})
	}
	for i, item := range p.Items {
		field := fmt.Sprintf("items[%d]", i)
		if item.ProductID <= 0 {
			errs = append(errs, FieldError{Field: field + ".product_id", Message: "product_id required"})
			continue
		}
		if item.Quantity <= 0 {
			errs = append(errs, FieldError{Field: field + ".quantity", Message: "quantity must be > 0"})
			continue
		}
		inv, err := s.inventory.GetInventory(item.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			errs = append(errs, FieldError{Field: field + ".product_id", Message: "unknown product"})
			continue
		}
		if err != nil {
			s.logger.Error("inventory lookup failed during checkout validation",
				zap.Int64("product_id", item.ProductID), zap.Error(err))
			errs = append(errs, FieldError{Field: field, Message: "availability check failed"})
			continue
		}
		if inv.Available < item.Quantity {
			errs = append(errs, FieldError{
				Field:   field + ".quantity",
				Message: fmt.Sprintf("only %d available", inv.Available),
			})
		}
	}
	return errs
}

func (s *CheckoutService) validateShippingAddress(addressID, customerID string) []FieldError {
	if addressID == "" {
		return []FieldError{{Field: "address_id", Message: "address_id required"}}
	}
	addr, err := s.addresses.Get(addressID)
	if errors.Is(err, store.ErrNotFound) {
		return []FieldError{{Field: "address_id", Message: "unknown address"}}
	}
	if err != nil {
		s.logger.Error("address lookup failed during checkout validation",
			zap.String("address_id", addressID), zap.Error(err))
		return []FieldError{{Field: "address_id", Message: "address check failed"}}
	}
	if customerID != "" && addr.CustomerID != customerID {
		return []FieldError{{Field: "address_id", Message: "address belongs to another customer"}}
	}
	return nil
}

func validateMethod(field, method string, allowed []string) []FieldError {
	if method == "" {
		return []FieldError{{Field: field, Message: field + " required"}}
	}
	for _, m := range allowed {
		if m == method {
			return nil
		}
	}
	return []FieldError{{Field: field, Message: "unsupported " + field}}
}
