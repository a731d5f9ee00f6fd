package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DeliveryDateLayout = "2006-01-02"

var ErrInvalidForm = errors.New("invalid checkout form")

type DeliveryDateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CheckoutForm holds the shipping details entered on the checkout page.
type CheckoutForm struct {
	Name              string            `json:"name"`
	Address           string            `json:"address"`
	ContactNumber     string            `json:"contactNumber"`
	DeliveryDateRange DeliveryDateRange `json:"deliveryDateRange"`
}

// Validate reports the first missing or malformed field.
func (f CheckoutForm) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", f.Name},
		{"address", f.Address},
		{"contact number", f.ContactNumber},
		{"delivery start date", f.DeliveryDateRange.Start},
		{"delivery end date", f.DeliveryDateRange.End},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidForm, r.field)
		}
	}

	start, err := time.Parse(DeliveryDateLayout, f.DeliveryDateRange.Start)
	if err != nil {
		return fmt.Errorf("%w: delivery start date must be YYYY-MM-DD", ErrInvalidForm)
	}
	end, err := time.Parse(DeliveryDateLayout, f.DeliveryDateRange.End)
	if err != nil {
		return fmt.Errorf("%w: delivery end date must be YYYY-MM-DD", ErrInvalidForm)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: delivery end date is before start date", ErrInvalidForm)
	}
	return nil
}
