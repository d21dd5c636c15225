package notes

import (
	"encoding/json"
	"fmt"
	"strings"

	"tourbook/models"

	"go.uber.org/zap"
)

// Default customer values used when the notes omit a field.
const (
	DefaultCustomerName    = "N/A"
	DefaultCustomerEmail   = "unknown@example.com"
	DefaultCustomerPhone   = "N/A"
	DefaultCustomerAddress = "Not provided"
)

// Supported notes encodings.
const (
	FormatMapString = "mapstring"
	FormatJSON      = "json"
)

// Decoder turns the raw customer and traveler notes into structured data.
type Decoder interface {
	DecodeCustomer(raw string) models.Customer
	DecodeTravelers(raw string) []models.Traveler
}

// NewDecoder returns the decoder for the configured notes format.
func NewDecoder(format string) (Decoder, error) {
	switch strings.ToLower(format) {
	case "", FormatMapString:
		return MapStringDecoder{}, nil
	case FormatJSON:
		return JSONDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported notes format %q", format)
	}
}

// MapStringDecoder decodes the map[...] encodings.
type MapStringDecoder struct{}

func (MapStringDecoder) DecodeCustomer(raw string) models.Customer {
	return customerFromFields(parseRawMap(raw))
}

func (MapStringDecoder) DecodeTravelers(raw string) []models.Traveler {
	return ParseTravelers(raw)
}

// JSONDecoder decodes a JSON object for the customer and a JSON array for travelers.
type JSONDecoder struct{}

func (JSONDecoder) DecodeCustomer(raw string) models.Customer {
	fields := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		zap.L().Warn("notes: malformed customer JSON", zap.Error(err))
	}
	return customerFromFields(stringify(fields))
}

func (JSONDecoder) DecodeTravelers(raw string) []models.Traveler {
	var items []map[string]any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		zap.L().Warn("notes: malformed travelers JSON", zap.Error(err))
		return nil
	}
	var travelers []models.Traveler
	for _, item := range items {
		travelers = append(travelers, travelerFromFields(stringify(item)))
	}
	return travelers
}

func stringify(fields map[string]any) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if v == nil {
			continue
		}
		out[k] = formatValue(v)
	}
	return out
}

func customerFromFields(fields map[string]string) models.Customer {
	return models.Customer{
		Name:           valueOr(fields["name"], DefaultCustomerName),
		Email:          valueOr(fields["email"], DefaultCustomerEmail),
		Phone:          valueOr(fields["phone"], DefaultCustomerPhone),
		Address:        valueOr(fields["address"], DefaultCustomerAddress),
		AadhaarNumber:  fields["aadhaarNumber"],
		PanNumber:      fields["panNumber"],
		PassportNumber: fields["passportNumber"],
		DateOfBirth:    fields["dateOfBirth"],
		Nationality:    fields["nationality"],
	}
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// FallbackTraveler is used when the traveler notes decode to nothing.
func FallbackTraveler(customer models.Customer) models.Traveler {
	return models.Traveler{Name: customer.Name, Age: 0, Gender: models.GenderUnknown}
}
