package reconcile

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"tourbook/models"
	"tourbook/services/gateway"
	"tourbook/services/notes"

	"github.com/go-playground/validator/v10"
)

// Keys read from the gateway notes.
const (
	noteTourID          = "tourID"
	noteAgentID         = "agentID"
	noteTourName        = "tourName"
	notePricePerHead    = "tourPricePerHead"
	noteActualOccupancy = "tourActualOccupancy"
	noteGivenOccupancy  = "tourGivenOccupancy"
	noteTourStartDate   = "tourStartDate"
	noteGST             = "GST"
	noteFinalAmount     = "finalAmount"
	noteCustomer        = "customer"
	noteTravelers       = "travelers"
)

// presence lists the capture fields that must be present before anything else
// is checked. Customer and travelers are absent here because decoding always
// yields defaults and at least one traveler for them.
type presence struct {
	PaymentID string            `json:"payment.id" validate:"required"`
	Notes     map[string]string `json:"notes" validate:"required"`
	TourID    string            `json:"tourID" validate:"required"`
	Final     string            `json:"finalAmount" validate:"required"`
	Amount    *int64            `json:"payment.amount" validate:"required"`
	CreatedAt *int64            `json:"payment.created_at" validate:"required"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// captureInput is the validated, typed view of one capture.
type captureInput struct {
	Gateway       string
	PaymentID     string
	PaymentMethod string
	PaymentDate   time.Time

	TourID          string
	TourName        string
	AgentID         string
	PricePerHead    float64
	ActualOccupancy int
	GivenOccupancy  int
	TourStartDate   string
	GST             float64
	FinalAmount     float64
	PaidAmount      float64

	Customer  models.Customer
	Travelers []models.Traveler
}

func (s *DefaultReconciliationService) extract(event *gateway.CaptureEvent) (*captureInput, error) {
	n := event.Notes
	note := func(key string) string { return strings.TrimSpace(n[key]) }

	p := presence{
		PaymentID: strings.TrimSpace(event.PaymentID),
		Notes:     n,
		TourID:    note(noteTourID),
		Final:     note(noteFinalAmount),
		Amount:    event.Amount,
		CreatedAt: event.CreatedAt,
	}
	if err := getValidator().Struct(p); err != nil {
		missing := []string{}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
		}
		return nil, newValidationError("Missing required payment data", map[string]any{"missingFields": missing})
	}

	decoder := s.decoder()
	customer := decoder.DecodeCustomer(n[noteCustomer])
	travelers := decoder.DecodeTravelers(n[noteTravelers])
	if len(travelers) == 0 {
		travelers = []models.Traveler{notes.FallbackTraveler(customer)}
	}

	in := &captureInput{
		Gateway:       event.Gateway,
		PaymentID:     p.PaymentID,
		PaymentMethod: event.Method,
		TourID:        p.TourID,
		TourName:      note(noteTourName),
		AgentID:       note(noteAgentID),
		Customer:      customer,
		Travelers:     travelers,
	}

	invalid := map[string]any{}
	in.PricePerHead = parseAmount(note(notePricePerHead), notePricePerHead, invalid)
	in.ActualOccupancy = parseCount(note(noteActualOccupancy), noteActualOccupancy, invalid)
	in.GivenOccupancy = parseCount(note(noteGivenOccupancy), noteGivenOccupancy, invalid)
	in.GST = parseAmount(note(noteGST), noteGST, invalid)
	in.FinalAmount = parseAmount(p.Final, noteFinalAmount, invalid)
	if *event.Amount < 0 {
		invalid["paidAmount"] = strconv.FormatInt(*event.Amount, 10)
	}
	in.PaidAmount = float64(*event.Amount) / 100
	if len(invalid) > 0 {
		return nil, newValidationError("Invalid numeric values in payment notes", map[string]any{"invalidFields": invalid})
	}

	paymentDate, ok := unixToTime(*event.CreatedAt)
	if !ok {
		return nil, newValidationError("Invalid payment timestamp", map[string]any{"created_at": *event.CreatedAt})
	}
	in.PaymentDate = paymentDate

	startDate, ok := normalizeDate(note(noteTourStartDate))
	if !ok {
		return nil, newValidationError("Invalid tour start date", map[string]any{noteTourStartDate: n[noteTourStartDate]})
	}
	in.TourStartDate = startDate

	return in, nil
}

func parseNumber(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseAmount accepts non-negative finite numbers.
func parseAmount(raw, field string, invalid map[string]any) float64 {
	f, ok := parseNumber(raw)
	if !ok || f < 0 {
		invalid[field] = raw
		return 0
	}
	return f
}

// parseCount accepts non-negative whole numbers, written either as "2" or "2.0".
func parseCount(raw, field string, invalid map[string]any) int {
	f, ok := parseNumber(raw)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		invalid[field] = raw
		return 0
	}
	return int(f)
}

const maxYear = 9999

func unixToTime(sec int64) (time.Time, bool) {
	if sec <= 0 {
		return time.Time{}, false
	}
	t := time.Unix(sec, 0).UTC()
	if t.Year() > maxYear {
		return time.Time{}, false
	}
	return t, true
}

var startDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
}

// normalizeDate renders a tour start date as YYYY-MM-DD.
func normalizeDate(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
