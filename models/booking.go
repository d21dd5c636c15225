package models

import "time"

// Booking statuses.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusPending   = "pending"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking represents one confirmed reservation created from a captured payment.
type Booking struct {
	ID           string              `bson:"id" json:"id"`
	BookingID    string              `bson:"bookingID" json:"bookingID"` // BKG-<unix millis>-<node>
	Status       string              `bson:"status" json:"status"`
	BookingDate  time.Time           `bson:"bookingDate" json:"bookingDate"`
	Tour         BookingTour         `bson:"tour" json:"tour"`
	Customer     Customer            `bson:"customer" json:"customer"`
	Travelers    []Traveler          `bson:"travelers" json:"travelers"`
	Payment      BookingPayment      `bson:"payment" json:"payment"`
	Agent        *BookingAgent       `bson:"agent,omitempty" json:"agent,omitempty"`
	Cancellation BookingCancellation `bson:"cancellation" json:"cancellation"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type BookingTour struct {
	TourID string `bson:"tourId" json:"tourId"`
	Name   string `bson:"name" json:"name"`
}

// Customer is the snapshot of the paying customer. The KYC fields are optional.
type Customer struct {
	Name           string `bson:"name" json:"name"`
	Email          string `bson:"email" json:"email"`
	Phone          string `bson:"phone" json:"phone"`
	Address        string `bson:"address" json:"address"`
	AadhaarNumber  string `bson:"aadhaarNumber,omitempty" json:"aadhaarNumber,omitempty"`
	PanNumber      string `bson:"panNumber,omitempty" json:"panNumber,omitempty"`
	PassportNumber string `bson:"passportNumber,omitempty" json:"passportNumber,omitempty"`
	DateOfBirth    string `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Nationality    string `bson:"nationality,omitempty" json:"nationality,omitempty"`
}

// Traveler genders after normalization.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)

type Traveler struct {
	Name     string `bson:"name" json:"name"`
	Age      int    `bson:"age" json:"age"`
	Gender   string `bson:"gender" json:"gender"`
	IDType   string `bson:"idType,omitempty" json:"idType,omitempty"`
	IDNumber string `bson:"idNumber,omitempty" json:"idNumber,omitempty"`
}

type BookingPayment struct {
	TotalAmount   float64          `bson:"totalAmount" json:"totalAmount"`
	PaidAmount    float64          `bson:"paidAmount" json:"paidAmount"`
	Status        string           `bson:"status" json:"status"`
	Method        string           `bson:"method" json:"method"`
	TransactionID string           `bson:"transactionId" json:"transactionId"`
	PaymentDate   time.Time        `bson:"paymentDate" json:"paymentDate"`
	Breakdown     PaymentBreakdown `bson:"breakdown" json:"breakdown"`
}

type PaymentBreakdown struct {
	BasePrice   float64 `bson:"basePrice" json:"basePrice"`
	GST         float64 `bson:"gst" json:"gst"`
	FinalAmount float64 `bson:"finalAmount" json:"finalAmount"`
}

type BookingAgent struct {
	AgentID    string  `bson:"agentId" json:"agentId"`
	Name       string  `bson:"name" json:"name"`
	Commission float64 `bson:"commission" json:"commission"`
}

type BookingCancellation struct {
	Requested    bool       `bson:"requested" json:"requested"`
	Approved     bool       `bson:"approved" json:"approved"`
	RefundAmount float64    `bson:"refundAmount" json:"refundAmount"`
	CancelledAt  *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}
