package models

import "time"

// Refund statuses on a Transaction.
const (
	RefundStatusNone      = "none"
	RefundStatusPending   = "pending"
	RefundStatusProcessed = "processed"
)

// Transaction records one payment capture for a tour, optionally referred by an agent.
type Transaction struct {
	ID                  string             `bson:"id" json:"id"`
	TourID              string             `bson:"tourID" json:"tourID"`
	AgentID             *string            `bson:"agentID" json:"agentID"`
	CustomerEmail       string             `bson:"customerEmail" json:"customerEmail"`
	TransactionID       string             `bson:"transactionId" json:"transactionId"` // gateway payment id, unique
	BookingID           string             `bson:"bookingID" json:"bookingID"`
	Gateway             string             `bson:"gateway" json:"gateway"`
	TourPricePerHead    float64            `bson:"tourPricePerHead" json:"tourPricePerHead"`
	TourActualOccupancy int                `bson:"tourActualOccupancy" json:"tourActualOccupancy"`
	TourGivenOccupancy  int                `bson:"tourGivenOccupancy" json:"tourGivenOccupancy"`
	TourStartDate       string             `bson:"tourStartDate" json:"tourStartDate"` // YYYY-MM-DD
	Commissions         []CommissionRecord `bson:"commissions" json:"commissions"`
	FinalAmount         float64            `bson:"finalAmount" json:"finalAmount"`
	Cancellation        Cancellation       `bson:"cancellation" json:"cancellation"`
	RefundAmount        float64            `bson:"refundAmount" json:"refundAmount"`
	RefundStatus        string             `bson:"refundStatus" json:"refundStatus"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CommissionRecord is one commission line credited to an agent's wallet.
type CommissionRecord struct {
	TourID           string  `bson:"tourID" json:"tourID"`
	AgentID          string  `bson:"agentID" json:"agentID"`
	Level            int     `bson:"level" json:"level"`
	CommissionAmount float64 `bson:"commissionAmount" json:"commissionAmount"`
	CommissionRate   float64 `bson:"commissionRate" json:"commissionRate"`
}

// Cancellation tracks the request/approve/reject flow of a Transaction.
type Cancellation struct {
	Requested   bool       `bson:"requested" json:"requested"`
	Approved    bool       `bson:"approved" json:"approved"`
	Rejected    bool       `bson:"rejected" json:"rejected"`
	Reason      string     `bson:"reason,omitempty" json:"reason,omitempty"`
	RequestedAt *time.Time `bson:"requestedAt,omitempty" json:"requestedAt,omitempty"`
	ResolvedAt  *time.Time `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

// Resolved reports whether the cancellation was already approved or rejected.
func (c Cancellation) Resolved() bool {
	return c.Approved || c.Rejected
}
