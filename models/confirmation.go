package models

// BookingConfirmationPayload is the task payload sent after a booking is committed.
type BookingConfirmationPayload struct {
	BookingID     string  `json:"bookingId"`
	TransactionID string  `json:"transactionId"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	TourName      string  `json:"tourName"`
	TourStartDate string  `json:"tourStartDate"`
	Travelers     int     `json:"travelers"`
	PaidAmount    float64 `json:"paidAmount"`
}
