package models

import "time"

// Tour is a bookable tour package instance. Only RemainingOccupancy is mutated here.
type Tour struct {
	ID                 string    `bson:"id" json:"id"`
	Name               string    `bson:"name" json:"name"`
	PricePerHead       float64   `bson:"pricePerHead" json:"pricePerHead"`
	ActualOccupancy    int       `bson:"actualOccupancy" json:"actualOccupancy"`
	RemainingOccupancy int       `bson:"remainingOccupancy" json:"remainingOccupancy"`
	StartDate          string    `bson:"startDate" json:"startDate"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}
