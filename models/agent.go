package models

import "time"

// Agent is a referring agent. ParentAgent holds the internal id of the upline, if any.
type Agent struct {
	ID            string    `bson:"id" json:"id"`
	AgentID       string    `bson:"agentID" json:"agentID"`
	Name          string    `bson:"name" json:"name"`
	Email         string    `bson:"email,omitempty" json:"email,omitempty"`
	ParentAgent   string    `bson:"parentAgent,omitempty" json:"parentAgent,omitempty"`
	WalletBalance float64   `bson:"walletBalance" json:"walletBalance"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AgentTourStatsKey identifies the running aggregate of one agent for one tour departure.
type AgentTourStatsKey struct {
	AgentID       string `bson:"agentID" json:"agentID"`
	TourID        string `bson:"tourID" json:"tourID"`
	TourStartDate string `bson:"tourStartDate" json:"tourStartDate"`
}

// AgentTourStats accumulates an agent's sales for one (agent, tour, start date).
type AgentTourStats struct {
	ID                 string    `bson:"id" json:"id"`
	AgentID            string    `bson:"agentID" json:"agentID"`
	TourID             string    `bson:"tourID" json:"tourID"`
	TourStartDate      string    `bson:"tourStartDate" json:"tourStartDate"`
	CustomerGiven      int       `bson:"customerGiven" json:"customerGiven"`
	TotalAmount        float64   `bson:"totalAmount" json:"totalAmount"`
	CommissionReceived float64   `bson:"commissionReceived" json:"commissionReceived"`
	Version            int       `bson:"version" json:"version"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Key returns the composite key of the stats document.
func (s AgentTourStats) Key() AgentTourStatsKey {
	return AgentTourStatsKey{AgentID: s.AgentID, TourID: s.TourID, TourStartDate: s.TourStartDate}
}
