// Package commission computes tiered two-level agent commissions.
package commission

import (
	"tourbook/models"

	"github.com/shopspring/decimal"
)

// Commission levels.
const (
	LevelAgent  = 1
	LevelParent = 2
)

type tier struct {
	minPercent decimal.Decimal
	agentRate  decimal.Decimal
	parentRate decimal.Decimal
}

// Tiers are ordered from the highest onboarding threshold down.
var tiers = []tier{
	{decimal.NewFromInt(65), decimal.NewFromInt(10), decimal.NewFromInt(5)},
	{decimal.NewFromInt(45), decimal.RequireFromString("8.5"), decimal.RequireFromString("3.5")},
	{decimal.Zero, decimal.NewFromInt(7), decimal.RequireFromString("2.5")},
}

var hundred = decimal.NewFromInt(100)

// Rate returns the commission percentage for the given onboarding percentage
// and level. Unknown levels earn nothing.
func Rate(percentOnboarded float64, level int) decimal.Decimal {
	return rateFor(decimal.NewFromFloat(percentOnboarded), level)
}

func rateFor(percent decimal.Decimal, level int) decimal.Decimal {
	t := tiers[len(tiers)-1]
	for _, candidate := range tiers {
		if percent.GreaterThanOrEqual(candidate.minPercent) {
			t = candidate
			break
		}
	}
	switch level {
	case LevelAgent:
		return t.agentRate
	case LevelParent:
		return t.parentRate
	default:
		return decimal.Zero
	}
}

// OnboardingPercent returns given / actual * 100. A non-positive actual
// occupancy yields zero.
func OnboardingPercent(customerGiven, actualOccupancy int) decimal.Decimal {
	if actualOccupancy <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(customerGiven)).
		Div(decimal.NewFromInt(int64(actualOccupancy))).
		Mul(hundred)
}

// Input carries the prior stats for one (agent, tour, start date) key and the
// capture being reconciled.
type Input struct {
	TourID        string
	AgentID       string
	ParentAgentID string // business id of the upline; empty when none

	PriorCustomerGiven      int
	PriorTotalAmount        float64
	PriorCommissionReceived float64

	GivenCount      int
	PricePerHead    float64
	ActualOccupancy int
}

// Result holds the updated stats values and the commission lines to credit.
type Result struct {
	AddedAmount        float64
	CustomerGiven      int
	TotalAmount        float64
	CommissionReceived float64
	PercentOnboarded   float64

	AgentRate    float64
	AgentAmount  float64 // level-1 delta; 0 when nothing is owed
	ParentRate   float64
	ParentAmount float64

	Records []models.CommissionRecord
}

// Calculate applies one capture to the prior stats.
//
// Level 1 pays only the positive difference between the commission owed on
// the cumulative total at the current rate and what was already received.
// Level 2 is the parent's rate applied to the child's cumulative total,
// recorded in full on every capture.
func Calculate(in Input) Result {
	price := decimal.NewFromFloat(in.PricePerHead)
	added := price.Mul(decimal.NewFromInt(int64(in.GivenCount)))
	total := decimal.NewFromFloat(in.PriorTotalAmount).Add(added)
	received := decimal.NewFromFloat(in.PriorCommissionReceived)
	customerGiven := in.PriorCustomerGiven + in.GivenCount

	percent := OnboardingPercent(customerGiven, in.ActualOccupancy)
	agentRate := rateFor(percent, LevelAgent)
	owed := total.Mul(agentRate).Div(hundred).Round(2)

	res := Result{
		AddedAmount:        added.Round(2).InexactFloat64(),
		CustomerGiven:      customerGiven,
		TotalAmount:        total.Round(2).InexactFloat64(),
		CommissionReceived: received.InexactFloat64(),
		PercentOnboarded:   percent.Round(4).InexactFloat64(),
		AgentRate:          agentRate.InexactFloat64(),
	}

	if delta := owed.Sub(received); delta.IsPositive() {
		res.AgentAmount = delta.InexactFloat64()
		res.CommissionReceived = owed.InexactFloat64()
		res.Records = append(res.Records, models.CommissionRecord{
			TourID:           in.TourID,
			AgentID:          in.AgentID,
			Level:            LevelAgent,
			CommissionAmount: res.AgentAmount,
			CommissionRate:   res.AgentRate,
		})
	}

	if in.ParentAgentID != "" {
		parentRate := rateFor(percent, LevelParent)
		parentAmount := total.Mul(parentRate).Div(hundred).Round(2)
		res.ParentRate = parentRate.InexactFloat64()
		if parentAmount.IsPositive() {
			res.ParentAmount = parentAmount.InexactFloat64()
			res.Records = append(res.Records, models.CommissionRecord{
				TourID:           in.TourID,
				AgentID:          in.ParentAgentID,
				Level:            LevelParent,
				CommissionAmount: res.ParentAmount,
				CommissionRate:   res.ParentRate,
			})
		}
	}

	return res
}
