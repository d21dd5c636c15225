package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tourbook/config"
	"tourbook/database"
	"tourbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	config.LoadConfig()
	database.InitDB()
	db := database.Database()
	tourColl := db.Collection("tours")
	agentColl := db.Collection("agents")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Clear existing seed data.
	for _, coll := range []string{"tours", "agents", "agent_tour_stats"} {
		if _, err := db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s collection: %v", coll, err)
		}
	}

	now := time.Now()
	startDate := now.AddDate(0, 1, 0).Format("2006-01-02")

	tourPlans := []struct {
		Name      string
		Price     float64
		Occupancy int
	}{
		{"Goa Beaches", 1000, 50},
		{"Kerala Backwaters", 2500, 30},
		{"Ladakh Expedition", 4200, 20},
	}

	var tours []interface{}
	for i, plan := range tourPlans {
		tours = append(tours, models.Tour{
			ID:                 fmt.Sprintf("T%d", i+1),
			Name:               plan.Name,
			PricePerHead:       plan.Price,
			ActualOccupancy:    plan.Occupancy,
			RemainingOccupancy: plan.Occupancy,
			StartDate:          startDate,
			UpdatedAt:          now,
		})
	}
	if _, err := tourColl.InsertMany(ctx, tours); err != nil {
		log.Fatalf("Failed to insert tours: %v", err)
	}

	// A two-level chain: AG1 refers through its upline AG0.
	parent := models.Agent{
		ID:        uuid.New().String(),
		AgentID:   "AG0",
		Name:      "Upline Agent",
		Email:     "upline@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
	child := models.Agent{
		ID:          uuid.New().String(),
		AgentID:     "AG1",
		Name:        "Field Agent",
		Email:       "field@example.com",
		ParentAgent: parent.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	solo := models.Agent{
		ID:        uuid.New().String(),
		AgentID:   "AG2",
		Name:      "Independent Agent",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := agentColl.InsertMany(ctx, []interface{}{parent, child, solo}); err != nil {
		log.Fatalf("Failed to insert agents: %v", err)
	}

	fmt.Printf("Seeded %d tours starting %s and agents AG0, AG1 (upline AG0), AG2\n", len(tours), startDate)
}
