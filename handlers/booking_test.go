package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	ledgerRepo "tourbook/database/repository/ledger"
	"tourbook/models"

	"github.com/gin-gonic/gin"
)

func TestBookingReadEndpoints(t *testing.T) {
	repo := ledgerRepo.NewMemoryLedgerRepo()
	repo.SeedTour(models.Tour{ID: "T1", ActualOccupancy: 50, RemainingOccupancy: 50})
	repo.SeedAgent(models.Agent{AgentID: "AG1", Name: "Field Agent"})
	repo.SeedAgentTourStats(models.AgentTourStats{AgentID: "AG1", TourID: "T1", TourStartDate: "2025-06-01", CustomerGiven: 2, TotalAmount: 2000})

	webhook, p := newWebhookRouter(repo)
	n := scenarioNotes()
	body := capturedBody(t, "pay_read", n)
	w := postWebhook(webhook, body, p.Sign(body))
	if w.Code != http.StatusOK {
		t.Fatalf("webhook status = %d, body = %s", w.Code, w.Body.String())
	}
	bookingID, _ := decodeBody(t, w)["bookingId"].(string)

	h := NewBookingHandler(repo)
	r := gin.New()
	r.GET("/api/bookings/:bookingId", h.GetBookingHandler)
	r.GET("/api/agents/:agentId/stats", h.GetAgentStatsHandler)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w = get("/api/bookings/" + bookingID)
	if w.Code != http.StatusOK {
		t.Fatalf("booking status = %d", w.Code)
	}
	if got := decodeBody(t, w)["bookingID"]; got != bookingID {
		t.Fatalf("bookingID = %v, want %s (%s)", got, bookingID, w.Body.String())
	}

	if w := get("/api/bookings/BKG-0"); w.Code != http.StatusNotFound {
		t.Fatalf("missing booking status = %d", w.Code)
	}

	stats := decodeBody(t, get("/api/agents/AG1/stats"))
	if list, ok := stats["stats"].([]any); !ok || len(list) != 1 {
		t.Fatalf("unexpected agent stats %v", stats)
	}
	empty := decodeBody(t, get("/api/agents/AG9/stats"))
	if list, ok := empty["stats"].([]any); !ok || len(list) != 0 {
		t.Fatalf("expected empty stats list, got %v", empty)
	}
}
