package ledgerRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tourbook/models"

	"github.com/google/uuid"
)

// MemoryLedgerRepo implements LedgerRepository in process memory. A
// transaction holds the store lock for its whole duration and restores a
// snapshot when the callback fails.
type MemoryLedgerRepo struct {
	mu           sync.Mutex
	bookings     map[string]models.Booking
	transactions map[string]models.Transaction
	agents       map[string]models.Agent
	stats        map[models.AgentTourStatsKey]models.AgentTourStats
	tours        map[string]models.Tour
}

var (
	_ LedgerRepository = (*MemoryLedgerRepo)(nil)
	_ LedgerTx         = memoryTx{}
)

// NewMemoryLedgerRepo creates an empty in-memory ledger.
func NewMemoryLedgerRepo() *MemoryLedgerRepo {
	return &MemoryLedgerRepo{
		bookings:     make(map[string]models.Booking),
		transactions: make(map[string]models.Transaction),
		agents:       make(map[string]models.Agent),
		stats:        make(map[models.AgentTourStatsKey]models.AgentTourStats),
		tours:        make(map[string]models.Tour),
	}
}

type memorySnapshot struct {
	bookings     map[string]models.Booking
	transactions map[string]models.Transaction
	agents       map[string]models.Agent
	stats        map[models.AgentTourStatsKey]models.AgentTourStats
	tours        map[string]models.Tour
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (r *MemoryLedgerRepo) snapshot() memorySnapshot {
	return memorySnapshot{
		bookings:     copyMap(r.bookings),
		transactions: copyMap(r.transactions),
		agents:       copyMap(r.agents),
		stats:        copyMap(r.stats),
		tours:        copyMap(r.tours),
	}
}

func (r *MemoryLedgerRepo) restore(s memorySnapshot) {
	r.bookings = s.bookings
	r.transactions = s.transactions
	r.agents = s.agents
	r.stats = s.stats
	r.tours = s.tours
}

// RunInTransaction executes fn under the store lock and rolls back on error.
func (r *MemoryLedgerRepo) RunInTransaction(ctx context.Context, fn TxFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snapshot()
	if err := fn(ctx, memoryTx{r}); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

func (r *MemoryLedgerRepo) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return memoryTx{r}.FindBookingByID(ctx, bookingID)
}

func (r *MemoryLedgerRepo) GetTransactionByPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return memoryTx{r}.FindTransactionByPaymentID(ctx, paymentID)
}

func (r *MemoryLedgerRepo) ListPendingCancellations(ctx context.Context) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []models.Transaction
	for _, txn := range r.transactions {
		if txn.Cancellation.Requested && !txn.Cancellation.Resolved() {
			result = append(result, cloneTransaction(txn))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *MemoryLedgerRepo) ListAgentTourStats(ctx context.Context, agentID string) ([]models.AgentTourStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []models.AgentTourStats
	for key, s := range r.stats {
		if key.AgentID == agentID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TourStartDate > result[j].TourStartDate })
	return result, nil
}

// --- Seeding and inspection ---

// SeedAgent stores or replaces an agent.
func (r *MemoryLedgerRepo) SeedAgent(agent models.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if agent.ID == "" {
		agent.ID = uuid.New().String()
	}
	r.agents[agent.AgentID] = agent
}

// SeedTour stores or replaces a tour.
func (r *MemoryLedgerRepo) SeedTour(tour models.Tour) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tours[tour.ID] = tour
}

// SeedAgentTourStats stores or replaces a stats document.
func (r *MemoryLedgerRepo) SeedAgentTourStats(stats models.AgentTourStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[stats.Key()] = stats
}

func (r *MemoryLedgerRepo) Agent(agentID string) (models.Agent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.agents[agentID]
	return a, ok
}

func (r *MemoryLedgerRepo) Tour(id string) (models.Tour, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tours[id]
	return t, ok
}

func (r *MemoryLedgerRepo) Stats(key models.AgentTourStatsKey) (models.AgentTourStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stats[key]
	return s, ok
}

// Bookings returns every stored booking ordered by booking id.
func (r *MemoryLedgerRepo) Bookings() []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingID < out[j].BookingID })
	return out
}

// Transactions returns every stored transaction ordered by creation time.
func (r *MemoryLedgerRepo) Transactions() []models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Transaction, 0, len(r.transactions))
	for _, t := range r.transactions {
		out = append(out, cloneTransaction(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func cloneBooking(b models.Booking) models.Booking {
	b.Travelers = append([]models.Traveler(nil), b.Travelers...)
	if b.Agent != nil {
		agent := *b.Agent
		b.Agent = &agent
	}
	return b
}

func cloneTransaction(t models.Transaction) models.Transaction {
	t.Commissions = append([]models.CommissionRecord(nil), t.Commissions...)
	if t.AgentID != nil {
		id := *t.AgentID
		t.AgentID = &id
	}
	return t
}

// memoryTx is the LedgerTx view of the store; callers already hold the lock.
type memoryTx struct {
	r *MemoryLedgerRepo
}

func (tx memoryTx) FindAgentByAgentID(ctx context.Context, agentID string) (*models.Agent, error) {
	a, ok := tx.r.agents[agentID]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (tx memoryTx) FindAgentByID(ctx context.Context, id string) (*models.Agent, error) {
	for _, a := range tx.r.agents {
		if a.ID == id {
			agent := a
			return &agent, nil
		}
	}
	return nil, ErrNotFound
}

func (tx memoryTx) IncrementWallet(ctx context.Context, agentID string, amount float64) error {
	a, ok := tx.r.agents[agentID]
	if !ok {
		return ErrNotFound
	}
	a.WalletBalance += amount
	a.UpdatedAt = time.Now()
	tx.r.agents[agentID] = a
	return nil
}

func (tx memoryTx) FindAgentTourStats(ctx context.Context, key models.AgentTourStatsKey) (*models.AgentTourStats, error) {
	s, ok := tx.r.stats[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (tx memoryTx) SaveAgentTourStats(ctx context.Context, stats *models.AgentTourStats) error {
	now := time.Now()
	if stats.ID == "" {
		stats.ID = uuid.New().String()
	}
	if stats.CreatedAt.IsZero() {
		stats.CreatedAt = now
	}
	stats.UpdatedAt = now
	stats.Version++
	tx.r.stats[stats.Key()] = *stats
	return nil
}

func (tx memoryTx) FindTransactionByPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error) {
	t, ok := tx.r.transactions[paymentID]
	if !ok {
		return nil, ErrNotFound
	}
	txn := cloneTransaction(t)
	return &txn, nil
}

func (tx memoryTx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	if _, exists := tx.r.transactions[txn.TransactionID]; exists {
		return ErrDuplicateTransaction
	}
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	tx.r.transactions[txn.TransactionID] = cloneTransaction(*txn)
	return nil
}

func (tx memoryTx) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	if _, exists := tx.r.transactions[txn.TransactionID]; !exists {
		return ErrNotFound
	}
	txn.UpdatedAt = time.Now()
	tx.r.transactions[txn.TransactionID] = cloneTransaction(*txn)
	return nil
}

func (tx memoryTx) FindBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, ok := tx.r.bookings[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	booking := cloneBooking(b)
	return &booking, nil
}

func (tx memoryTx) InsertBooking(ctx context.Context, booking *models.Booking) error {
	if _, exists := tx.r.bookings[booking.BookingID]; exists {
		return fmt.Errorf("error creating booking: duplicate booking id %s", booking.BookingID)
	}
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	tx.r.bookings[booking.BookingID] = cloneBooking(*booking)
	return nil
}

func (tx memoryTx) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	if _, exists := tx.r.bookings[booking.BookingID]; !exists {
		return ErrNotFound
	}
	booking.UpdatedAt = time.Now()
	tx.r.bookings[booking.BookingID] = cloneBooking(*booking)
	return nil
}

func (tx memoryTx) DecrementTourOccupancy(ctx context.Context, tourID string, count int) (int, error) {
	t, ok := tx.r.tours[tourID]
	if !ok {
		return 0, ErrNotFound
	}
	t.RemainingOccupancy -= count
	if t.RemainingOccupancy < 0 {
		t.RemainingOccupancy = 0
	}
	t.UpdatedAt = time.Now()
	tx.r.tours[tourID] = t
	return t.RemainingOccupancy, nil
}
