// Package demo serves a fake transactions backend for trying the client locally.
package demo

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Record is one stored transaction.
type Record struct {
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	ID        int64     `json:"id"`
}

// Totals is the computed summary of a user's records. Expenses is the
// (negative) sum of outgoing amounts.
type Totals struct {
	Balance  float64
	Income   float64
	Expenses float64
}

var expenseCategories = []string{
	"Food & Drinks",
	"Shopping",
	"Transportation",
	"Entertainment",
	"Bills",
	"Other",
}

// Ledger is an in-memory, per-user transaction store seeded with fake data.
type Ledger struct {
	faker   *gofakeit.Faker
	byUser  map[string][]Record
	perUser int
	nextID  int64
	mu      sync.Mutex
}

// NewLedger creates a ledger that seeds perUser records for each new user.
// The same seed always produces the same data.
func NewLedger(seed uint64, perUser int) *Ledger {
	if perUser < 0 {
		perUser = 0
	}
	return &Ledger{
		faker:   gofakeit.New(seed),
		byUser:  make(map[string][]Record),
		perUser: perUser,
		nextID:  1,
	}
}

// List returns a user's records, newest first.
func (l *Ledger) List(userID string) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := l.seedLocked(userID)
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Totals sums a user's records.
func (l *Ledger) Totals(userID string) Totals {
	l.mu.Lock()
	defer l.mu.Unlock()

	var t Totals
	for _, r := range l.seedLocked(userID) {
		t.Balance += r.Amount
		if r.Amount > 0 {
			t.Income += r.Amount
		} else {
			t.Expenses += r.Amount
		}
	}
	t.Balance = round2(t.Balance)
	t.Income = round2(t.Income)
	t.Expenses = round2(t.Expenses)
	return t
}

// Delete removes a record by id. It reports whether the record existed.
func (l *Ledger) Delete(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for user, records := range l.byUser {
		for i, r := range records {
			if r.ID == id {
				l.byUser[user] = append(records[:i:i], records[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Add stores a record for a user and returns it with its assigned id.
func (l *Ledger) Add(r Record) Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seedLocked(r.UserID)
	r.ID = l.nextID
	l.nextID++
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	l.byUser[r.UserID] = append([]Record{r}, l.byUser[r.UserID]...)
	return r
}

func (l *Ledger) seedLocked(userID string) []Record {
	if records, ok := l.byUser[userID]; ok {
		return records
	}

	records := make([]Record, 0, l.perUser)
	for i := 0; i < l.perUser; i++ {
		records = append(records, l.fakeRecordLocked(userID))
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	l.byUser[userID] = records
	return records
}

func (l *Ledger) fakeRecordLocked(userID string) Record {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	created := l.faker.DateRange(now.AddDate(0, -3, 0), now).UTC()

	r := Record{
		ID:        l.nextID,
		UserID:    userID,
		CreatedAt: created,
	}
	l.nextID++

	// Roughly one in five records is income.
	if l.faker.Number(1, 5) == 1 {
		r.Title = l.faker.JobTitle() + " payment"
		r.Category = "Income"
		r.Amount = round2(l.faker.Float64Range(500, 4000))
		return r
	}

	r.Title = l.faker.Company()
	r.Category = l.faker.RandomString(expenseCategories)
	r.Amount = -round2(l.faker.Float64Range(2, 250))
	return r
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
