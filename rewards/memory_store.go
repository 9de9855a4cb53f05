package rewards

import (
	"context"
	"sync"

	"go-wildwatch/types"
)

// MemoryStore is an in-memory Store for tests and demo mode, with the same
// award semantics as the Firestore store.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[string]*types.UserData
	entries map[string]map[string]types.PointsLedgerEntry // userID -> reason -> entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*types.UserData),
		entries: make(map[string]map[string]types.PointsLedgerEntry),
	}
}

// SeedUser registers a user so awards against it apply.
func (m *MemoryStore) SeedUser(user types.UserData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := user
	m.users[user.ID] = &cp
}

// Entries returns the ledger rows recorded for a user.
func (m *MemoryStore) Entries(userID string) []types.PointsLedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.PointsLedgerEntry
	for _, e := range m.entries[userID] {
		out = append(out, e)
	}
	return out
}

func (m *MemoryStore) ApplyAward(ctx context.Context, userID string, entry types.PointsLedgerEntry, verified bool) (*types.UserData, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, false, nil
	}

	if _, dup := m.entries[userID][entry.Reason]; dup {
		cp := *user
		return &cp, false, nil
	}

	user.TotalReports++
	if entry.Amount > 0 {
		user.Points += entry.Amount
	}
	if verified {
		user.VerifiedReports++
	}

	if m.entries[userID] == nil {
		m.entries[userID] = make(map[string]types.PointsLedgerEntry)
	}
	m.entries[userID][entry.Reason] = entry

	cp := *user
	return &cp, true, nil
}
