package account

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps accounts in process memory.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*Account
	byUsername map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       map[string]*Account{},
		byUsername: map[string]string{},
	}
}

func usernameKey(username string) string {
	return strings.ToLower(username)
}

func (m *MemoryRepository) Create(_ context.Context, a Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := usernameKey(a.Username)
	if _, ok := m.byUsername[key]; ok {
		return ErrUsernameTaken
	}
	stored := a
	m.byID[a.ID] = &stored
	m.byUsername[key] = a.ID
	return nil
}

func (m *MemoryRepository) ByUsername(_ context.Context, username string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byUsername[usernameKey(username)]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return *m.byID[id], nil
}

func (m *MemoryRepository) UpdateScore(_ context.Context, id string, subscribers, views int64, at time.Time) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	a.Subscribers = subscribers
	a.Views = views
	a.UpdatedAt = at
	return *a, nil
}

func (m *MemoryRepository) Top(_ context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	out := make([]Entry, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, Entry{Username: a.Username, Subscribers: a.Subscribers})
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Subscribers != out[j].Subscribers {
			return out[i].Subscribers > out[j].Subscribers
		}
		return out[i].Username < out[j].Username
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
