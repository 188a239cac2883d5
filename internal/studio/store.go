package studio

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists session state between requests. Load reports false for an
// unknown or expired session.
//
// Acquire takes the session's operation lock for at most ttl and returns the
// token that Release needs. It reports false while another holder's lease is
// live. Stores shared between processes must make the lock shared too.
type Store interface {
	Load(ctx context.Context, id string) (State, bool, error)
	Save(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
	Acquire(ctx context.Context, id string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, id, token string) error
}

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

type memoryLock struct {
	token     string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory with a sliding TTL.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	locks   map[string]memoryLock
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]memoryLock),
		now:     time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return State{}, false, nil
	}
	if m.ttl > 0 && !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		return State{}, false, nil
	}
	return entry.state, true, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.entries[id] = memoryEntry{state: state, expiresAt: now.Add(m.ttl)}
	if len(m.entries)%64 == 0 {
		m.sweepLocked(now)
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) Acquire(_ context.Context, id string, ttl time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if held, ok := m.locks[id]; ok && now.Before(held.expiresAt) {
		return "", false, nil
	}
	token := uuid.NewString()
	m.locks[id] = memoryLock{token: token, expiresAt: now.Add(ttl)}
	return token, true, nil
}

func (m *MemoryStore) Release(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if held, ok := m.locks[id]; ok && held.token == token {
		delete(m.locks, id)
	}
	return nil
}

func (m *MemoryStore) sweepLocked(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
