package database

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryLock struct {
	token   string
	expires time.Time
}

// MemoryTaskCache es la caché en proceso que se usa cuando no hay Redis
type MemoryTaskCache struct {
	states *lru.Cache[string, string]

	mu      sync.Mutex
	locks   map[string]memoryLock
	lockTTL time.Duration
	now     func() time.Time
}

// NewMemoryTaskCache crea una caché con capacidad para size estados
func NewMemoryTaskCache(size int, lockTTL time.Duration) (*MemoryTaskCache, error) {
	states, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &MemoryTaskCache{
		states:  states,
		locks:   make(map[string]memoryLock),
		lockTTL: lockTTL,
		now:     time.Now,
	}, nil
}

func (m *MemoryTaskCache) SetState(_ context.Context, submissionID, state string) error {
	m.states.Add(submissionID, state)
	return nil
}

func (m *MemoryTaskCache) GetState(_ context.Context, submissionID string) (string, bool, error) {
	state, ok := m.states.Get(submissionID)
	return state, ok, nil
}

// AcquireSubmitLock toma el candado si no existe o si ya venció
func (m *MemoryTaskCache) AcquireSubmitLock(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if held, ok := m.locks[key]; ok && now.Before(held.expires) {
		return "", false, nil
	}
	token := uuid.NewString()
	m.locks[key] = memoryLock{token: token, expires: now.Add(m.lockTTL)}
	return token, true, nil
}

func (m *MemoryTaskCache) ReleaseSubmitLock(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if held, ok := m.locks[key]; ok && held.token == token {
		delete(m.locks, key)
	}
	return nil
}
