// Package session holds the per-conversation dialogue contexts and
// serializes turns so the read-modify-write of one session never
// interleaves with itself. Different sessions proceed in parallel.
package session

import (
	"sync"
	"time"

	"github.com/avelis/frontdesk/internal/dialog"
)

// Store persists one dialogue context per session key. Get returns a
// default context for unknown keys; Reset drops all prior state for a
// key. Backend failures surface as errors: silently dropping a session
// corrupts conversation continuity.
type Store interface {
	Get(key string) (dialog.Context, error)
	Save(key string, sc dialog.Context) error
	Reset(key string) error
	// SweepIdle ends every non-ended session not touched since the
	// cutoff. Returns the number of sessions swept.
	SweepIdle(cutoff time.Time) (int64, error)
}

// memoryEntry pairs a context with its last-touched time for sweeping.
type memoryEntry struct {
	sc      dialog.Context
	touched time.Time
}

// MemoryStore is the in-process Store used by the local REPL and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore. A nil clock uses
// time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: now}
}

// Get returns the stored context for key, or a default context if the
// key is unknown.
func (m *MemoryStore) Get(key string) (dialog.Context, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[key]; ok {
		return e.sc, nil
	}
	return dialog.NewContext(), nil
}

// Save stores the context for key.
func (m *MemoryStore) Save(key string, sc dialog.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = memoryEntry{sc: sc, touched: m.now()}
	return nil
}

// Reset drops the context for key entirely.
func (m *MemoryStore) Reset(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
	return nil
}

// SweepIdle ends sessions not touched since the cutoff.
func (m *MemoryStore) SweepIdle(cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var swept int64
	for key, e := range m.sessions {
		if e.sc.Ended() || !e.touched.Before(cutoff) {
			continue
		}
		e.sc.Stage = dialog.StageEnded
		e.touched = m.now()
		m.sessions[key] = e
		swept++
	}
	return swept, nil
}

// keyedMutex serializes turns per session key while leaving unrelated
// sessions fully parallel. Mutexes are created on first use and kept for
// the process lifetime; the per-key footprint is one mutex.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock func.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l.Unlock
}
