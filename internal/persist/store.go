package persist

import (
	"errors"
	"sync"

	"fyne.io/fyne/v2"
)

// ErrNotFound is returned by KeyValue.Get for a key that was never set.
var ErrNotFound = errors.New("key not found")

// KeyValue is the client-local store the board is persisted to.
type KeyValue interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// MemoryStore keeps values in a map. Handy for tests and headless runs.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// PreferencesStore keeps values in a fyne application's preferences, the
// toolkit's per-user key/value storage.
type PreferencesStore struct {
	prefs fyne.Preferences
}

func NewPreferencesStore(prefs fyne.Preferences) *PreferencesStore {
	return &PreferencesStore{prefs: prefs}
}

// Get treats an empty preference as unset; fyne does not distinguish the
// two.
func (p *PreferencesStore) Get(key string) (string, error) {
	v := p.prefs.String(key)
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

func (p *PreferencesStore) Set(key, value string) error {
	p.prefs.SetString(key, value)
	return nil
}
