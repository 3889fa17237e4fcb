package prefs

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/maruel/natural"
)

// Memory is in-process preferences service, nothing survives the process.
type Memory struct {
	hub

	mu       sync.RWMutex
	defaults map[string]Value
	user     map[string]Value
}

func NewMemory() *Memory {
	return &Memory{
		defaults: make(map[string]Value),
		user:     make(map[string]Value),
	}
}

func (m *Memory) effective(key string) Value {
	if v, ok := m.user[key]; ok {
		return v
	}
	return m.defaults[key]
}

func (m *Memory) SetDefault(key string, v Value) error {
	m.mu.Lock()
	if err := checkKind(m.effective(key), v); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("default for %s: %w", key, err)
	}
	before := m.effective(key)
	m.defaults[key] = v
	changed := before != m.effective(key)
	m.mu.Unlock()

	if changed {
		m.notify(key)
	}
	return nil
}

func (m *Memory) Get(key string) (Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v := m.effective(key)
	if !v.IsValid() {
		return Value{}, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return v, nil
}

func (m *Memory) HasUserValue(key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.user[key]
	return ok, nil
}

func (m *Memory) Set(key string, v Value) error {
	m.mu.Lock()
	before := m.effective(key)
	if err := checkKind(before, v); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", key, err)
	}
	if def, ok := m.defaults[key]; ok && def == v {
		// user value equal to default is not kept
		delete(m.user, key)
	} else {
		m.user[key] = v
	}
	changed := before != m.effective(key)
	m.mu.Unlock()

	if changed {
		m.notify(key)
	}
	return nil
}

func (m *Memory) Clear(key string) error {
	m.mu.Lock()
	before := m.effective(key)
	delete(m.user, key)
	changed := before != m.effective(key)
	m.mu.Unlock()

	if changed {
		m.notify(key)
	}
	return nil
}

func (m *Memory) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{}, len(m.defaults)+len(m.user))
	for _, src := range []map[string]Value{m.defaults, m.user} {
		for k := range src {
			if strings.HasPrefix(k, prefix) {
				seen[k] = struct{}{}
			}
		}
	}
	return sortedKeys(seen), nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return natural.Less(keys[i], keys[j]) })
	return keys
}
