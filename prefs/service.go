// Package prefs implements hierarchical preference storage: a default branch
// seeded by the program, a user branch holding explicit values and change
// notifications for observers interested in a key prefix.
package prefs

import (
	"errors"
	"strings"
	"sync"
)

// TopicChanged is delivered to observers after a preference effective value
// has changed.
const TopicChanged = "nsPref:changed"

var (
	ErrNotFound     = errors.New("preference not found")
	ErrTypeMismatch = errors.New("preference type mismatch")
	ErrInvalidValue = errors.New("invalid preference value")
)

// Observer receives change notifications. Key is the full preference name
// (or branch relative name when subscribed through Branch).
type Observer interface {
	Observe(topic, key string)
}

// ObserverFunc adapts ordinary function to Observer.
type ObserverFunc func(topic, key string)

func (f ObserverFunc) Observe(topic, key string) {
	f(topic, key)
}

// Subscription identifies registered observer.
type Subscription struct {
	prefix   string
	observer Observer
}

// Service is preferences storage. Effective value of a key is its user value
// if present, otherwise its default value.
type Service interface {
	// SetDefault sets value on default branch. User value is never touched.
	SetDefault(key string, v Value) error
	// Get returns effective value or ErrNotFound.
	Get(key string) (Value, error)
	// HasUserValue reports whether key has explicit user value.
	HasUserValue(key string) (bool, error)
	// Set stores user value. Value kind must match already known kind of the key.
	Set(key string, v Value) error
	// Clear removes user value, effective value reverts to default.
	Clear(key string) error
	// Keys returns all known keys starting with prefix in natural order.
	Keys(prefix string) ([]string, error)
	Subscribe(prefix string, o Observer) *Subscription
	Unsubscribe(s *Subscription)
}

// hub keeps observers. Notifications are delivered outside of any storage
// locks so observers are free to read preferences back.
type hub struct {
	mu   sync.Mutex
	subs []*Subscription
}

func (h *hub) Subscribe(prefix string, o Observer) *Subscription {
	s := &Subscription{prefix: prefix, observer: o}
	h.mu.Lock()
	h.subs = append(h.subs, s)
	h.mu.Unlock()
	return s
}

func (h *hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, cur := range h.subs {
		if cur == s {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

func (h *hub) notify(keys ...string) {
	h.mu.Lock()
	subs := make([]*Subscription, len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	for _, key := range keys {
		for _, s := range subs {
			if strings.HasPrefix(key, s.prefix) {
				s.observer.Observe(TopicChanged, key)
			}
		}
	}
}

// checkKind verifies that v may be stored under a key currently holding
// known (possibly invalid, meaning absent) value.
func checkKind(known, v Value) error {
	if !v.IsValid() {
		return ErrInvalidValue
	}
	if known.IsValid() && known.Kind() != v.Kind() {
		return ErrTypeMismatch
	}
	return nil
}
