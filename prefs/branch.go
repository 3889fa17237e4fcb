package prefs

import (
	"fmt"
	"strings"
)

// Branch is a view of the Service limited to keys under root prefix. Names
// passed to and reported by Branch are relative to root.
type Branch struct {
	svc  Service
	root string
}

func NewBranch(svc Service, root string) *Branch {
	return &Branch{svc: svc, root: root}
}

func (b *Branch) Root() string {
	return b.root
}

func (b *Branch) key(name string) string {
	return b.root + name
}

func (b *Branch) Get(name string) (Value, error) {
	return b.svc.Get(b.key(name))
}

func (b *Branch) typed(name string, kind Kind) (Value, error) {
	v, err := b.Get(name)
	if err != nil {
		return Value{}, err
	}
	if v.Kind() != kind {
		return Value{}, fmt.Errorf("%s is %s, not %s: %w", b.key(name), v.Kind(), kind, ErrTypeMismatch)
	}
	return v, nil
}

func (b *Branch) Bool(name string) (bool, error) {
	v, err := b.typed(name, KindBool)
	return v.Bool(), err
}

func (b *Branch) Int(name string) (int64, error) {
	v, err := b.typed(name, KindInt)
	return v.Int(), err
}

func (b *Branch) String(name string) (string, error) {
	v, err := b.typed(name, KindString)
	return v.Text(), err
}

func (b *Branch) SetDefault(name string, v Value) error {
	return b.svc.SetDefault(b.key(name), v)
}

func (b *Branch) Set(name string, v Value) error {
	return b.svc.Set(b.key(name), v)
}

func (b *Branch) Clear(name string) error {
	return b.svc.Clear(b.key(name))
}

func (b *Branch) HasUserValue(name string) (bool, error) {
	return b.svc.HasUserValue(b.key(name))
}

// Names returns relative names of all keys under the branch.
func (b *Branch) Names() ([]string, error) {
	keys, err := b.svc.Keys(b.root)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		keys[i] = strings.TrimPrefix(keys[i], b.root)
	}
	return keys, nil
}

// Subscribe registers observer for all keys under the branch, observer gets
// relative names.
func (b *Branch) Subscribe(o Observer) *Subscription {
	return b.svc.Subscribe(b.root, ObserverFunc(func(topic, key string) {
		o.Observe(topic, strings.TrimPrefix(key, b.root))
	}))
}

func (b *Branch) Unsubscribe(s *Subscription) {
	b.svc.Unsubscribe(s)
}
