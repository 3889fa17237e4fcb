package prefs

import (
	"errors"
	"slices"
	"testing"
)

type recorder struct {
	events []string
}

func (r *recorder) Observe(topic, key string) {
	r.events = append(r.events, topic+":"+key)
}

func TestMemory_DefaultsAndUserValues(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get("a.b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty service error = %v, want ErrNotFound", err)
	}

	if err := m.SetDefault("a.b", BoolValue(true)); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}
	v, err := m.Get("a.b")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if v != BoolValue(true) {
		t.Errorf("Get() = %v, want true", v)
	}

	if err := m.Set("a.b", BoolValue(false)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if has, _ := m.HasUserValue("a.b"); !has {
		t.Error("expected user value after Set()")
	}

	// re-seeding default must not touch user value
	if err := m.SetDefault("a.b", BoolValue(true)); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}
	if v, _ := m.Get("a.b"); v != BoolValue(false) {
		t.Errorf("Get() after SetDefault() = %v, want false", v)
	}

	if err := m.Clear("a.b"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if v, _ := m.Get("a.b"); v != BoolValue(true) {
		t.Errorf("Get() after Clear() = %v, want true", v)
	}
}

func TestMemory_SetEqualToDefaultDropsUserValue(t *testing.T) {
	m := NewMemory()
	_ = m.SetDefault("k", IntValue(1))
	_ = m.Set("k", IntValue(2))
	_ = m.Set("k", IntValue(1))

	if has, _ := m.HasUserValue("k"); has {
		t.Error("user value equal to default should not be kept")
	}
}

func TestMemory_TypeMismatch(t *testing.T) {
	m := NewMemory()
	_ = m.SetDefault("k", IntValue(1))

	if err := m.Set("k", BoolValue(true)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Set() with wrong kind error = %v, want ErrTypeMismatch", err)
	}
	if err := m.Set("k", Value{}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Set() with invalid value error = %v, want ErrInvalidValue", err)
	}
}

func TestMemory_Notifications(t *testing.T) {
	m := NewMemory()
	_ = m.SetDefault("ext.one", BoolValue(false))
	_ = m.SetDefault("other.two", BoolValue(false))

	rec := &recorder{}
	sub := m.Subscribe("ext.", rec)

	_ = m.Set("ext.one", BoolValue(true))
	_ = m.Set("ext.one", BoolValue(true)) // no change - no event
	_ = m.Set("other.two", BoolValue(true))
	_ = m.Clear("ext.one")

	want := []string{TopicChanged + ":ext.one", TopicChanged + ":ext.one"}
	if !slices.Equal(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}

	m.Unsubscribe(sub)
	_ = m.Set("ext.one", BoolValue(true))
	if len(rec.events) != 2 {
		t.Errorf("got events after Unsubscribe(): %v", rec.events)
	}
}

func TestMemory_ObserverMayReadBack(t *testing.T) {
	m := NewMemory()
	_ = m.SetDefault("k", IntValue(0))

	var seen int64
	m.Subscribe("", ObserverFunc(func(_, key string) {
		v, err := m.Get(key)
		if err != nil {
			t.Errorf("Get() from observer error = %v", err)
			return
		}
		seen = v.Int()
	}))

	_ = m.Set("k", IntValue(7))
	if seen != 7 {
		t.Errorf("observer saw %d, want 7", seen)
	}
}

func TestMemory_KeysNaturalOrder(t *testing.T) {
	m := NewMemory()
	for _, k := range []string{"p.item10", "p.item2", "p.item1", "q.item"} {
		_ = m.SetDefault(k, BoolValue(true))
	}
	_ = m.Set("p.extra", StringValue("x"))

	keys, err := m.Keys("p.")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	want := []string{"p.extra", "p.item1", "p.item2", "p.item10"}
	if !slices.Equal(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
}
