package options

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"sbm/prefs"
)

var (
	ErrUnknownOption = errors.New("unknown option")
	ErrInvalidValue  = errors.New("invalid option value")
)

// Store reads and writes options through preferences branch.
type Store struct {
	branch *prefs.Branch
	log    *zap.Logger
}

func NewStore(branch *prefs.Branch, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{branch: branch, log: log.Named("options")}
}

// Branch returns preferences branch options are kept in.
func (s *Store) Branch() *prefs.Branch {
	return s.branch
}

// InitializeDefaults seeds default value of every option. Values set by user
// are never overwritten, so it is safe to call on every activation.
func (s *Store) InitializeDefaults() error {
	for _, d := range definitions {
		if err := s.branch.SetDefault(d.Name, d.Default); err != nil {
			return fmt.Errorf("unable to set default for option '%s': %w", d.Name, err)
		}
	}
	s.log.Debug("Option defaults initialized", zap.String("branch", s.branch.Root()), zap.Int("options", len(definitions)))
	return nil
}

// Get returns current value of the option.
func (s *Store) Get(name string) (prefs.Value, error) {
	d, ok := Lookup(name)
	if !ok {
		return prefs.Value{}, fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	v, err := s.branch.Get(name)
	if err != nil {
		return prefs.Value{}, fmt.Errorf("unable to read option '%s': %w", name, err)
	}
	if err := d.check(v); err != nil {
		if !d.IsEnum() || v.Kind() != prefs.KindInt {
			return prefs.Value{}, err
		}
		// stored by somebody else, unknown state means no special handling
		s.log.Warn("Ignoring out of range option value", zap.String("name", name), zap.Int64("value", v.Int()))
		return prefs.IntValue(0), nil
	}
	return v, nil
}

// Set validates and stores option value, observers of the branch are notified
// by preferences service.
func (s *Store) Set(name string, v prefs.Value) error {
	d, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	if err := d.check(v); err != nil {
		return err
	}
	if err := s.branch.Set(name, v); err != nil {
		return fmt.Errorf("unable to store option '%s': %w", name, err)
	}
	s.log.Debug("Option changed", zap.String("name", name), zap.Stringer("value", v))
	return nil
}

// Reset returns option to its default value.
func (s *Store) Reset(name string) error {
	if _, ok := Lookup(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	if err := s.branch.Clear(name); err != nil {
		return fmt.Errorf("unable to reset option '%s': %w", name, err)
	}
	return nil
}

// IsDefault reports whether option has no user value.
func (s *Store) IsDefault(name string) (bool, error) {
	if _, ok := Lookup(name); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	has, err := s.branch.HasUserValue(name)
	return !has, err
}

// Options reads complete snapshot of all options.
func (s *Store) Options() (Options, error) {
	var o Options
	for _, d := range definitions {
		v, err := s.Get(d.Name)
		if err != nil {
			return Options{}, err
		}
		d.assign(&o, v)
	}
	return o, nil
}

func (d Definition) check(v prefs.Value) error {
	if v.Kind() != d.Default.Kind() {
		return fmt.Errorf("%w: %s expects %s, got %s", ErrInvalidValue, d.Name, d.Default.Kind(), v.Kind())
	}
	if d.IsEnum() && (v.Int() < 0 || v.Int() >= int64(len(d.Choices))) {
		return fmt.Errorf("%w: %s must be one of [%s] or 0..%d, got %d",
			ErrInvalidValue, d.Name, strings.Join(d.Choices, ", "), len(d.Choices)-1, v.Int())
	}
	return nil
}

// ParseValue converts text (command line, configuration) to option value.
// Enumerations accept either state name or its number.
func ParseValue(name, text string) (prefs.Value, error) {
	d, ok := Lookup(name)
	if !ok {
		return prefs.Value{}, fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}

	var v prefs.Value
	switch {
	case d.IsEnum():
		idx := -1
		for i, c := range d.Choices {
			if strings.EqualFold(c, text) {
				idx = i
				break
			}
		}
		if idx < 0 {
			n, err := strconv.Atoi(text)
			if err != nil {
				return prefs.Value{}, fmt.Errorf("%w: %s must be one of [%s], got %q",
					ErrInvalidValue, name, strings.Join(d.Choices, ", "), text)
			}
			idx = n
		}
		v = prefs.IntValue(int64(idx))
	case d.Default.Kind() == prefs.KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return prefs.Value{}, fmt.Errorf("%w: %s expects boolean, got %q", ErrInvalidValue, name, text)
		}
		v = prefs.BoolValue(b)
	default:
		v = prefs.StringValue(text)
	}
	if err := d.check(v); err != nil {
		return prefs.Value{}, err
	}
	return v, nil
}

// Format presents option value for humans, enumerations by state name.
func Format(name string, v prefs.Value) string {
	if d, ok := Lookup(name); ok && d.IsEnum() && v.Kind() == prefs.KindInt {
		if i := v.Int(); i >= 0 && i < int64(len(d.Choices)) {
			return d.Choices[i]
		}
	}
	return v.String()
}
