// Package addon drives stylesheet lifecycle: it applies stylesheet compiled
// from current options on activation, rebuilds it whenever an option changes
// and retracts it on deactivation.
package addon

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sbm/css"
	"sbm/inject"
	"sbm/options"
	"sbm/prefs"
)

var (
	ErrNotActive     = errors.New("add-on is not active")
	ErrAlreadyActive = errors.New("add-on is already active")
)

// Addon is a single activation of the stylesheet lifecycle. Calls are
// serialized, notifications coming from other goroutines are processed one
// at a time.
type Addon struct {
	store    *options.Store
	injector *inject.Injector
	compiler *css.Compiler
	baseLog  *zap.Logger

	mu      sync.Mutex
	active  bool
	log     *zap.Logger
	current css.Stylesheet
	sub     *prefs.Subscription
}

func New(store *options.Store, injector *inject.Injector, compiler *css.Compiler, log *zap.Logger) *Addon {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("addon")
	return &Addon{
		store:    store,
		injector: injector,
		compiler: compiler,
		baseLog:  log,
		log:      log,
	}
}

// Install is called when add-on is installed. Nothing to do.
func (a *Addon) Install() error {
	a.baseLog.Debug("Installed")
	return nil
}

// Uninstall is called when add-on is removed. Nothing to do.
func (a *Addon) Uninstall() error {
	a.baseLog.Debug("Uninstalled")
	return nil
}

// Active reports whether add-on is active.
func (a *Addon) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Stylesheet returns currently applied stylesheet, zero value when inactive.
func (a *Addon) Stylesheet() css.Stylesheet {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Activate seeds option defaults, applies stylesheet for current options and
// starts listening for option changes.
func (a *Addon) Activate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active {
		return ErrAlreadyActive
	}
	a.log = a.baseLog.With(zap.String("activation", uuid.NewString()))

	if err := a.store.InitializeDefaults(); err != nil {
		return err
	}
	sheet, err := a.compile()
	if err != nil {
		return err
	}
	if err := a.injector.Apply(sheet.Locator); err != nil {
		return err
	}
	a.current = sheet
	a.sub = a.store.Branch().Subscribe(a)
	a.active = true

	a.log.Info("Activated", zap.Stringer("sheet", a.injector.SheetType()), zap.Int("stylesheet", len(sheet.Text)))
	return nil
}

// Observe receives preference notifications. There is nobody to return
// errors to, they are logged.
func (a *Addon) Observe(topic, name string) {
	if topic != prefs.TopicChanged {
		return
	}
	if err := a.OnPreferenceChanged(name); err != nil {
		a.baseLog.Error("Unable to rebuild stylesheet", zap.String("option", name), zap.Error(err))
	}
}

// OnPreferenceChanged replaces applied stylesheet with the one compiled from
// the complete current option set. Name is only reported.
func (a *Addon) OnPreferenceChanged(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.active {
		return ErrNotActive
	}
	a.log.Debug("Option changed", zap.String("option", name))

	sheet, err := a.compile()
	if err != nil {
		return err
	}
	if err := a.injector.Retract(a.current.Locator); err != nil {
		return err
	}
	a.current = css.Stylesheet{}
	if err := a.injector.Apply(sheet.Locator); err != nil {
		return err
	}
	a.current = sheet
	return nil
}

// Deactivate stops listening for option changes. Unless this is final
// shutdown, applied stylesheet is retracted.
func (a *Addon) Deactivate(final bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.active {
		return ErrNotActive
	}
	var err error
	if !final && len(a.current.Locator) > 0 {
		if err = a.injector.Retract(a.current.Locator); err == nil {
			a.current = css.Stylesheet{}
		}
	}
	a.store.Branch().Unsubscribe(a.sub)
	a.sub = nil
	a.active = false

	a.log.Info("Deactivated", zap.Bool("final", final))
	return err
}

func (a *Addon) compile() (css.Stylesheet, error) {
	o, err := a.store.Options()
	if err != nil {
		return css.Stylesheet{}, fmt.Errorf("unable to read options: %w", err)
	}
	return a.compiler.Compile(o), nil
}
