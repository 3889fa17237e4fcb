package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"sbm/addon"
	"sbm/common"
	"sbm/css"
	"sbm/inject"
	"sbm/options"
	"sbm/prefs"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

func (e *LocalEnv) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// Preferences opens preferences storage selected by configuration. Service
// is opened once and kept until Close.
func (e *LocalEnv) Preferences() (prefs.Service, error) {
	if e.prefs != nil {
		return e.prefs, nil
	}
	if e.Cfg == nil {
		return nil, errors.New("configuration is not loaded")
	}

	switch e.Cfg.Preferences.Backend {
	case common.BackendMemory:
		e.prefs = prefs.NewMemory()
	case common.BackendSqlite:
		db, err := prefs.OpenSQLite(e.Cfg.Preferences.Path, e.logger())
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, func() error {
			// keep state of the database in debug report
			if err := e.Rpt.StoreCopy("prefs.sqlite", db.Path()); err != nil {
				e.logger().Warn("Unable to store preferences in report", zap.Error(err))
			}
			return db.Close()
		})
		e.prefs = db
	default:
		return nil, fmt.Errorf("unsupported preferences backend: %s", e.Cfg.Preferences.Backend)
	}
	return e.prefs, nil
}

// Options returns option store on configured preferences branch.
func (e *LocalEnv) Options() (*options.Store, error) {
	svc, err := e.Preferences()
	if err != nil {
		return nil, err
	}
	return options.NewStore(prefs.NewBranch(svc, e.Cfg.Preferences.Branch), e.logger()), nil
}

// Sheets returns stylesheet service: profile chrome directory when it is
// configured, in-memory registry otherwise.
func (e *LocalEnv) Sheets() (inject.SheetService, error) {
	if e.sheets != nil {
		return e.sheets, nil
	}
	if e.Cfg == nil {
		return nil, errors.New("configuration is not loaded")
	}

	if !e.Cfg.Injector.UsesChromeDir() {
		e.sheets = inject.NewRegistry()
		return e.sheets, nil
	}
	dir, err := inject.NewChromeDir(filepath.Clean(e.Cfg.Injector.ChromeDir), e.logger())
	if err != nil {
		return nil, err
	}
	e.chrome, e.sheets = dir, dir
	return e.sheets, nil
}

// ChromeDir returns file backed stylesheet service or nil when chrome
// directory is not configured.
func (e *LocalEnv) ChromeDir() (*inject.ChromeDir, error) {
	if _, err := e.Sheets(); err != nil {
		return nil, err
	}
	return e.chrome, nil
}

// Compiler returns stylesheet compiler for configured chrome document.
func (e *LocalEnv) Compiler() *css.Compiler {
	var opts []css.Option
	if e.Cfg != nil {
		opts = append(opts, css.WithDocument(e.Cfg.Injector.Document))
	}
	return css.NewCompiler(opts...)
}

// Addon assembles stylesheet lifecycle from configured parts.
func (e *LocalEnv) Addon() (*addon.Addon, *options.Store, error) {
	store, err := e.Options()
	if err != nil {
		return nil, nil, err
	}
	sheets, err := e.Sheets()
	if err != nil {
		return nil, nil, err
	}
	injector := inject.NewInjector(sheets, e.Cfg.Injector.SheetType, e.logger())
	return addon.New(store, injector, e.Compiler(), e.logger()), store, nil
}
