package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"sbm/common"
	"sbm/config"
	"sbm/inject"
	"sbm/options"
	"sbm/prefs"
)

func testEnv(t *testing.T, mutate func(*config.Config)) *LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Preferences.Path = filepath.Join(t.TempDir(), "prefs.sqlite")
	if mutate != nil {
		mutate(cfg)
	}
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t)
	t.Cleanup(func() {
		if err := env.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return env
}

func TestLocalEnv_MemoryPreferences(t *testing.T) {
	env := testEnv(t, func(cfg *config.Config) { cfg.Preferences.Backend = common.BackendMemory })

	svc, err := env.Preferences()
	if err != nil {
		t.Fatalf("Preferences() error = %v", err)
	}
	if _, ok := svc.(*prefs.Memory); !ok {
		t.Errorf("Preferences() = %T, want *prefs.Memory", svc)
	}
	again, _ := env.Preferences()
	if again != svc {
		t.Error("Preferences() must return the same service")
	}
	if _, err := os.Stat(env.Cfg.Preferences.Path); !os.IsNotExist(err) {
		t.Error("memory backend must not create database")
	}
}

func TestLocalEnv_SQLitePreferences(t *testing.T) {
	env := testEnv(t, nil)

	store, err := env.Options()
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if err := store.InitializeDefaults(); err != nil {
		t.Fatalf("InitializeDefaults() error = %v", err)
	}
	if err := store.Set(options.KeyboardShortcuts, prefs.BoolValue(true)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := env.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// reopened environment sees the value
	store, err = env.Options()
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	o, err := store.Options()
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if !o.KeyboardShortcuts {
		t.Error("value was not persisted")
	}
}

func TestLocalEnv_Sheets(t *testing.T) {
	env := testEnv(t, nil)
	sheets, err := env.Sheets()
	if err != nil {
		t.Fatalf("Sheets() error = %v", err)
	}
	if _, ok := sheets.(*inject.Registry); !ok {
		t.Errorf("Sheets() = %T, want *inject.Registry", sheets)
	}
	if dir, _ := env.ChromeDir(); dir != nil {
		t.Error("ChromeDir() must be nil without configured directory")
	}

	chrome := filepath.Join(t.TempDir(), "chrome")
	env = testEnv(t, func(cfg *config.Config) { cfg.Injector.ChromeDir = chrome })
	dir, err := env.ChromeDir()
	if err != nil {
		t.Fatalf("ChromeDir() error = %v", err)
	}
	if dir == nil || dir.Dir() != chrome {
		t.Fatalf("ChromeDir() = %v", dir)
	}
}

func TestLocalEnv_Addon(t *testing.T) {
	chrome := filepath.Join(t.TempDir(), "chrome")
	env := testEnv(t, func(cfg *config.Config) {
		cfg.Injector.ChromeDir = chrome
		cfg.Injector.Document = "chrome://browser/content/browser.xhtml"
	})

	a, _, err := env.Addon()
	if err != nil {
		t.Fatalf("Addon() error = %v", err)
	}
	if err := a.Activate(); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if err := a.Deactivate(true); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(chrome, inject.SheetFile(a.Stylesheet().Locator)))
	if err != nil {
		t.Fatalf("stylesheet was not written: %v", err)
	}
	if want := a.Stylesheet().Text + "\n"; string(data) != want {
		t.Errorf("stylesheet file content mismatch")
	}
}
