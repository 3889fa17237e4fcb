package addon

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"sbm/common"
	"sbm/css"
	"sbm/inject"
	"sbm/options"
	"sbm/prefs"
)

type fixture struct {
	svc   prefs.Service
	store *options.Store
	reg   *inject.Registry
	addon *Addon
}

func newFixture(t *testing.T, svc prefs.Service) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	if svc == nil {
		svc = prefs.NewMemory()
	}
	store := options.NewStore(prefs.NewBranch(svc, options.Branch), log)
	reg := inject.NewRegistry()
	a := New(store, inject.NewInjector(reg, common.SheetTypeUser, log), css.NewCompiler(), log)
	return &fixture{svc: svc, store: store, reg: reg, addon: a}
}

func (f *fixture) registered() []string {
	return f.reg.Sheets(common.SheetTypeUser)
}

func TestAddon_ActivateDeactivate(t *testing.T) {
	f := newFixture(t, nil)

	if err := f.addon.Activate(); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	want := css.NewCompiler().Compile(options.Defaults())
	if got := f.registered(); len(got) != 1 || got[0] != want.Locator {
		t.Fatalf("registered sheets = %d, want default stylesheet", len(got))
	}
	if f.addon.Stylesheet() != want {
		t.Error("Stylesheet() does not match applied stylesheet")
	}
	if err := f.addon.Activate(); !errors.Is(err, ErrAlreadyActive) {
		t.Errorf("second Activate() error = %v", err)
	}

	if err := f.addon.Deactivate(false); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if got := f.registered(); len(got) != 0 {
		t.Errorf("sheets left registered: %d", len(got))
	}
	if f.addon.Active() {
		t.Error("add-on still active")
	}
	if err := f.addon.Deactivate(false); !errors.Is(err, ErrNotActive) {
		t.Errorf("second Deactivate() error = %v", err)
	}
}

func TestAddon_FinalShutdownKeepsSheet(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.addon.Activate(); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	applied := f.addon.Stylesheet()

	if err := f.addon.Deactivate(true); err != nil {
		t.Fatalf("Deactivate(true) error = %v", err)
	}
	if got := f.registered(); len(got) != 1 || got[0] != applied.Locator {
		t.Error("final shutdown must leave stylesheet registered")
	}

	// no longer listening
	if err := f.store.Set(options.BookmarkThisPage, prefs.BoolValue(false)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := f.registered(); len(got) != 1 || got[0] != applied.Locator {
		t.Error("inactive add-on reacted to option change")
	}
}

func TestAddon_OptionChangeSwapsSheet(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.addon.Activate(); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	before := f.addon.Stylesheet()

	if err := f.store.Set(options.BookmarkThisPage, prefs.BoolValue(false)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := f.store.Set(options.ShowAllBookmarks, prefs.IntValue(int64(common.ShowAllModeHidden))); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	after := f.addon.Stylesheet()
	if after == before {
		t.Fatal("stylesheet not rebuilt")
	}
	got := f.registered()
	if len(got) != 1 || got[0] != after.Locator {
		t.Fatalf("registered sheets = %d, want only the new one", len(got))
	}
	if !strings.Contains(after.Text, "#panelMenuBookmarkThisPage + toolbarseparator") ||
		!strings.Contains(after.Text, "padding-bottom: 4px") ||
		strings.Contains(after.Text, "text-align: center") {
		t.Errorf("unexpected stylesheet:\n%s", after.Text)
	}

	// back to defaults gives back original sheet
	for _, name := range []string{options.BookmarkThisPage, options.ShowAllBookmarks} {
		if err := f.store.Reset(name); err != nil {
			t.Fatalf("Reset() error = %v", err)
		}
	}
	if f.addon.Stylesheet() != before {
		t.Error("resetting options did not restore default stylesheet")
	}
}

func TestAddon_InstallHooks(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.addon.Install(); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if f.addon.Active() || len(f.registered()) != 0 {
		t.Error("Install() must not activate")
	}
	if err := f.addon.Activate(); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if err := f.addon.Deactivate(false); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if err := f.addon.Uninstall(); err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if len(f.registered()) != 0 {
		t.Error("sheet left registered after uninstall")
	}
}

func TestAddon_NotActive(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.addon.OnPreferenceChanged(options.BookmarkThisPage); !errors.Is(err, ErrNotActive) {
		t.Errorf("OnPreferenceChanged() error = %v, want ErrNotActive", err)
	}
	// notifications with other topics are ignored
	f.addon.Observe("other-topic", options.BookmarkThisPage)
	if len(f.registered()) != 0 {
		t.Error("unexpected registration")
	}
}

func TestAddon_KeepsUserValues(t *testing.T) {
	svc := prefs.NewMemory()
	if err := svc.Set(options.Branch+options.KeyboardShortcuts, prefs.BoolValue(true)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	f := newFixture(t, svc)
	if err := f.addon.Activate(); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if strings.Contains(f.addon.Stylesheet().Text, "#BMB_bookmarksPopup .menu-accel-container") {
		t.Error("user value overwritten by default")
	}
}

func TestAddon_SQLiteRoundTrip(t *testing.T) {
	db, err := prefs.OpenSQLite(filepath.Join(t.TempDir(), "prefs.sqlite"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := newFixture(t, db)
	if err := f.addon.Activate(); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if err := f.store.Set(options.UnsortedBookmarks, prefs.BoolValue(true)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if strings.Contains(f.addon.Stylesheet().Text, "#BMB_unsortedBookmarks,") {
		t.Error("unsorted bookmarks still hidden")
	}
	if err := f.addon.Deactivate(false); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if len(f.registered()) != 0 {
		t.Error("sheet left registered")
	}
}

func TestAddon_OutOfRangeEnumKeepsOtherRules(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.addon.Activate(); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	// somebody else wrote state the option does not know
	if err := f.svc.Set(options.Branch+options.ShowAllBookmarks, prefs.IntValue(3)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	o := options.Defaults()
	o.ShowAllBookmarks = common.ShowAllModeVisible
	want := css.NewCompiler().Compile(o)
	if got := f.registered(); len(got) != 1 || got[0] != want.Locator {
		t.Fatalf("registered sheets = %d, want stylesheet without show-all handling", len(got))
	}
	if !f.addon.Active() {
		t.Error("add-on must stay active")
	}
}

func TestAddon_UnreadableOptionsKeepSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.sqlite")
	db, err := prefs.OpenSQLite(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := newFixture(t, db)
	if err := f.addon.Activate(); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	before := f.addon.Stylesheet()

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite)
	if err != nil {
		t.Fatalf("OpenConn() error = %v", err)
	}
	defer conn.Close()
	if err := sqlitex.Execute(conn, `INSERT INTO user_prefs (name, kind, value) VALUES (?, ?, ?);`,
		&sqlitex.ExecOptions{Args: []any{options.Branch + options.BookmarkThisPage, int(prefs.KindString), "no"}}); err != nil {
		t.Fatalf("insert error = %v", err)
	}
	if err := db.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if err := f.addon.OnPreferenceChanged(options.BookmarkThisPage); err == nil {
		t.Error("OnPreferenceChanged() must fail on mistyped value")
	}
	if got := f.registered(); len(got) != 1 || got[0] != before.Locator {
		t.Errorf("registered sheets = %d, previous stylesheet must stay", len(got))
	}
	if f.addon.Stylesheet() != before {
		t.Error("Stylesheet() changed")
	}
}
