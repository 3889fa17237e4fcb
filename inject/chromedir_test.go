package inject

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"sbm/common"
	"sbm/css"
)

func newChromeDir(t *testing.T) *ChromeDir {
	t.Helper()
	c, err := NewChromeDir(filepath.Join(t.TempDir(), "chrome"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewChromeDir() error = %v", err)
	}
	return c
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return string(data)
}

func TestChromeDir_RegisterUnregister(t *testing.T) {
	c := newChromeDir(t)
	loc := css.EncodeLocator("#a {display: none !important;}")

	if err := c.LoadAndRegister(loc, common.SheetTypeUser); err != nil {
		t.Fatalf("LoadAndRegister() error = %v", err)
	}
	ok, err := c.SheetRegistered(loc, common.SheetTypeUser)
	if err != nil || !ok {
		t.Fatalf("SheetRegistered() = %v, %v", ok, err)
	}

	name := SheetFile(loc)
	if got := readFile(t, filepath.Join(c.Dir(), name)); got != "#a {display: none !important;}\n" {
		t.Errorf("sheet file = %q", got)
	}
	if chrome := readFile(t, filepath.Join(c.Dir(), UserChrome)); !strings.Contains(chrome, `@import url("`+name+`");`) {
		t.Errorf("%s does not import sheet:\n%s", UserChrome, chrome)
	}

	if err := c.Unregister(loc, common.SheetTypeUser); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if ok, _ := c.SheetRegistered(loc, common.SheetTypeUser); ok {
		t.Error("sheet still registered")
	}
	if _, err := os.Stat(filepath.Join(c.Dir(), name)); !os.IsNotExist(err) {
		t.Errorf("sheet file not removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(c.Dir(), UserChrome)); !os.IsNotExist(err) {
		t.Errorf("empty %s must be removed: %v", UserChrome, err)
	}
}

func TestChromeDir_KeepsUserContent(t *testing.T) {
	c := newChromeDir(t)
	own := "#nav-bar {background: red;}\n"
	if err := os.WriteFile(filepath.Join(c.Dir(), UserChrome), []byte(own), 0644); err != nil {
		t.Fatal(err)
	}

	loc := css.EncodeLocator("#b {}")
	if err := c.LoadAndRegister(loc, common.SheetTypeAuthor); err != nil {
		t.Fatalf("LoadAndRegister() error = %v", err)
	}
	chrome := readFile(t, filepath.Join(c.Dir(), UserChrome))
	if !strings.HasPrefix(chrome, blockBegin) {
		t.Errorf("managed block must come first:\n%s", chrome)
	}
	if !strings.HasSuffix(chrome, own) {
		t.Errorf("user rules lost:\n%s", chrome)
	}

	if err := c.Unregister(loc, common.SheetTypeAuthor); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if got := readFile(t, filepath.Join(c.Dir(), UserChrome)); got != own {
		t.Errorf("%s = %q, want %q", UserChrome, got, own)
	}
}

func TestChromeDir_Prune(t *testing.T) {
	c := newChromeDir(t)
	locs := []string{css.EncodeLocator("#a {}"), css.EncodeLocator("#b {}"), css.EncodeLocator("#c {}")}
	for _, loc := range locs {
		if err := c.LoadAndRegister(loc, common.SheetTypeUser); err != nil {
			t.Fatalf("LoadAndRegister() error = %v", err)
		}
	}
	// stray file left without import
	if err := os.WriteFile(filepath.Join(c.Dir(), "sbm-dead.css"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	if err := c.Prune(locs[1]); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	got, err := c.Registered()
	if err != nil {
		t.Fatalf("Registered() error = %v", err)
	}
	if len(got) != 1 || got[0] != SheetFile(locs[1]) {
		t.Errorf("Registered() = %v", got)
	}
	entries, _ := os.ReadDir(c.Dir())
	var managed int
	for _, e := range entries {
		if isManaged(e.Name()) {
			managed++
		}
	}
	if managed != 1 {
		t.Errorf("managed files = %d, want 1", managed)
	}

	if err := c.Prune(""); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if got, _ := c.Registered(); len(got) != 0 {
		t.Errorf("Registered() after full prune = %v", got)
	}
}

func TestChromeDir_Errors(t *testing.T) {
	c := newChromeDir(t)
	if err := c.LoadAndRegister(css.EncodeLocator("#a {}"), common.SheetTypeAgent); !errors.Is(err, ErrUnsupportedSheetType) {
		t.Errorf("agent sheet error = %v", err)
	}
	if err := c.LoadAndRegister("chrome://global/skin/global.css", common.SheetTypeUser); !errors.Is(err, css.ErrNotDataLocator) {
		t.Errorf("non data locator error = %v", err)
	}
	if _, err := NewChromeDir("", nil); err == nil {
		t.Error("expected error for empty directory")
	}

	if err := os.WriteFile(filepath.Join(c.Dir(), UserChrome), []byte(blockBegin+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Registered(); err == nil {
		t.Error("expected error for unterminated managed block")
	}
}

func TestChromeDir_WithInjector(t *testing.T) {
	c := newChromeDir(t)
	in := NewInjector(c, common.SheetTypeUser, zaptest.NewLogger(t))
	loc := css.EncodeLocator("#a {}")
	for range 2 {
		if err := in.Apply(loc); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
	}
	chrome := readFile(t, filepath.Join(c.Dir(), UserChrome))
	if n := strings.Count(chrome, "@import"); n != 1 {
		t.Errorf("imports = %d, want 1", n)
	}
}
