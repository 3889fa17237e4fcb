package inject

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sbm/common"
	"sbm/css"
)

const (
	// UserChrome is profile stylesheet browser loads for its own windows.
	UserChrome = "userChrome.css"

	sheetPrefix = "sbm-"
	sheetSuffix = ".css"
	blockBegin  = "/* sbm: begin managed imports, do not edit */"
	blockEnd    = "/* sbm: end managed imports */"
)

// ChromeDir is SheetService backed by profile "chrome" directory. Every
// registered sheet is written into its own file and imported from
// userChrome.css, which browser reads on start.
type ChromeDir struct {
	mu  sync.Mutex
	dir string
	log *zap.Logger
}

func NewChromeDir(dir string, log *zap.Logger) (*ChromeDir, error) {
	if len(dir) == 0 {
		return nil, errors.New("chrome directory is not specified")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create chrome directory: %w", err)
	}
	return &ChromeDir{dir: dir, log: log.Named("chrome-dir")}, nil
}

// Dir returns chrome directory path.
func (c *ChromeDir) Dir() string {
	return c.dir
}

// SheetFile returns name of the file locator is stored in.
func SheetFile(uri string) string {
	return sheetPrefix + strconv.FormatUint(xxhash.Sum64String(uri), 16) + sheetSuffix
}

func checkType(typ common.SheetType) error {
	if !typ.UsesChrome() {
		return fmt.Errorf("%w: %s sheets cannot be imported from %s", ErrUnsupportedSheetType, typ, UserChrome)
	}
	return nil
}

func (c *ChromeDir) LoadAndRegister(uri string, typ common.SheetType) error {
	if err := checkType(typ); err != nil {
		return err
	}
	text, err := css.Decode(uri)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	name := SheetFile(uri)
	if err := os.WriteFile(filepath.Join(c.dir, name), []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return c.updateImports(func(imports []string) []string {
		if slices.Contains(imports, name) {
			return imports
		}
		return append(imports, name)
	})
}

func (c *ChromeDir) SheetRegistered(uri string, typ common.SheetType) (bool, error) {
	if err := checkType(typ); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	name := SheetFile(uri)
	_, imports, _, err := c.readChrome()
	if err != nil {
		return false, err
	}
	if !slices.Contains(imports, name) {
		return false, nil
	}
	if _, err := os.Stat(filepath.Join(c.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *ChromeDir) Unregister(uri string, typ common.SheetType) error {
	if err := checkType(typ); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	name := SheetFile(uri)
	err := c.updateImports(func(imports []string) []string {
		return slices.DeleteFunc(imports, func(s string) bool { return s == name })
	})
	return multierr.Append(err, c.removeSheet(name))
}

// Registered lists managed sheet files imported from userChrome.css.
func (c *ChromeDir) Registered() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, imports, _, err := c.readChrome()
	return imports, err
}

// Prune unregisters every managed sheet except the one for keep locator and
// removes stray managed files. Empty keep removes everything.
func (c *ChromeDir) Prune(keep string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var keepName string
	if len(keep) > 0 {
		keepName = SheetFile(keep)
	}

	err := c.updateImports(func(imports []string) []string {
		return slices.DeleteFunc(imports, func(s string) bool { return s != keepName })
	})

	entries, rerr := os.ReadDir(c.dir)
	if rerr != nil {
		return multierr.Append(err, fmt.Errorf("unable to read chrome directory: %w", rerr))
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == keepName || !isManaged(name) {
			continue
		}
		err = multierr.Append(err, c.removeSheet(name))
	}
	return err
}

func isManaged(name string) bool {
	return strings.HasPrefix(name, sheetPrefix) && strings.HasSuffix(name, sheetSuffix)
}

func (c *ChromeDir) removeSheet(name string) error {
	if err := os.Remove(filepath.Join(c.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to remove stylesheet: %w", err)
	}
	c.log.Debug("Stylesheet removed", zap.String("file", name))
	return nil
}

// readChrome splits userChrome.css into text preceding managed block,
// managed imports and the rest. Missing file is the same as empty one.
func (c *ChromeDir) readChrome() (head string, imports []string, tail string, err error) {
	data, err := os.ReadFile(filepath.Join(c.dir, UserChrome))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, "", nil
		}
		return "", nil, "", fmt.Errorf("unable to read %s: %w", UserChrome, err)
	}
	text := string(data)

	start := strings.Index(text, blockBegin)
	if start < 0 {
		return "", nil, text, nil
	}
	end := strings.Index(text[start:], blockEnd)
	if end < 0 {
		return "", nil, "", fmt.Errorf("%s: managed block is not terminated", UserChrome)
	}
	end += start

	scanner := bufio.NewScanner(strings.NewReader(text[start+len(blockBegin) : end]))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		name, ok := strings.CutPrefix(line, `@import url("`)
		if !ok {
			continue
		}
		if name, ok = strings.CutSuffix(name, `");`); ok && isManaged(name) {
			imports = append(imports, name)
		}
	}
	return text[:start], imports, strings.TrimPrefix(text[end+len(blockEnd):], "\n"), nil
}

// updateImports rewrites managed block. @import rules must precede all other
// rules, so block is always placed on top of the file.
func (c *ChromeDir) updateImports(fn func([]string) []string) error {
	head, imports, tail, err := c.readChrome()
	if err != nil {
		return err
	}
	imports = fn(imports)

	var b strings.Builder
	b.WriteString(head)
	if len(imports) > 0 {
		b.WriteString(blockBegin)
		b.WriteByte('\n')
		for _, name := range imports {
			b.WriteString(`@import url("`)
			b.WriteString(name)
			b.WriteString("\");\n")
		}
		b.WriteString(blockEnd)
		b.WriteByte('\n')
	}
	b.WriteString(tail)

	path := filepath.Join(c.dir, UserChrome)
	if b.Len() == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("unable to remove %s: %w", UserChrome, err)
		}
		return nil
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("unable to write %s: %w", UserChrome, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("unable to replace %s: %w", UserChrome, err)
	}
	c.log.Debug("Imports updated", zap.String("file", path), zap.Strings("imports", imports))
	return nil
}
