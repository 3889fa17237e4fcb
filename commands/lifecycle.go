package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sbm/options"
	"sbm/state"
)

// withAddon activates stylesheet lifecycle, runs fn and leaves stylesheet
// registered as browser shutdown would. Stale sheets of earlier runs are
// pruned from chrome directory. When install is set add-on install hook runs
// first.
func withAddon(env *state.LocalEnv, install bool, fn func(*options.Store) error) (err error) {
	a, store, err := env.Addon()
	if err != nil {
		return err
	}
	if install {
		if err := a.Install(); err != nil {
			return fmt.Errorf("unable to install: %w", err)
		}
	}
	if err := a.Activate(); err != nil {
		return fmt.Errorf("unable to activate: %w", err)
	}
	defer func() {
		err = multierr.Append(err, a.Deactivate(true))
		if err != nil {
			return
		}
		env.Rpt.StoreData("stylesheet.css", []byte(a.Stylesheet().Text))
		err = prune(env, a.Stylesheet().Locator)
	}()
	return fn(store)
}

func prune(env *state.LocalEnv, keep string) error {
	dir, err := env.ChromeDir()
	if err != nil || dir == nil {
		return err
	}
	if err := dir.Prune(keep); err != nil {
		return fmt.Errorf("unable to prune chrome directory: %w", err)
	}
	return nil
}

// Apply compiles stylesheet from stored options and registers it.
func Apply(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if !env.Cfg.Injector.UsesChromeDir() {
		env.Log.Warn("Chrome directory is not configured, stylesheet is not persisted")
	}
	return withAddon(env, true, func(*options.Store) error {
		return nil
	})
}

// Remove retracts stylesheet and removes all managed sheets from chrome
// directory.
func Remove(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if !env.Cfg.Injector.UsesChromeDir() {
		env.Log.Warn("Chrome directory is not configured, nothing to remove")
		return nil
	}
	a, _, err := env.Addon()
	if err != nil {
		return err
	}
	if err := a.Activate(); err != nil {
		return fmt.Errorf("unable to activate: %w", err)
	}
	if err := a.Deactivate(false); err != nil {
		return fmt.Errorf("unable to deactivate: %w", err)
	}
	if err := a.Uninstall(); err != nil {
		return fmt.Errorf("unable to uninstall: %w", err)
	}
	if err := prune(env, ""); err != nil {
		return err
	}
	env.Log.Info("Stylesheet removed", zap.String("chrome", env.Cfg.Injector.ChromeDir))
	return nil
}

// reloadDelay is how long database has to stay untouched before changes
// are picked up.
var reloadDelay = 150 * time.Millisecond

type reloader interface {
	Path() string
	Reload() error
}

// Watch keeps stylesheet up to date while preferences database is changed
// by other processes. It stops when context is canceled.
func Watch(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	svc, err := env.Preferences()
	if err != nil {
		return err
	}
	db, ok := svc.(reloader)
	if !ok {
		return errors.New("watching requires persistent preferences backend (sqlite)")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create file watcher: %w", err)
	}
	defer watcher.Close()

	// sqlite replaces and appends side files, watch the whole directory
	dbPath, err := filepath.Abs(db.Path())
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		return fmt.Errorf("unable to watch '%s': %w", filepath.Dir(dbPath), err)
	}

	a, _, err := env.Addon()
	if err != nil {
		return err
	}
	if err := a.Activate(); err != nil {
		return fmt.Errorf("unable to activate: %w", err)
	}
	defer func() {
		final := !cmd.Bool("retract")
		err = multierr.Append(err, a.Deactivate(final))
		if err == nil && !final {
			err = prune(env, "")
		}
	}()
	if err := prune(env, a.Stylesheet().Locator); err != nil {
		return err
	}

	// writer's transaction may not be visible yet when first event arrives
	// and following writes are coalesced, reload once database is quiet
	settle := time.NewTimer(reloadDelay)
	settle.Stop()
	defer settle.Stop()

	env.Log.Info("Watching preferences", zap.String("database", dbPath))
	for {
		select {
		case <-ctx.Done():
			env.Log.Info("Watch interrupted")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Clean(ev.Name), dbPath) || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			settle.Reset(reloadDelay)
		case <-settle.C:
			if err := db.Reload(); err != nil {
				env.Log.Error("Unable to reload preferences", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			env.Log.Warn("File watcher error", zap.Error(err))
		}
	}
}
