package prefs

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS defaults (
	name  TEXT PRIMARY KEY,
	kind  INTEGER NOT NULL,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS user_prefs (
	name  TEXT PRIMARY KEY,
	kind  INTEGER NOT NULL,
	value TEXT NOT NULL
);
`

// SQLite keeps preferences in SQLite database file. Several processes may
// share the same file, Reload picks up changes made by others.
type SQLite struct {
	hub

	mu   sync.Mutex
	conn *sqlite.Conn
	path string
	log  *zap.Logger

	// effective values as of last read or write, used to detect changes
	known map[string]Value
}

// OpenSQLite opens (creating if necessary) preferences database.
func OpenSQLite(path string, log *zap.Logger) (*SQLite, error) {
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("open preferences database '%s': %w", path, err)
	}
	conn.SetBusyTimeout(5 * time.Second)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("prepare preferences schema: %w", err)
	}

	s := &SQLite{conn: conn, path: path, log: log.Named("prefs-sqlite")}
	if s.known, err = s.readAll(); err != nil {
		conn.Close()
		return nil, err
	}
	s.log.Debug("Preferences database opened", zap.String("path", path), zap.Int("keys", len(s.known)))
	return s, nil
}

// Path returns database file name.
func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *SQLite) readTable(table string, into map[string]Value) error {
	return sqlitex.Execute(s.conn, `SELECT name, kind, value FROM `+table+`;`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			name := stmt.ColumnText(0)
			v, err := decodeValue(Kind(stmt.ColumnInt(1)), stmt.ColumnText(2))
			if err != nil {
				return fmt.Errorf("%s.%s: %w", table, name, err)
			}
			into[name] = v
			return nil
		}})
}

// readAll returns effective values of all keys.
func (s *SQLite) readAll() (map[string]Value, error) {
	values := make(map[string]Value)
	if err := s.readTable("defaults", values); err != nil {
		return nil, fmt.Errorf("read default preferences: %w", err)
	}
	// user values override defaults
	if err := s.readTable("user_prefs", values); err != nil {
		return nil, fmt.Errorf("read user preferences: %w", err)
	}
	return values, nil
}

func (s *SQLite) lookup(table, key string) (Value, error) {
	var (
		v   Value
		err error
	)
	qerr := sqlitex.Execute(s.conn, `SELECT kind, value FROM `+table+` WHERE name = ?;`,
		&sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				v, err = decodeValue(Kind(stmt.ColumnInt(0)), stmt.ColumnText(1))
				return err
			}})
	if qerr != nil {
		return Value{}, fmt.Errorf("lookup %s in %s: %w", key, table, qerr)
	}
	return v, nil
}

func (s *SQLite) effective(key string) (Value, error) {
	v, err := s.lookup("user_prefs", key)
	if err != nil || v.IsValid() {
		return v, err
	}
	return s.lookup("defaults", key)
}

// mutate runs fn in a savepoint and notifies observers if effective value of
// key has changed as a result.
func (s *SQLite) mutate(key string, fn func(before Value) error) (err error) {
	s.mu.Lock()
	changed, err := func() (changed bool, err error) {
		defer s.mu.Unlock()
		if s.conn == nil {
			return false, fmt.Errorf("preferences database '%s' is closed", s.path)
		}

		defer sqlitex.Save(s.conn)(&err)

		before, err := s.effective(key)
		if err != nil {
			return false, err
		}
		if err := fn(before); err != nil {
			return false, err
		}
		after, err := s.effective(key)
		if err != nil {
			return false, err
		}
		if after.IsValid() {
			s.known[key] = after
		} else {
			delete(s.known, key)
		}
		return before != after, nil
	}()
	if err != nil {
		return err
	}
	if changed {
		s.notify(key)
	}
	return nil
}

func (s *SQLite) upsert(table, key string, v Value) error {
	return sqlitex.Execute(s.conn,
		`INSERT INTO `+table+` (name, kind, value) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET kind = excluded.kind, value = excluded.value;`,
		&sqlitex.ExecOptions{Args: []any{key, int(v.Kind()), v.encode()}})
}

func (s *SQLite) SetDefault(key string, v Value) error {
	return s.mutate(key, func(before Value) error {
		if err := checkKind(before, v); err != nil {
			return fmt.Errorf("default for %s: %w", key, err)
		}
		return s.upsert("defaults", key, v)
	})
}

func (s *SQLite) Get(key string) (Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return Value{}, fmt.Errorf("preferences database '%s' is closed", s.path)
	}
	v, err := s.effective(key)
	if err != nil {
		return Value{}, err
	}
	if !v.IsValid() {
		return Value{}, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return v, nil
}

func (s *SQLite) HasUserValue(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return false, fmt.Errorf("preferences database '%s' is closed", s.path)
	}
	v, err := s.lookup("user_prefs", key)
	if err != nil {
		return false, err
	}
	return v.IsValid(), nil
}

func (s *SQLite) Set(key string, v Value) error {
	return s.mutate(key, func(before Value) error {
		if err := checkKind(before, v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		def, err := s.lookup("defaults", key)
		if err != nil {
			return err
		}
		if def == v {
			// user value equal to default is not kept
			return sqlitex.Execute(s.conn, `DELETE FROM user_prefs WHERE name = ?;`,
				&sqlitex.ExecOptions{Args: []any{key}})
		}
		return s.upsert("user_prefs", key, v)
	})
}

func (s *SQLite) Clear(key string) error {
	return s.mutate(key, func(Value) error {
		return sqlitex.Execute(s.conn, `DELETE FROM user_prefs WHERE name = ?;`,
			&sqlitex.ExecOptions{Args: []any{key}})
	})
}

func (s *SQLite) Keys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, fmt.Errorf("preferences database '%s' is closed", s.path)
	}
	values, err := s.readAll()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(values))
	for k := range values {
		if strings.HasPrefix(k, prefix) {
			seen[k] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

// Reload re-reads database and notifies observers about every key which
// effective value differs from what this instance has seen last time.
func (s *SQLite) Reload() error {
	s.mu.Lock()
	if s.conn == nil {
		s.mu.Unlock()
		return fmt.Errorf("preferences database '%s' is closed", s.path)
	}
	current, err := s.readAll()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	changed := make(map[string]struct{})
	for k, v := range current {
		if s.known[k] != v {
			changed[k] = struct{}{}
		}
	}
	for k := range s.known {
		if _, ok := current[k]; !ok {
			changed[k] = struct{}{}
		}
	}
	s.known = current
	s.mu.Unlock()

	keys := sortedKeys(changed)
	if len(keys) > 0 {
		s.log.Debug("Preferences changed on disk", zap.Strings("keys", keys))
		s.notify(keys...)
	}
	return nil
}
