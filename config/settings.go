package config

import (
	"sbm/common"
)

// UsesChromeDir reports whether stylesheets go to profile chrome directory
// rather than in-memory registry.
func (conf *InjectorConfig) UsesChromeDir() bool {
	return len(conf.ChromeDir) > 0
}

// Persistent reports whether option values survive program exit.
func (conf *PreferencesConfig) Persistent() bool {
	return conf.Backend == common.BackendSqlite
}
