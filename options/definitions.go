// Package options describes the fixed set of bookmarks menu options and
// keeps them in preferences storage.
package options

import (
	"sbm/common"
	"sbm/prefs"
)

// Branch is default preferences root for all options.
const Branch = "extensions.simple-bookmarks-menu."

// Option names.
const (
	BookmarkThisPage     = "bookmark-this-page"
	ViewBookmarksSidebar = "view-bookmarks-sidebar"
	ViewBookmarksToolbar = "view-bookmarks-toolbar"
	SubscribeToThisPage  = "subscribe-to-this-page"
	BookmarksToolbar     = "bookmarks-toolbar"
	UnsortedBookmarks    = "unsorted-bookmarks"
	ShowAllBookmarks     = "show-all-bookmarks"
	KeyboardShortcuts    = "keyboard-shortcuts"
)

// Options is a complete typed snapshot of all option values.
type Options struct {
	BookmarkThisPage     bool
	ViewBookmarksSidebar bool
	ViewBookmarksToolbar bool
	SubscribeToThisPage  bool
	BookmarksToolbar     bool
	UnsortedBookmarks    bool
	ShowAllBookmarks     common.ShowAllMode
	KeyboardShortcuts    bool
}

// Definition describes single option. Boolean options have Default of
// prefs.KindBool, enumerations have prefs.KindInt default and Choices lists
// their permitted states.
type Definition struct {
	Name    string
	Default prefs.Value
	Choices []string
	Usage   string

	assign func(*Options, prefs.Value)
}

// IsEnum reports whether option is an enumeration.
func (d Definition) IsEnum() bool {
	return len(d.Choices) > 0
}

func boolOption(name string, def bool, usage string, field func(*Options) *bool) Definition {
	return Definition{
		Name:    name,
		Default: prefs.BoolValue(def),
		Usage:   usage,
		assign: func(o *Options, v prefs.Value) {
			*field(o) = v.Bool()
		},
	}
}

var definitions = []Definition{
	boolOption(BookmarkThisPage, true, "show \"Bookmark This Page\" item",
		func(o *Options) *bool { return &o.BookmarkThisPage }),
	boolOption(ViewBookmarksSidebar, false, "show \"View Bookmarks Sidebar\" item",
		func(o *Options) *bool { return &o.ViewBookmarksSidebar }),
	boolOption(ViewBookmarksToolbar, false, "show \"View Bookmarks Toolbar\" item",
		func(o *Options) *bool { return &o.ViewBookmarksToolbar }),
	boolOption(SubscribeToThisPage, false, "show \"Subscribe to This Page\" item",
		func(o *Options) *bool { return &o.SubscribeToThisPage }),
	boolOption(BookmarksToolbar, false, "show \"Bookmarks Toolbar\" folder",
		func(o *Options) *bool { return &o.BookmarksToolbar }),
	boolOption(UnsortedBookmarks, false, "show \"Unsorted Bookmarks\" folder",
		func(o *Options) *bool { return &o.UnsortedBookmarks }),
	{
		Name:    ShowAllBookmarks,
		Default: prefs.IntValue(int64(common.ShowAllModeCentered)),
		Choices: common.ShowAllModeNames(),
		Usage:   "presentation of \"Show All Bookmarks\" item",
		assign: func(o *Options, v prefs.Value) {
			o.ShowAllBookmarks = common.ShowAllMode(v.Int())
		},
	},
	boolOption(KeyboardShortcuts, false, "show keyboard shortcuts in bookmarks menu",
		func(o *Options) *bool { return &o.KeyboardShortcuts }),
}

var byName = func() map[string]int {
	m := make(map[string]int, len(definitions))
	for i, d := range definitions {
		m[d.Name] = i
	}
	return m
}()

// Definitions returns all options in their canonical order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup finds option definition by name.
func Lookup(name string) (Definition, bool) {
	i, ok := byName[name]
	if !ok {
		return Definition{}, false
	}
	return definitions[i], true
}

// Defaults returns snapshot with every option at its default value.
func Defaults() Options {
	var o Options
	for _, d := range definitions {
		d.assign(&o, d.Default)
	}
	return o
}
