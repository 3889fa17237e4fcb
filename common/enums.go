// Package common keeps enumerations shared by configuration, options and
// injection code.
package common

// Presentation of "Show All Bookmarks" menu item.
// ENUM(visible, centered, hidden)
type ShowAllMode int

// Visibility class a stylesheet is registered with.
// ENUM(agent, user, author)
type SheetType int

// UsesChrome reports whether sheets of this type end up in userChrome.css.
func (s SheetType) UsesChrome() bool {
	return s == SheetTypeUser || s == SheetTypeAuthor
}

// Preferences storage implementation.
// ENUM(memory, sqlite)
type Backend int
