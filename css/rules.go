package css

import (
	"sbm/common"
	"sbm/options"
)

// rule ties menu elements to the option state which hides them. Selectors
// from all matching rules end up in a single hiding block, blocks are
// emitted as separate top level rules.
type rule struct {
	when   func(o options.Options) bool
	hide   []string
	blocks []string
}

// Order of the table defines order of the selectors in generated sheet.
var rules = []rule{
	{
		when: func(o options.Options) bool { return !o.BookmarkThisPage },
		hide: []string{
			"#panelMenuBookmarkThisPage",
			"#panelMenuBookmarkThisPage + toolbarseparator",
		},
	},
	{
		when: func(o options.Options) bool { return !o.ViewBookmarksSidebar },
		hide: []string{
			"#BMB_viewBookmarksSidebar",
			"#BMB_viewBookmarksSidebar + menuseparator",
			"#panelMenu_viewBookmarksSidebar",
		},
	},
	{
		when: func(o options.Options) bool { return !o.ViewBookmarksToolbar },
		hide: []string{
			"#panelMenu_viewBookmarksToolbar",
		},
	},
	{
		// separator follows both items in the panel
		when: func(o options.Options) bool { return !o.ViewBookmarksSidebar && !o.ViewBookmarksToolbar },
		hide: []string{
			"#panelMenu_viewBookmarksToolbar + toolbarseparator",
		},
	},
	{
		when: func(o options.Options) bool { return !o.SubscribeToThisPage },
		hide: []string{
			"#BMB_subscribeToPageMenuitem",
			"#BMB_subscribeToPageMenupopup",
			":-moz-any(#BMB_subscribeToPageMenuitem, #BMB_subscribeToPageMenupopup) + menuseparator",
		},
	},
	{
		when: func(o options.Options) bool { return !o.BookmarksToolbar },
		hide: []string{
			"#BMB_bookmarksToolbar",
			"#panelMenu_bookmarksToolbar",
		},
	},
	{
		when: func(o options.Options) bool { return !o.UnsortedBookmarks },
		hide: []string{
			"#BMB_unsortedBookmarks",
			"#panelMenu_unsortedBookmarks",
		},
	},
	{
		// separator closes the folders section
		when: func(o options.Options) bool { return !o.BookmarksToolbar && !o.UnsortedBookmarks },
		hide: []string{
			"#BMB_unsortedBookmarks + menuseparator",
			"#panelMenu_unsortedBookmarks + toolbarseparator",
		},
	},
	{
		when: func(o options.Options) bool { return o.ShowAllBookmarks == common.ShowAllModeHidden },
		hide: []string{
			"#BMB_bookmarksShowAll",
			"#panelMenu_showAllBookmarks",
		},
		blocks: []string{
			".cui-widget-panel > .panel-arrowcontainer > .panel-arrowcontent {padding-bottom: 4px !important;}",
		},
	},
	{
		when: func(o options.Options) bool { return o.ShowAllBookmarks == common.ShowAllModeCentered },
		hide: []string{
			"#BMB_bookmarksShowAll .menu-accel-container",
		},
		blocks: []string{
			"#BMB_bookmarksShowAll {text-align: center; -moz-margin-start: -18px !important;}",
		},
	},
	{
		// not part of the upstream add-on, which declared the option but never
		// used it
		when: func(o options.Options) bool { return !o.KeyboardShortcuts },
		hide: []string{
			"#BMB_bookmarksPopup .menu-accel-container",
		},
	},
}
