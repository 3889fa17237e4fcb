package css_test

import (
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"sbm/common"
	"sbm/css"
	"sbm/options"
)

func TestInspect_CompiledSheet(t *testing.T) {
	o := options.Defaults()
	o.BookmarkThisPage = false
	o.ShowAllBookmarks = common.ShowAllModeHidden

	sheet := css.NewCompiler().Compile(o)
	sum, err := css.NewInspector(zaptest.NewLogger(t)).Inspect(sheet.Text)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	if sum.Namespace != "http://www.mozilla.org/keymaster/gatekeeper/there.is.only.xul" {
		t.Errorf("Namespace = %q", sum.Namespace)
	}
	if sum.Document != css.DefaultDocument {
		t.Errorf("Document = %q", sum.Document)
	}

	for _, sel := range []string{
		"#panelMenuBookmarkThisPage",
		"#panelMenuBookmarkThisPage + toolbarseparator",
		":-moz-any(#BMB_subscribeToPageMenuitem, #BMB_subscribeToPageMenupopup) + menuseparator",
		"#BMB_bookmarksShowAll",
		"#panelMenu_showAllBookmarks",
		"#BMB_bookmarksPopup .menu-accel-container",
	} {
		if !sum.IsHidden(sel) {
			t.Errorf("selector %q is not hidden, hidden: %v", sel, sum.Hidden)
		}
	}
	if sum.IsHidden("#BMB_bookmarksShowAll .menu-accel-container") {
		t.Error("accelerator of show all item must not be hidden in this mode")
	}

	r, ok := sum.FindRule(".cui-widget-panel > .panel-arrowcontainer > .panel-arrowcontent")
	if !ok {
		t.Fatalf("padding rule not found, rules: %v", sum.Other)
	}
	if r.Declarations["padding-bottom"] != "4px !important" {
		t.Errorf("padding-bottom = %q", r.Declarations["padding-bottom"])
	}
}

func TestInspect_CenteredRule(t *testing.T) {
	sum, err := css.NewInspector(nil).Inspect(css.NewCompiler().Compile(options.Defaults()).Text)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	r, ok := sum.FindRule("#BMB_bookmarksShowAll")
	if !ok {
		t.Fatal("centering rule not found")
	}
	if r.Declarations["text-align"] != "center" {
		t.Errorf("text-align = %q", r.Declarations["text-align"])
	}
	if r.Declarations["-moz-margin-start"] != "-18px !important" {
		t.Errorf("-moz-margin-start = %q", r.Declarations["-moz-margin-start"])
	}
}

func TestInspect_HiddenMatchesRuleCount(t *testing.T) {
	o := options.Options{ShowAllBookmarks: common.ShowAllModeHidden}
	sum, err := css.NewInspector(zaptest.NewLogger(t)).Inspect(css.NewCompiler().Compile(o).Text)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	// all boolean options off: every hide selector of the table except the
	// centered show all one
	if len(sum.Hidden) != 19 {
		t.Errorf("hidden selectors = %d, want 19: %v", len(sum.Hidden), sum.Hidden)
	}
	if slices.Contains(sum.Hidden, "") {
		t.Error("empty selector reported")
	}
}

func TestSelectorKey(t *testing.T) {
	if css.SelectorKey("#a  +\tb") != css.SelectorKey("#a+b") {
		t.Error("SelectorKey must ignore whitespace")
	}
}
