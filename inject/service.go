// Package inject registers compiled stylesheets with the browser.
package inject

import (
	"errors"

	"sbm/common"
)

var ErrUnsupportedSheetType = errors.New("unsupported sheet type")

// SheetService is the browser facility stylesheets are registered with.
// Sheets are identified by locator and sheet type.
type SheetService interface {
	LoadAndRegister(uri string, typ common.SheetType) error
	SheetRegistered(uri string, typ common.SheetType) (bool, error)
	Unregister(uri string, typ common.SheetType) error
}
