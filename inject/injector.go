package inject

import (
	"fmt"

	"go.uber.org/zap"

	"sbm/common"
)

// Injector applies and retracts stylesheets of a single sheet type. Both
// operations are idempotent.
type Injector struct {
	svc SheetService
	typ common.SheetType
	log *zap.Logger
}

func NewInjector(svc SheetService, typ common.SheetType, log *zap.Logger) *Injector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Injector{svc: svc, typ: typ, log: log.Named("injector")}
}

// SheetType returns type stylesheets are registered with.
func (in *Injector) SheetType() common.SheetType {
	return in.typ
}

// Apply registers stylesheet unless it is already registered.
func (in *Injector) Apply(locator string) error {
	registered, err := in.svc.SheetRegistered(locator, in.typ)
	if err != nil {
		return fmt.Errorf("unable to check stylesheet registration: %w", err)
	}
	if registered {
		in.log.Debug("Stylesheet already registered", zap.Stringer("type", in.typ))
		return nil
	}
	if err := in.svc.LoadAndRegister(locator, in.typ); err != nil {
		return fmt.Errorf("unable to register stylesheet: %w", err)
	}
	in.log.Debug("Stylesheet registered", zap.Stringer("type", in.typ), zap.Int("size", len(locator)))
	return nil
}

// Retract unregisters stylesheet if it is registered.
func (in *Injector) Retract(locator string) error {
	registered, err := in.svc.SheetRegistered(locator, in.typ)
	if err != nil {
		return fmt.Errorf("unable to check stylesheet registration: %w", err)
	}
	if !registered {
		return nil
	}
	if err := in.svc.Unregister(locator, in.typ); err != nil {
		return fmt.Errorf("unable to unregister stylesheet: %w", err)
	}
	in.log.Debug("Stylesheet unregistered", zap.Stringer("type", in.typ))
	return nil
}
