package inject

import (
	"slices"
	"sync"

	"sbm/common"
)

// Registry is in-process SheetService. It does not load anything and only
// remembers registrations.
type Registry struct {
	mu     sync.Mutex
	sheets map[common.SheetType]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{sheets: make(map[common.SheetType]map[string]struct{})}
}

func (r *Registry) LoadAndRegister(uri string, typ common.SheetType) error {
	if !typ.IsValid() {
		return ErrUnsupportedSheetType
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sheets[typ]
	if !ok {
		set = make(map[string]struct{})
		r.sheets[typ] = set
	}
	set[uri] = struct{}{}
	return nil
}

func (r *Registry) SheetRegistered(uri string, typ common.SheetType) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sheets[typ][uri]
	return ok, nil
}

func (r *Registry) Unregister(uri string, typ common.SheetType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sheets[typ], uri)
	return nil
}

// Sheets lists registered locators of given type in sorted order.
func (r *Registry) Sheets(typ common.SheetType) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.sheets[typ]))
	for uri := range r.sheets[typ] {
		out = append(out, uri)
	}
	slices.Sort(out)
	return out
}
