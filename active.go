package memlayout

import (
	"fmt"
	"io/fs"
	"sync"

	"go.uber.org/atomic"
)

// Active holds the schema currently in use and replaces it on reload.
// Readers always see either the previous or the new schema in full.
type Active struct {
	fsys fs.FS
	opts LoadOptions

	reloadMu sync.Mutex
	current  *atomic.Pointer[Schema]
}

// NewActive returns a holder that loads from fsys with opts. Nothing is loaded
// until Reload is called.
func NewActive(fsys fs.FS, opts LoadOptions) *Active {
	return &Active{
		fsys:    fsys,
		opts:    opts,
		current: atomic.NewPointer[Schema](nil),
	}
}

// Load returns the active schema, or nil before the first successful reload.
func (a *Active) Load() *Schema {
	return a.current.Load()
}

// Reload re-reads the schema documents and publishes the result. On failure
// the previously active schema stays in place.
func (a *Active) Reload() error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	schema, err := Load(a.fsys, a.opts)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	a.current.Store(schema)
	return nil
}
