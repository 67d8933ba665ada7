package stagehand

import (
	"log/slog"

	"go.uber.org/atomic"
)

// Loader is the external resource-loading capability. The orchestrator calls
// Load at most once per locator while the resource stays referenced; repeated
// loads of an already-cached locator are served from the registry without
// touching the Loader.
//
// Load returns the handle for the resource at locator, or nil when the
// resource does not exist. A nil handle (or a non-nil error) surfaces to the
// requesting caller as ErrResourceMissing.
type Loader interface {
	Load(locator string) (any, error)
}

// Releaser may be implemented by a Loader that needs to reclaim handles.
// Release is called once when a record's reference count reaches zero.
type Releaser interface {
	Release(handle any)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc func(locator string) (any, error)

func (f LoaderFunc) Load(locator string) (any, error) { return f(locator) }

// assetRecord tracks one view kind's loadable resource: its locator, the
// cached handle, and the number of live users of that handle.
//
// Invariant: handle != nil exactly when refs > 0.
type assetRecord struct {
	kind    Kind
	locator string
	refs    atomic.Int32
	handle  any
}

// registry owns the asset records for one orchestrator. All mutation happens
// on the orchestrator's thread of control.
type registry struct {
	loader  Loader
	records map[Kind]*assetRecord
	log     *slog.Logger
}

func newRegistry(loader Loader, views []Descriptor, log *slog.Logger) *registry {
	r := &registry{
		loader:  loader,
		records: make(map[Kind]*assetRecord, len(views)),
		log:     log,
	}
	for _, d := range views {
		r.records[d.Kind] = &assetRecord{kind: d.Kind, locator: d.Locator}
	}
	return r
}

func (r *registry) record(kind Kind) (*assetRecord, bool) {
	rec, ok := r.records[kind]
	return rec, ok
}

// load returns the handle for kind, performing the external load only on a
// cache miss. Every successful call adds one reference.
func (r *registry) load(rec *assetRecord) (any, error) {
	if rec.handle != nil {
		rec.refs.Inc()
		return rec.handle, nil
	}

	handle, err := r.loader.Load(rec.locator)
	if err != nil || handle == nil {
		r.log.Error("resource load failed",
			"kind", rec.kind, "locator", rec.locator, "error", err)
		return nil, ErrResourceMissing
	}

	rec.handle = handle
	rec.refs.Store(1)
	r.log.Debug("resource loaded", "kind", rec.kind, "locator", rec.locator)
	return handle, nil
}

// unload drops one reference, or all of them when force is set. When the
// count reaches zero the cached handle is released and cleared, so the next
// load performs a fresh external load. A no-op at zero.
func (r *registry) unload(rec *assetRecord, force bool) {
	if rec.refs.Load() == 0 {
		return
	}

	if force {
		rec.refs.Store(0)
	} else if rec.refs.Dec() > 0 {
		return
	}

	if rel, ok := r.loader.(Releaser); ok {
		rel.Release(rec.handle)
	}
	rec.handle = nil
	r.log.Debug("resource evicted", "kind", rec.kind, "locator", rec.locator)
}

func (r *registry) isLoaded(rec *assetRecord) bool {
	return rec.handle != nil && rec.refs.Load() > 0
}

// unloadAll force-unloads every record, regardless of reference count.
func (r *registry) unloadAll() {
	for _, rec := range r.records {
		r.unload(rec, true)
	}
}
