package stagehand

import (
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// View is the capability every presentable view implements. Concrete views
// obtain it by embedding Base, which also supplies the default hook behavior:
// show and hide complete synchronously unless the view overrides the
// corresponding hook.
//
// A view that overrides OnShowStart must eventually call ReportShowComplete,
// and one that overrides OnHideStart must eventually call ReportHideComplete.
// Until the report arrives the instance stays in StateShowing or StateHiding
// and any queued request for its slot stays pending.
type View interface {
	// OnCreate runs once, after the view is attached to its container and
	// before any show work.
	OnCreate()

	// OnShowStart begins the view's entrance presentation. data is the
	// payload passed to SwitchLocation or OpenOverlay.
	OnShowStart(data any)

	// OnHideStart begins the view's exit presentation.
	OnHideStart()

	lifecycle() *Base
}

// Placer may be implemented by a view to override the default container
// positioning rule (location views leading, overlay views trailing).
type Placer interface {
	// PlaceFront reports whether the view should be attached at the
	// leading position of the container.
	PlaceFront() bool
}

// Base carries the lifecycle state machine for a single view instance.
// Concrete views embed it (by value) and the orchestrator drives it through
// its states: Creating, Showing, Active, Hiding, Destroyed.
type Base struct {
	id    uuid.UUID
	kind  Kind
	mode  DisplayMode
	state atomic.Int32

	// orch and self are set on creation and cleared on destroy. self is
	// the concrete view, needed so completion reports reach the
	// orchestrator with the full instance rather than the embedded Base.
	orch *Orchestrator
	self View
}

func (b *Base) lifecycle() *Base { return b }

func (b *Base) init(o *Orchestrator, self View, kind Kind, mode DisplayMode) {
	b.id = uuid.New()
	b.kind = kind
	b.mode = mode
	b.orch = o
	b.self = self
	b.state.Store(int32(StateCreating))
}

// ID returns the instance identity. Overlays are identified by instance,
// not by kind: two open overlays of the same kind have distinct IDs.
func (b *Base) ID() uuid.UUID { return b.id }

// Kind returns the view kind this instance was created as.
func (b *Base) Kind() Kind { return b.kind }

// Mode returns the display discipline the instance is presented under.
func (b *Base) Mode() DisplayMode { return b.mode }

// State returns the current lifecycle state. Safe to read from any
// goroutine.
func (b *Base) State() State { return State(b.state.Load()) }

func (b *Base) setState(s State) { b.state.Store(int32(s)) }

// OnCreate is the default create hook. It does nothing.
func (b *Base) OnCreate() {}

// OnShowStart is the default show hook: it reports completion immediately,
// so a view with no entrance presentation becomes Active synchronously.
func (b *Base) OnShowStart(data any) {
	b.ReportShowComplete()
}

// OnHideStart is the default hide hook: it reports completion immediately,
// so a view with no exit presentation is torn down synchronously.
func (b *Base) OnHideStart() {
	b.ReportHideComplete()
}

// ReportShowComplete signals that the view's entrance presentation has
// finished. Called by the view itself, possibly long after OnShowStart
// returned. A report from any state other than Showing is ignored.
func (b *Base) ReportShowComplete() {
	if b.orch == nil || b.self == nil {
		return
	}
	b.orch.finishShow(b.self)
}

// ReportHideComplete signals that the view's exit presentation has finished.
// The orchestrator removes the instance from tracking, releases its resource
// reference, destroys it, and promotes any pending request for its slot.
// A report from any state other than Hiding is ignored.
func (b *Base) ReportHideComplete() {
	if b.orch == nil || b.self == nil {
		return
	}
	b.orch.finishHide(b.self)
}

func (b *Base) destroy() {
	b.setState(StateDestroyed)
	b.orch = nil
	b.self = nil
}
