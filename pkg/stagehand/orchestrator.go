package stagehand

import (
	"fmt"
	"log/slog"

	"github.com/stagecraft/stagehand/pkg/stagehand/internal"
)

// Factory instantiates a view object from a loaded resource handle. The
// returned object must implement View (by embedding Base); anything else is
// discarded and the requesting operation fails with ErrMissingViewComponent.
type Factory interface {
	Instantiate(kind Kind, handle any) any
}

// FactoryFunc adapts a plain function to the Factory interface.
type FactoryFunc func(kind Kind, handle any) any

func (f FactoryFunc) Instantiate(kind Kind, handle any) any { return f(kind, handle) }

// Container is the optional attach target for created views, typically a
// scene-graph or widget-tree node. front selects the leading position;
// location views attach leading and overlay views trailing unless the view
// overrides the rule via Placer.
type Container interface {
	Attach(v View, front bool)
	Detach(v View)
}

// Options configures an Orchestrator.
type Options struct {
	Views     []Descriptor // One entry per view kind the orchestrator may present (required)
	Loader    Loader       // Resource loading capability (required)
	Factory   Factory      // Instantiates view objects from loaded handles (required)
	Container Container    // Attach target for created views (optional)
	Start     *Kind        // Starting location, shown during New (optional)
	StartData any          // Payload passed to the starting location's show hook
	Logger    *slog.Logger // Defaults to the package's internal logger
}

type pendingRequest struct {
	kind Kind
	data any
}

// Orchestrator owns the location slot and the overlay set, creates and
// destroys view instances, and enforces the transition-ordering rule: a
// queued request is never created until its predecessor's hide-complete
// report has arrived.
//
// All methods, including the completion reports views deliver through Base,
// must run on a single goroutine. See the package documentation.
type Orchestrator struct {
	registry  *registry
	factory   Factory
	container Container
	log       *slog.Logger

	current  View
	target   *pendingRequest
	lastKind Kind
	hasLast  bool

	overlays      []View
	overlayTarget *pendingRequest

	subs   map[int]func(Event)
	subSeq int
}

// New creates an orchestrator with the given configuration. When
// opts.Start is set, the starting location is created and shown before New
// returns; a failure there is returned and leaves the orchestrator usable.
func New(opts Options) (*Orchestrator, error) {
	if opts.Loader == nil {
		return nil, fmt.Errorf("stagehand: no loader configured")
	}
	if opts.Factory == nil {
		return nil, fmt.Errorf("stagehand: no factory configured")
	}

	log := opts.Logger
	if log == nil {
		log = internal.GetInternalLogger()
	}

	o := &Orchestrator{
		registry:  newRegistry(opts.Loader, opts.Views, log),
		factory:   opts.Factory,
		container: opts.Container,
		log:       log,
		subs:      make(map[int]func(Event)),
	}

	if opts.Start != nil {
		if err := o.SwitchLocation(*opts.Start, opts.StartData, false); err != nil {
			return o, err
		}
	}
	return o, nil
}

// SwitchLocation replaces the current location with a new instance of kind,
// passing data to its show hook.
//
// With no current location the new instance is created and shown at once.
// Otherwise the request is queued and the current location's hide sequence
// starts; creation is deferred until the outgoing instance reports hide
// completion. Only one location request may be pending: a second call while
// one is queued silently overwrites the earlier request.
//
// With immediate set, the current location is torn down without waiting for
// its hide-complete report and the new instance is created in its place.
// Intended for forced, instant transitions only.
func (o *Orchestrator) SwitchLocation(kind Kind, data any, immediate bool) error {
	if _, ok := o.registry.record(kind); !ok {
		return newLifecycleError("switch_location", kind, ErrUnknownView)
	}
	o.emit(MilestoneRequested, kind, ModeLocation, nil)

	if o.current == nil {
		_, err := o.createView(kind, ModeLocation, data)
		return err
	}

	if immediate {
		o.target = nil
		o.forceHide(o.current)
		_, err := o.createView(kind, ModeLocation, data)
		return err
	}

	o.target = &pendingRequest{kind: kind, data: data}
	o.beginHide(o.current)
	return nil
}

// OverlayWait expresses the optional precondition of an OpenOverlay request.
// The zero value means "open immediately".
type OverlayWait struct {
	Instance View // Close this instance first, if it is currently open
	All      bool // Close every open overlay first
}

// OpenOverlay creates a new overlay instance of kind, passing data to its
// show hook. Duplicate kinds are permitted; overlays are identified by
// instance.
//
// When wait names an instance that is currently open, or requests All while
// overlays are open, the request is queued and the matching instances begin
// hiding; creation is deferred until one of them reports hide completion.
// Only one overlay request may be pending; a second call while one is queued
// silently overwrites the earlier request.
func (o *Orchestrator) OpenOverlay(kind Kind, data any, wait OverlayWait) error {
	if _, ok := o.registry.record(kind); !ok {
		return newLifecycleError("open_overlay", kind, ErrUnknownView)
	}
	o.emit(MilestoneRequested, kind, ModeOverlay, nil)

	if wait.Instance != nil && o.overlayIndex(wait.Instance) >= 0 {
		o.overlayTarget = &pendingRequest{kind: kind, data: data}
		o.beginHide(wait.Instance)
		return nil
	}

	if wait.All && len(o.overlays) > 0 {
		o.overlayTarget = &pendingRequest{kind: kind, data: data}
		for _, ov := range o.snapshotOverlays() {
			o.beginHide(ov)
		}
		return nil
	}

	_, err := o.createView(kind, ModeOverlay, data)
	return err
}

// CloseOverlay begins the hide sequence of every open overlay instance of
// kind. A no-op when none are open. Each matching instance runs its hide
// sequence independently; there is no combined completion barrier.
func (o *Orchestrator) CloseOverlay(kind Kind) {
	for _, ov := range o.snapshotOverlays() {
		if ov.lifecycle().Kind() == kind {
			o.beginHide(ov)
		}
	}
}

// CloseOverlayInstance begins the hide sequence of a single overlay
// instance. A no-op when the instance is not currently open.
func (o *Orchestrator) CloseOverlayInstance(inst View) error {
	if inst == nil {
		return newLifecycleError("close_overlay", 0, ErrInvalidState)
	}
	if o.overlayIndex(inst) >= 0 {
		o.beginHide(inst)
	}
	return nil
}

// CloseAllOverlays begins the hide sequence of every open overlay instance.
func (o *Orchestrator) CloseAllOverlays() {
	for _, ov := range o.snapshotOverlays() {
		o.beginHide(ov)
	}
}

// CurrentLocation returns the live location instance, or nil when none is
// active.
func (o *Orchestrator) CurrentLocation() View { return o.current }

// CurrentKind returns the kind of the current location.
func (o *Orchestrator) CurrentKind() (Kind, bool) {
	if o.current == nil {
		return 0, false
	}
	return o.current.lifecycle().Kind(), true
}

// LastKind returns the kind of the most recently departed location.
// Diagnostic only; it is never consulted by the orchestrator itself.
func (o *Orchestrator) LastKind() (Kind, bool) {
	return o.lastKind, o.hasLast
}

// Overlays returns a copy of the currently open overlay instances.
func (o *Orchestrator) Overlays() []View { return o.snapshotOverlays() }

// OverlayCount returns the number of currently open overlay instances.
func (o *Orchestrator) OverlayCount() int { return len(o.overlays) }

// IsOverlayOpen reports whether at least one overlay instance of kind is
// currently open.
func (o *Orchestrator) IsOverlayOpen(kind Kind) bool {
	for _, ov := range o.overlays {
		if ov.lifecycle().Kind() == kind {
			return true
		}
	}
	return false
}

// IsResourceLoaded reports whether kind's resource is cached with a live
// reference.
func (o *Orchestrator) IsResourceLoaded(kind Kind) bool {
	rec, ok := o.registry.record(kind)
	return ok && o.registry.isLoaded(rec)
}

// UnloadAll force-evicts every cached resource handle, regardless of
// reference count. Live instances keep working with the handles they
// already hold; the next load of each kind performs a fresh external load.
func (o *Orchestrator) UnloadAll() {
	o.registry.unloadAll()
}

// Shutdown tears down every live instance without waiting for hide-complete
// reports, drops pending requests, force-unloads the registry, and removes
// all subscribers. The orchestrator must not be used afterwards.
func (o *Orchestrator) Shutdown() {
	o.target = nil
	o.overlayTarget = nil

	for _, ov := range o.snapshotOverlays() {
		o.forceHide(ov)
	}
	if o.current != nil {
		o.forceHide(o.current)
	}

	o.registry.unloadAll()
	o.subs = make(map[int]func(Event))
	o.log.Debug("orchestrator shut down")
}

// createView loads kind's resource, instantiates the view, attaches it,
// runs its create hook, registers it in the tracking collection for mode,
// and begins its show sequence. Any failure leaves previously consumed
// pending-request slots cleared; the caller must re-request.
func (o *Orchestrator) createView(kind Kind, mode DisplayMode, data any) (View, error) {
	rec, ok := o.registry.record(kind)
	if !ok {
		return nil, newLifecycleError("create_view", kind, ErrUnknownView)
	}

	handle, err := o.registry.load(rec)
	if err != nil {
		return nil, newLifecycleError("create_view", kind, err)
	}

	obj := o.factory.Instantiate(kind, handle)
	v, ok := obj.(View)
	if !ok || v == nil {
		o.registry.unload(rec, false)
		return nil, newLifecycleError("create_view", kind, ErrMissingViewComponent)
	}

	b := v.lifecycle()
	b.init(o, v, kind, mode)

	if o.container != nil {
		front := mode == ModeLocation
		if p, ok := v.(Placer); ok {
			front = p.PlaceFront()
		}
		o.container.Attach(v, front)
	}

	v.OnCreate()

	// Tracking starts the moment the create hook completes: the instance
	// belongs to exactly one collection until its hide-complete arrives.
	if mode == ModeLocation {
		o.current = v
	} else {
		o.overlays = append(o.overlays, v)
	}

	o.emit(MilestoneCreated, kind, mode, v)
	o.beginShow(v, data)
	return v, nil
}

func (o *Orchestrator) beginShow(v View, data any) {
	b := v.lifecycle()

	// Re-show without an intervening destroy: synthesize a hide-complete
	// for the interrupted presentation before re-entering Showing. The
	// instance keeps its slot and its resource reference.
	if s := b.State(); s == StateShowing || s == StateActive {
		o.emit(MilestoneHideComplete, b.Kind(), b.Mode(), v)
	}

	b.setState(StateShowing)
	o.emit(MilestoneShowStart, b.Kind(), b.Mode(), v)
	v.OnShowStart(data)
}

// finishShow handles a view's show-complete report. Only the
// Showing -> Active edge emits the show-complete milestone.
func (o *Orchestrator) finishShow(v View) {
	b := v.lifecycle()
	if b.State() != StateShowing {
		return
	}
	b.setState(StateActive)
	o.emit(MilestoneShowComplete, b.Kind(), b.Mode(), v)
}

// beginHide starts a view's hide sequence. Idempotent: a hide request for
// an instance that is neither Active nor Showing does nothing.
func (o *Orchestrator) beginHide(v View) {
	b := v.lifecycle()
	if s := b.State(); s != StateActive && s != StateShowing {
		return
	}
	b.setState(StateHiding)
	o.emit(MilestoneHideStart, b.Kind(), b.Mode(), v)
	v.OnHideStart()
}

// finishHide handles a view's hide-complete report: the instance leaves its
// tracking collection, releases one resource reference, and is destroyed.
// If a pending request for the instance's slot exists, it is consumed and
// its creation starts here.
func (o *Orchestrator) finishHide(v View) {
	b := v.lifecycle()
	if b.State() != StateHiding {
		return
	}
	kind, mode := b.Kind(), b.Mode()

	switch mode {
	case ModeOverlay:
		if i := o.overlayIndex(v); i >= 0 {
			o.overlays = append(o.overlays[:i], o.overlays[i+1:]...)
		}
		o.release(kind)
		o.destroyInstance(v)
		o.emit(MilestoneHideComplete, kind, mode, nil)

		if o.overlayTarget != nil {
			req := *o.overlayTarget
			o.overlayTarget = nil
			if _, err := o.createView(req.kind, ModeOverlay, req.data); err != nil {
				o.log.Error("deferred overlay creation failed",
					"kind", req.kind, "error", err)
			}
		}

	case ModeLocation:
		wasCurrent := o.current == v
		if wasCurrent {
			o.current = nil
			o.lastKind = kind
			o.hasLast = true
		}
		o.release(kind)
		o.destroyInstance(v)
		o.emit(MilestoneHideComplete, kind, mode, nil)

		if wasCurrent && o.target != nil {
			req := *o.target
			o.target = nil
			if _, err := o.createView(req.kind, ModeLocation, req.data); err != nil {
				o.log.Error("deferred location creation failed",
					"kind", req.kind, "error", err)
			}
		}
	}
}

// forceHide runs a full hide sequence without waiting for the instance's
// hide-complete report. Used by immediate location switches and Shutdown.
func (o *Orchestrator) forceHide(v View) {
	o.beginHide(v)
	if v.lifecycle().State() == StateHiding {
		o.finishHide(v)
	}
}

func (o *Orchestrator) release(kind Kind) {
	if rec, ok := o.registry.record(kind); ok {
		o.registry.unload(rec, false)
	}
}

func (o *Orchestrator) destroyInstance(v View) {
	if o.container != nil {
		o.container.Detach(v)
	}
	v.lifecycle().destroy()
}

func (o *Orchestrator) overlayIndex(v View) int {
	for i, ov := range o.overlays {
		if ov == v {
			return i
		}
	}
	return -1
}

func (o *Orchestrator) snapshotOverlays() []View {
	out := make([]View, len(o.overlays))
	copy(out, o.overlays)
	return out
}
