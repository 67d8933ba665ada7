// Package stagehand manages the presentation lifecycle of application views
// under two display disciplines: a location slot (one active view at a time,
// navigation-style) and an overlay set (multiple concurrent views, shown and
// hidden independently).
//
// The package decouples when a view's backing resource is loaded from when
// the view's visible lifecycle runs, and it serializes transitions so that an
// outgoing view always finishes hiding before the view displacing it is
// created.
//
// # Kinds and descriptors
//
// Every view kind is identified by a typed integer Kind. Applications define
// their own constants using iota:
//
//	const (
//	    ViewHome stagehand.Kind = iota
//	    ViewSettings
//	    ViewToast
//	)
//
// At construction the orchestrator receives one Descriptor per kind, pairing
// the Kind with the locator of its loadable resource. Descriptors can be
// written by hand or loaded from a TOML manifest with LoadManifest.
//
// # Views
//
// A concrete view embeds Base and implements the hooks it cares about:
//
//	type SettingsView struct {
//	    stagehand.Base
//	}
//
//	func (v *SettingsView) OnShowStart(data any) {
//	    go func() {
//	        v.playEntrance()        // arbitrary async presentation work
//	        v.ReportShowComplete()  // state machine resumes here
//	    }()
//	}
//
// A view that does not override OnShowStart or OnHideStart completes the
// corresponding transition synchronously; that is the Base default.
//
// # Locations and overlays
//
// SwitchLocation replaces the single current location. With a current
// location active, the request is queued and the outgoing view's hide
// sequence starts; the incoming view is created only after the outgoing view
// reports hide completion. OpenOverlay creates an independent overlay
// instance, optionally deferred until a named instance (or every open
// overlay) has closed.
//
// # Events
//
// Subscribe registers a listener for the six lifecycle milestones
// (requested, created, show-start, show-complete, hide-start, hide-complete).
// Delivery order matches the causal order of the state machine. Listeners
// must not assume a hook they did not trigger completes synchronously.
//
// # Threading
//
// The orchestrator runs a single-threaded cooperative model: all transitions
// execute on the caller's goroutine, including deferred creations triggered
// by ReportHideComplete. A view performing asynchronous presentation work
// must hand its completion report back to the goroutine that drives the
// orchestrator.
package stagehand
