package stagehand

// Kind is a type-safe identifier for view kinds.
// Applications should define their own Kind constants using iota.
//
// Example:
//
//	const (
//	    ViewHome Kind = iota
//	    ViewSettings
//	    ViewToast
//	)
//
// The kind-to-resource table is owned by each Orchestrator instance, so
// independent orchestrators (for example, one per test) can register the
// same constants without sharing state.
type Kind int

// Descriptor pairs a view kind with the locator of its loadable resource.
// Descriptors are produced by authoring tooling or written by hand and are
// consumed once, at orchestrator construction.
type Descriptor struct {
	Kind    Kind   // Registered identity of the view
	Locator string // Passed verbatim to the Loader on first use
}

// DisplayMode selects the discipline a view instance is presented under.
type DisplayMode int

const (
	// ModeLocation presents a view in the single location slot. At most
	// one location view is active orchestrator-wide; switching locations
	// hides the outgoing instance before the incoming one is created.
	ModeLocation DisplayMode = iota

	// ModeOverlay presents a view as one of any number of concurrent
	// overlay instances, including duplicates of the same kind.
	ModeOverlay
)

func (m DisplayMode) String() string {
	switch m {
	case ModeLocation:
		return "location"
	case ModeOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of a single view instance.
type State int32

const (
	// StateCreating is the initial state, from instantiation until the
	// show sequence begins.
	StateCreating State = iota

	// StateShowing means the show hook has started and the instance has
	// not yet reported show completion. An instance may stay here
	// indefinitely; the transition to Active is driven by the view.
	StateShowing

	// StateActive means the instance reported show completion and is
	// fully presented.
	StateActive

	// StateHiding means the hide hook has started and the instance has
	// not yet reported hide completion.
	StateHiding

	// StateDestroyed is terminal. The instance has been removed from
	// orchestrator tracking and its resource reference released.
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreating:
		return "creating"
	case StateShowing:
		return "showing"
	case StateActive:
		return "active"
	case StateHiding:
		return "hiding"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
