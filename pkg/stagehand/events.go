package stagehand

import "sort"

// Milestone names one of the six lifecycle notifications the orchestrator
// broadcasts. Delivery order matches the causal order of the state machine.
type Milestone int

const (
	// MilestoneRequested fires when a location or overlay request is
	// accepted, before any loading or creation work.
	MilestoneRequested Milestone = iota

	// MilestoneCreated fires after the instance's create hook has run.
	MilestoneCreated

	// MilestoneShowStart fires when the instance's show hook begins.
	MilestoneShowStart

	// MilestoneShowComplete fires when the instance reports that its
	// entrance presentation finished.
	MilestoneShowComplete

	// MilestoneHideStart fires when the instance's hide hook begins.
	MilestoneHideStart

	// MilestoneHideComplete fires after the instance has been removed
	// from tracking and destroyed.
	MilestoneHideComplete
)

func (m Milestone) String() string {
	switch m {
	case MilestoneRequested:
		return "requested"
	case MilestoneCreated:
		return "created"
	case MilestoneShowStart:
		return "show_start"
	case MilestoneShowComplete:
		return "show_complete"
	case MilestoneHideStart:
		return "hide_start"
	case MilestoneHideComplete:
		return "hide_complete"
	default:
		return "unknown"
	}
}

// Event is the payload delivered to subscribers for each milestone.
type Event struct {
	Milestone Milestone
	Kind      Kind
	Mode      DisplayMode

	// Instance is the live view the milestone concerns. Nil when no live
	// instance exists: MilestoneRequested (nothing created yet) and
	// MilestoneHideComplete once the instance has been destroyed.
	Instance View

	// Source identifies the orchestrator that emitted the event, for
	// subscribers shared across orchestrators.
	Source *Orchestrator
}

// Subscribe registers fn for every future milestone. The returned function
// removes the subscription. Subscribers run synchronously on the
// orchestrator's thread of control, in registration order; they must not
// assume any hook they did not themselves trigger has completed.
func (o *Orchestrator) Subscribe(fn func(Event)) (cancel func()) {
	o.subSeq++
	id := o.subSeq
	o.subs[id] = fn
	return func() {
		delete(o.subs, id)
	}
}

func (o *Orchestrator) emit(m Milestone, kind Kind, mode DisplayMode, inst View) {
	o.log.Debug("lifecycle milestone",
		"milestone", m.String(), "kind", kind, "mode", mode.String())

	ev := Event{Milestone: m, Kind: kind, Mode: mode, Instance: inst, Source: o}
	for _, id := range o.subOrder() {
		if fn, ok := o.subs[id]; ok {
			fn(ev)
		}
	}
}

// subOrder returns subscriber ids in registration order. Subscription ids
// are monotonic, so sorting them reproduces registration order even after
// removals.
func (o *Orchestrator) subOrder() []int {
	ids := make([]int, 0, len(o.subs))
	for id := range o.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
