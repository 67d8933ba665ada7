package stagehand_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stagecraft/stagehand/pkg/stagehand"
)

// View kinds used across the orchestrator tests.
const (
	kindHome stagehand.Kind = iota
	kindSettings
	kindToast
	kindDialog
	kindGhost // registered, but its resource is never present
)

const kindUnregistered stagehand.Kind = 99

// probeView counts hook invocations and optionally withholds its completion
// reports so tests can drive the asynchronous paths by hand.
type probeView struct {
	stagehand.Base

	asyncShow bool
	asyncHide bool

	creates    int
	showStarts int
	hideStarts int
	lastData   any
}

func (v *probeView) OnCreate() { v.creates++ }

func (v *probeView) OnShowStart(data any) {
	v.showStarts++
	v.lastData = data
	if !v.asyncShow {
		v.ReportShowComplete()
	}
}

func (v *probeView) OnHideStart() {
	v.hideStarts++
	if !v.asyncHide {
		v.ReportHideComplete()
	}
}

// mapLoader serves handles from a fixed table and counts external load and
// release calls, so tests can assert the no-redundant-loads contract.
type mapLoader struct {
	resources map[string]any
	loads     int
	releases  int
}

func (l *mapLoader) Load(locator string) (any, error) {
	h, ok := l.resources[locator]
	if !ok {
		return nil, nil
	}
	l.loads++
	return h, nil
}

func (l *mapLoader) Release(handle any) { l.releases++ }

// recordingContainer tracks attach order for the positioning-rule tests.
type recordingContainer struct {
	attached []stagehand.View
	detaches int
}

func (c *recordingContainer) Attach(v stagehand.View, front bool) {
	if front {
		c.attached = append([]stagehand.View{v}, c.attached...)
		return
	}
	c.attached = append(c.attached, v)
}

func (c *recordingContainer) Detach(v stagehand.View) {
	c.detaches++
	for i, a := range c.attached {
		if a == v {
			c.attached = append(c.attached[:i], c.attached[i+1:]...)
			return
		}
	}
}

// harness wires an orchestrator to probe views and records every milestone
// as "milestone(kind)" strings for readable order assertions.
type harness struct {
	orch   *harnessOrch
	loader *mapLoader
}

type harnessOrch struct {
	*stagehand.Orchestrator
	events []string
	views  []*probeView
}

type harnessOptions struct {
	asyncShow map[stagehand.Kind]bool
	asyncHide map[stagehand.Kind]bool
	container stagehand.Container
	start     *stagehand.Kind
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	loader := &mapLoader{resources: map[string]any{
		"views/home.asset":     "home-resource",
		"views/settings.asset": "settings-resource",
		"views/toast.asset":    "toast-resource",
		"views/dialog.asset":   "dialog-resource",
	}}

	ho := &harnessOrch{}

	factory := stagehand.FactoryFunc(func(kind stagehand.Kind, handle any) any {
		v := &probeView{
			asyncShow: opts.asyncShow[kind],
			asyncHide: opts.asyncHide[kind],
		}
		ho.views = append(ho.views, v)
		return v
	})

	orch, err := stagehand.New(stagehand.Options{
		Views: []stagehand.Descriptor{
			{Kind: kindHome, Locator: "views/home.asset"},
			{Kind: kindSettings, Locator: "views/settings.asset"},
			{Kind: kindToast, Locator: "views/toast.asset"},
			{Kind: kindDialog, Locator: "views/dialog.asset"},
			{Kind: kindGhost, Locator: "views/ghost.asset"},
		},
		Loader:    loader,
		Factory:   factory,
		Container: opts.container,
		Start:     opts.start,
	})
	require.NoError(t, err)

	ho.Orchestrator = orch
	orch.Subscribe(func(ev stagehand.Event) {
		ho.events = append(ho.events, fmt.Sprintf("%s(%d)", ev.Milestone, ev.Kind))
	})

	return &harness{orch: ho, loader: loader}
}

func (h *harness) drainEvents() []string {
	out := h.orch.events
	h.orch.events = nil
	return out
}

// lastView returns the most recently instantiated probe view.
func (h *harness) lastView(t *testing.T) *probeView {
	t.Helper()
	require.NotEmpty(t, h.orch.views)
	return h.orch.views[len(h.orch.views)-1]
}
