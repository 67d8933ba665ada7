package stagehand

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrUnknownView indicates a request referenced a view kind that was
	// never registered with the orchestrator. This is a caller error,
	// raised synchronously and never retried.
	ErrUnknownView = errors.New("view kind not registered")

	// ErrResourceMissing indicates a registered kind's resource failed to
	// load. Fatal for the request that triggered it; the orchestrator does
	// not retry automatically.
	ErrResourceMissing = errors.New("view resource failed to load")

	// ErrMissingViewComponent indicates a loaded resource did not provide
	// the expected view capability. The partially-created object is
	// discarded before this error is raised.
	ErrMissingViewComponent = errors.New("loaded resource does not provide a view")

	// ErrInvalidState indicates lifecycle processing was requested for a
	// nil instance or one no longer attached to an orchestrator.
	ErrInvalidState = errors.New("invalid lifecycle state for request")
)

// LifecycleError wraps a sentinel with the orchestrator operation and view
// kind that produced it. All orchestrator methods return errors of this type.
type LifecycleError struct {
	Op   string // Operation that failed (e.g., "switch_location", "create_view")
	Kind Kind   // View kind involved in the failed operation
	Err  error  // Underlying error, usually one of the package sentinels
}

func (e *LifecycleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stagehand: %s: kind %d: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("stagehand: %s: kind %d", e.Op, e.Kind)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

func newLifecycleError(op string, kind Kind, err error) *LifecycleError {
	return &LifecycleError{Op: op, Kind: kind, Err: err}
}

// IsUnknownView checks if an error indicates an unregistered view kind.
func IsUnknownView(err error) bool {
	return errors.Is(err, ErrUnknownView)
}

// IsResourceMissing checks if an error indicates a failed resource load.
func IsResourceMissing(err error) bool {
	return errors.Is(err, ErrResourceMissing)
}

// IsMissingViewComponent checks if an error indicates a resource without the
// view capability.
func IsMissingViewComponent(err error) bool {
	return errors.Is(err, ErrMissingViewComponent)
}
