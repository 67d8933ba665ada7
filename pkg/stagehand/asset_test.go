package stagehand

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stagecraft/stagehand/pkg/stagehand/internal"
)

type countingLoader struct {
	resources map[string]any
	loads     int
	releases  int
	failWith  error
}

func (l *countingLoader) Load(locator string) (any, error) {
	if l.failWith != nil {
		return nil, l.failWith
	}
	h, ok := l.resources[locator]
	if !ok {
		return nil, nil
	}
	l.loads++
	return h, nil
}

func (l *countingLoader) Release(handle any) { l.releases++ }

// checkRecordInvariant asserts handle presence tracks the reference count.
func checkRecordInvariant(t *testing.T, rec *assetRecord) {
	t.Helper()
	require.Equal(t, rec.handle != nil, rec.refs.Load() > 0,
		"cached handle must be present exactly when refs > 0")
}

func newTestRegistry(loader Loader) *registry {
	return newRegistry(loader, []Descriptor{
		{Kind: 0, Locator: "a"},
		{Kind: 1, Locator: "b"},
	}, internal.GetInternalLogger())
}

func TestRegistryLoadUnloadRoundTrip(t *testing.T) {
	t.Parallel()
	loader := &countingLoader{resources: map[string]any{"a": "res-a", "b": "res-b"}}
	r := newTestRegistry(loader)

	rec, ok := r.record(0)
	require.True(t, ok)
	checkRecordInvariant(t, rec)

	h, err := r.load(rec)
	require.NoError(t, err)
	require.Equal(t, "res-a", h)
	require.EqualValues(t, 1, rec.refs.Load())
	checkRecordInvariant(t, rec)

	r.unload(rec, false)
	require.EqualValues(t, 0, rec.refs.Load())
	require.Nil(t, rec.handle)
	require.False(t, r.isLoaded(rec))
	checkRecordInvariant(t, rec)
}

func TestRegistrySharedReferences(t *testing.T) {
	t.Parallel()
	loader := &countingLoader{resources: map[string]any{"a": "res-a"}}
	r := newTestRegistry(loader)
	rec, _ := r.record(0)

	h1, err := r.load(rec)
	require.NoError(t, err)
	h2, err := r.load(rec)
	require.NoError(t, err)

	// Second load is served from cache: same handle, one physical load.
	require.Equal(t, h1, h2)
	require.Equal(t, 1, loader.loads)
	require.EqualValues(t, 2, rec.refs.Load())
	checkRecordInvariant(t, rec)

	r.unload(rec, false)
	require.True(t, r.isLoaded(rec))
	checkRecordInvariant(t, rec)

	r.unload(rec, false)
	require.False(t, r.isLoaded(rec))
	require.Equal(t, 1, loader.releases)
	checkRecordInvariant(t, rec)

	// Post-eviction load performs a fresh external load.
	_, err = r.load(rec)
	require.NoError(t, err)
	require.Equal(t, 2, loader.loads)
}

func TestRegistryUnloadAtZeroIsNoop(t *testing.T) {
	t.Parallel()
	loader := &countingLoader{resources: map[string]any{"a": "res-a"}}
	r := newTestRegistry(loader)
	rec, _ := r.record(0)

	r.unload(rec, false)
	r.unload(rec, true)
	require.EqualValues(t, 0, rec.refs.Load())
	require.Equal(t, 0, loader.releases)
	checkRecordInvariant(t, rec)
}

func TestRegistryForceUnload(t *testing.T) {
	t.Parallel()
	loader := &countingLoader{resources: map[string]any{"a": "res-a"}}
	r := newTestRegistry(loader)
	rec, _ := r.record(0)

	for i := 0; i < 3; i++ {
		_, err := r.load(rec)
		require.NoError(t, err)
	}
	require.EqualValues(t, 3, rec.refs.Load())

	r.unload(rec, true)
	require.EqualValues(t, 0, rec.refs.Load())
	require.Nil(t, rec.handle)
	require.Equal(t, 1, loader.releases)
	checkRecordInvariant(t, rec)
}

func TestRegistryUnloadAll(t *testing.T) {
	t.Parallel()
	loader := &countingLoader{resources: map[string]any{"a": "res-a", "b": "res-b"}}
	r := newTestRegistry(loader)

	for _, kind := range []Kind{0, 1} {
		rec, _ := r.record(kind)
		_, err := r.load(rec)
		require.NoError(t, err)
		_, err = r.load(rec)
		require.NoError(t, err)
	}

	r.unloadAll()
	for _, kind := range []Kind{0, 1} {
		rec, _ := r.record(kind)
		require.False(t, r.isLoaded(rec))
		checkRecordInvariant(t, rec)
	}
	require.Equal(t, 2, loader.releases)
}

func TestRegistryMissingResource(t *testing.T) {
	t.Parallel()
	loader := &countingLoader{resources: map[string]any{}}
	r := newTestRegistry(loader)
	rec, _ := r.record(0)

	_, err := r.load(rec)
	require.ErrorIs(t, err, ErrResourceMissing)
	checkRecordInvariant(t, rec)

	// Loader errors surface the same way as absent resources.
	loader.failWith = errors.New("disk on fire")
	_, err = r.load(rec)
	require.ErrorIs(t, err, ErrResourceMissing)
	checkRecordInvariant(t, rec)
}
