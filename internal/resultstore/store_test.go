package resultstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := Series{
		Source:        "moor.sim",
		Object:        "Line1",
		Variable:      "Effective Tension",
		Period:        "WholeSimulation",
		Node:          3,
		EngineVersion: "11.4a",
		Created:       created,
		Times:         []float64{-1, -0.5, 0, 0.5},
		Values:        []float64{40, 40.5, 41, 41.5},
	}
	id, err := s.Save(ctx, in)
	require.NoError(t, err)
	assert.Positive(t, id)

	out, err := s.Load(ctx, id)
	require.NoError(t, err)
	in.ID = id
	if diff := cmp.Diff(in, out, cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("series (-want +got):\n%s", diff)
	}
}

func TestSaveRejectsRaggedSeries(t *testing.T) {
	s := openStore(t)
	_, err := s.Save(context.Background(), Series{Times: []float64{1, 2}, Values: []float64{1}})
	assert.Error(t, err)
}

func TestListAndDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for _, v := range []string{"X", "Y", "X"} {
		_, err := s.Save(ctx, Series{Source: "a.sim", Object: "Line1", Variable: v, Period: "StaticState",
			Times: []float64{0}, Values: []float64{1}})
		require.NoError(t, err)
	}

	all, err := s.List(ctx, "", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Greater(t, all[0].ID, all[2].ID)

	xs, err := s.List(ctx, "a.sim", "Line1", "X")
	require.NoError(t, err)
	require.Len(t, xs, 2)
	assert.Empty(t, xs[0].Times)

	require.NoError(t, s.Delete(ctx, xs[0].ID))
	_, err = s.Load(ctx, xs[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, xs[0].ID), ErrNotFound)

	left, err := s.List(ctx, "", "", "X")
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
