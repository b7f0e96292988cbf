package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func start(t *testing.T, w *Watcher) (cancel func()) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return func() {
		stop()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func TestRunDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "moor.yml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	var runs atomic.Int32
	got := make(chan string, 8)
	w, err := New(path, func(_ context.Context, p string) error {
		runs.Add(1)
		got <- p
		return nil
	}, WithDebounce(100*time.Millisecond))
	require.NoError(t, err)
	stop := start(t, w)
	defer stop()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	for i := range 3 {
		require.NoError(t, os.WriteFile(path, []byte{byte('b' + i)}, 0o644))
	}

	select {
	case p := <-got:
		assert.Equal(t, path, p)
	case <-time.After(5 * time.Second):
		t.Fatal("action not called")
	}
	time.Sleep(300 * time.Millisecond)
	assert.EqualValues(t, 1, runs.Load())
}

func TestRunIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "moor.yml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	var runs atomic.Int32
	w, err := New(path, func(context.Context, string) error {
		runs.Add(1)
		return nil
	}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	stop := start(t, w)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yml"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	stop()
	assert.Zero(t, runs.Load())
}

func TestNewRejectsNilAction(t *testing.T) {
	_, err := New("moor.yml", nil)
	assert.Error(t, err)
}

func TestRunMissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "absent", "moor.yml"), func(context.Context, string) error { return nil })
	require.NoError(t, err)
	assert.Error(t, w.Run(context.Background()))
}
