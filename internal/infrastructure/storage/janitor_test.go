package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func TestJanitor_DeletesAfterDelay(t *testing.T) {
	j := NewJanitor(time.Minute, nil)
	j.Start()
	defer j.Stop()

	path := writeTempFile(t, "receipt_RCP-1A2B3C4D.pdf")

	j.Schedule(path, 50*time.Millisecond)

	// Still present before the delay elapses
	_, err := os.Stat(path)
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestJanitor_MissingFileIsNoOp(t *testing.T) {
	j := NewJanitor(time.Minute, nil)
	j.Start()
	defer j.Stop()

	j.Schedule(filepath.Join(t.TempDir(), "never-existed.pdf"), 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return j.Pending() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestJanitor_SharedQueueOrdering(t *testing.T) {
	j := NewJanitor(time.Minute, nil)
	j.Start()
	defer j.Stop()

	late := writeTempFile(t, "late.pdf")
	early := writeTempFile(t, "early.pdf")

	// Scheduling a later deadline first must not delay the earlier one
	j.Schedule(late, 500*time.Millisecond)
	j.Schedule(early, 20*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(early)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)

	// The late entry is still pending at this point
	_, err := os.Stat(late)
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(late)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestJanitor_DefaultTTL(t *testing.T) {
	j := NewJanitor(0, nil)
	assert.Equal(t, DefaultArtifactTTL, j.defaultTTL)
}

func TestJanitor_StopIsIdempotent(t *testing.T) {
	j := NewJanitor(time.Minute, nil)
	j.Start()
	j.Stop()
	assert.NotPanics(t, func() { j.Stop() })
}
