package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdougie/handpreview/internal/hand"
)

func writeVideo(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("not really a video"), 0644))
	return path
}

func testFrames(n int) []hand.Frame {
	frames := make([]hand.Frame, n)
	for i := range frames {
		frame := make(hand.Frame, hand.JointCount)
		for j := range frame {
			frame[j] = mgl64.Vec3{float64(j), 0, 0}
		}
		frames[i] = frame
	}
	return frames
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSessionIsIdle(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, StatusIdle, s.Status())
	assert.Empty(t, s.Err())

	_, ok := s.Source()
	assert.False(t, ok)
	_, ok = s.Asset()
	assert.False(t, ok)
	assert.Nil(t, s.Run())
	assert.Nil(t, s.Frames())
}

func TestSelectSourceStagesCopy(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SelectSource(writeVideo(t, "clip.mp4")))

	src, ok := s.Source()
	require.True(t, ok)
	assert.FileExists(t, src.Path())
	assert.Equal(t, ".mp4", filepath.Ext(src.Path()))
	assert.Equal(t, "clip.mp4", s.SourceName())
}

func TestSelectSourceMissingFile(t *testing.T) {
	s := newTestSession(t)
	err := s.SelectSource(filepath.Join(t.TempDir(), "missing.mp4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
	assert.Equal(t, StatusIdle, s.Status())
}

func TestReplacingSourceReleasesPriorHandles(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SelectSource(writeVideo(t, "first.mp4")))
	first, _ := s.Source()

	// Attach run artifacts to the first source.
	require.NoError(t, s.BeginProcessing())
	run := &hand.Run{ID: "r1", Frames: 3, DetectedFrames: 3, FPS: 30}
	require.NoError(t, s.CompleteRun(run, testFrames(3), []byte("glb-bytes")))
	asset, ok := s.Asset()
	require.True(t, ok)

	require.NoError(t, s.SelectSource(writeVideo(t, "second.mp4")))

	assert.NoFileExists(t, first.Path(), "superseded source must be released")
	assert.NoFileExists(t, asset.Path(), "superseded run asset must be released")
	assert.Nil(t, s.Run())
	assert.Nil(t, s.Frames())
	assert.Equal(t, StatusIdle, s.Status())

	second, ok := s.Source()
	require.True(t, ok)
	assert.FileExists(t, second.Path())
}

func TestStatusTransitions(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SelectSource(writeVideo(t, "clip.mp4")))

	require.NoError(t, s.BeginProcessing())
	assert.Equal(t, StatusProcessing, s.Status())

	// A second submission while processing is rejected.
	assert.ErrorIs(t, s.BeginProcessing(), ErrBusy)
	assert.ErrorIs(t, s.SelectSource(writeVideo(t, "other.mp4")), ErrBusy)

	s.FailRun("corrupt video")
	assert.Equal(t, StatusError, s.Status())
	assert.Equal(t, "corrupt video", s.Err())

	// Error is cleared on the next processing attempt.
	require.NoError(t, s.BeginProcessing())
	assert.Empty(t, s.Err())
}

func TestCompleteRunRequiresProcessing(t *testing.T) {
	s := newTestSession(t)
	err := s.CompleteRun(&hand.Run{ID: "r1"}, testFrames(1), []byte("glb"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idle")
}

func TestFailRunOutsideProcessingIsNoop(t *testing.T) {
	s := newTestSession(t)
	s.FailRun("should not stick")
	assert.Equal(t, StatusIdle, s.Status())
	assert.Empty(t, s.Err())
}

func TestCompleteRunMaterializesAsset(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SelectSource(writeVideo(t, "clip.mp4")))
	require.NoError(t, s.BeginProcessing())

	run := &hand.Run{ID: "abc123", Frames: 2, DetectedFrames: 1, FPS: 24}
	require.NoError(t, s.CompleteRun(run, testFrames(2), []byte("glb-bytes")))

	assert.Equal(t, StatusReady, s.Status())
	assert.Equal(t, run, s.Run())
	assert.Len(t, s.Frames(), 2)

	asset, ok := s.Asset()
	require.True(t, ok)
	assert.Equal(t, "hand_abc123.glb", filepath.Base(asset.Path()))
	data, err := os.ReadFile(asset.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte("glb-bytes"), data)
}

func TestHandleReleaseExactlyOnce(t *testing.T) {
	path := writeVideo(t, "asset.bin")
	h := newHandle(path)

	require.NoError(t, h.Release())
	assert.NoFileExists(t, path)

	// Second release is a no-op, not an error.
	require.NoError(t, h.Release())
}

func TestCloseReleasesEverything(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	require.NoError(t, s.SelectSource(writeVideo(t, "clip.mp4")))
	require.NoError(t, s.BeginProcessing())
	require.NoError(t, s.CompleteRun(&hand.Run{ID: "r9"}, testFrames(1), []byte("glb")))

	src, _ := s.Source()
	asset, _ := s.Asset()

	require.NoError(t, s.Close())
	assert.NoFileExists(t, src.Path())
	assert.NoFileExists(t, asset.Path())

	// Idempotent.
	require.NoError(t, s.Close())

	// Closed sessions reject further work.
	assert.ErrorIs(t, s.BeginProcessing(), ErrClosed)
	assert.ErrorIs(t, s.SelectSource(writeVideo(t, "late.mp4")), ErrClosed)
}

func TestCoverage(t *testing.T) {
	run := &hand.Run{Frames: 10, DetectedFrames: 9}
	assert.InDelta(t, 0.9, run.Coverage(), 1e-12)
	assert.Zero(t, (&hand.Run{}).Coverage())
}
