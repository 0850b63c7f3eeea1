package render

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdougie/handpreview/internal/hand"
)

func TestExportFrames(t *testing.T) {
	frames := []hand.Frame{testFrame(), testFrame(), testFrame()}
	outDir := filepath.Join(t.TempDir(), "frames")

	paths, err := ExportFrames(frames, outDir, 320, 240)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.Equal(t, "frame_0001.png", filepath.Base(paths[0]))
	assert.Equal(t, "frame_0003.png", filepath.Base(paths[2]))

	for _, path := range paths {
		file, err := os.Open(path)
		require.NoError(t, err)
		img, err := png.Decode(file)
		file.Close()
		require.NoError(t, err, "exported frame must be valid PNG")
		assert.Equal(t, 320, img.Bounds().Dx())
		assert.Equal(t, 240, img.Bounds().Dy())
	}
}

func TestExportFramesEmptySequence(t *testing.T) {
	_, err := ExportFrames(nil, t.TempDir(), 320, 240)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no frames")
}

func TestExportFramesInvalidSize(t *testing.T) {
	_, err := ExportFrames([]hand.Frame{testFrame()}, t.TempDir(), 0, 240)
	require.Error(t, err)
}

func TestRenderTerminalGlyphs(t *testing.T) {
	frames := []hand.Frame{testFrame()}
	proj := TerminalProjection(frames, 60, 24)

	out := RenderTerminal(frames[0], proj, 60, 24)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 24)
	for _, line := range lines {
		assert.Len(t, line, 60)
	}

	assert.Contains(t, out, string(glyphRoot), "wrist marker must be drawn")
	assert.Contains(t, out, string(glyphJoint))
	assert.Contains(t, out, string(glyphBone))
}

func TestFitProjectionKeepsPointsInBounds(t *testing.T) {
	frames := []hand.Frame{testFrame(), testFrame()}
	proj := fitProjection(frames, 100, 80)

	for _, frame := range frames {
		for _, marker := range hand.SolveJoints(frame) {
			x, y := proj.point(marker.Position.X(), marker.Position.Y())
			assert.GreaterOrEqual(t, x, 0)
			assert.Less(t, x, 100)
			assert.GreaterOrEqual(t, y, 0)
			assert.Less(t, y, 80)
		}
	}
}
