package render

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdougie/handpreview/internal/hand"
)

func testFrame() hand.Frame {
	frame := make(hand.Frame, hand.JointCount)
	for i := range frame {
		frame[i] = mgl64.Vec3{float64(i) * 0.1, float64(i%5) * 0.2, float64(i%3) * 0.05}
	}
	return frame
}

// minimalGLB builds the smallest valid binary glTF: a JSON chunk with
// one node in one scene.
func minimalGLB(t *testing.T) []byte {
	t.Helper()

	doc := []byte(`{"asset":{"version":"2.0"},"scene":0,"scenes":[{"nodes":[0]}],"nodes":[{"name":"hand_root"}]}`)
	for len(doc)%4 != 0 {
		doc = append(doc, ' ')
	}

	var buf bytes.Buffer
	buf.WriteString("glTF")
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint32(12+8+len(doc)))
	binary.Write(&buf, binary.LittleEndian, uint32(len(doc)))
	buf.WriteString("JSON")
	buf.Write(doc)
	return buf.Bytes()
}

func writeAsset(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hand_r1.glb")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestComposePlaceholder(t *testing.T) {
	scene := NewSupervisor(nil).Compose(Input{})
	assert.True(t, scene.Placeholder)
	assert.Nil(t, scene.Model)
	assert.Nil(t, scene.Skeleton)
	assert.Empty(t, scene.Note)
}

func TestComposeModelAndSkeleton(t *testing.T) {
	path := writeAsset(t, minimalGLB(t))
	scene := NewSupervisor(nil).Compose(Input{
		AssetPath:  path,
		Frame:      testFrame(),
		FrameIndex: 3,
	})

	assert.False(t, scene.Placeholder)
	assert.Empty(t, scene.Note)

	require.NotNil(t, scene.Model)
	assert.Equal(t, path, scene.Model.Source)
	require.NotNil(t, scene.Model.Doc)

	require.NotNil(t, scene.Skeleton)
	assert.Equal(t, 3, scene.Skeleton.FrameIndex)
	assert.Len(t, scene.Skeleton.Joints, hand.JointCount)
	assert.Len(t, scene.Skeleton.Bones, 20)
	assert.Len(t, scene.Lights, 3, "primary scene uses the full rig")
}

func TestComposeSkeletonOnly(t *testing.T) {
	scene := NewSupervisor(nil).Compose(Input{Frame: testFrame()})
	assert.Nil(t, scene.Model)
	require.NotNil(t, scene.Skeleton)
	assert.False(t, scene.Placeholder)
	assert.Empty(t, scene.Note)
}

func TestComposeCorruptModelFallsBack(t *testing.T) {
	path := writeAsset(t, []byte("this is not a glb"))
	scene := NewSupervisor(nil).Compose(Input{
		AssetPath: path,
		Frame:     testFrame(),
	})

	// The failure stays inside the boundary: skeleton survives, a note
	// appears, no error escapes.
	assert.Nil(t, scene.Model)
	require.NotNil(t, scene.Skeleton)
	assert.NotEmpty(t, scene.Note)
	assert.Contains(t, scene.Note, path)
	assert.Len(t, scene.Lights, 2, "fallback uses the minimal rig")
	assert.False(t, scene.Placeholder)
}

func TestComposeMissingAssetFileFallsBack(t *testing.T) {
	scene := NewSupervisor(nil).Compose(Input{
		AssetPath: filepath.Join(t.TempDir(), "gone.glb"),
		Frame:     testFrame(),
	})
	assert.Nil(t, scene.Model)
	assert.NotEmpty(t, scene.Note)
	require.NotNil(t, scene.Skeleton)
}

func TestComposeEmptyDocumentFallsBack(t *testing.T) {
	doc := []byte(`{"asset":{"version":"2.0"}}`)
	for len(doc)%4 != 0 {
		doc = append(doc, ' ')
	}
	var buf bytes.Buffer
	buf.WriteString("glTF")
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint32(12+8+len(doc)))
	binary.Write(&buf, binary.LittleEndian, uint32(len(doc)))
	buf.WriteString("JSON")
	buf.Write(doc)

	scene := NewSupervisor(nil).Compose(Input{AssetPath: writeAsset(t, buf.Bytes())})
	assert.Nil(t, scene.Model)
	assert.Contains(t, scene.Note, "no scene content")
}

func TestRenderErrorUnwrap(t *testing.T) {
	result := loadModel(filepath.Join(t.TempDir(), "missing.glb"))
	require.Error(t, result.err)

	var renderErr *RenderError
	require.ErrorAs(t, result.err, &renderErr)
	assert.NotNil(t, renderErr.Unwrap())
}
