// Package render composes the visible preview scene from session
// state. The rich-model branch is isolated behind an explicit result:
// a GLB that fails to decode degrades the scene to the skeleton-only
// fallback instead of propagating the failure.
package render

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"

	"github.com/bdougie/handpreview/internal/hand"
)

// Camera is the viewpoint of a composed scene.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	FOV      float64 // vertical, degrees
}

// Light is one light source in a composed scene.
type Light struct {
	Kind      string // "ambient" | "directional"
	Intensity float64
	Direction mgl64.Vec3 // directional only
}

// Model is the rich-model branch: a successfully decoded GLB document
// placed inside a fitting frame.
type Model struct {
	Doc    *gltf.Document
	Source string // path of the materialized asset
}

// Skeleton is the reconstruction branch for one frame.
type Skeleton struct {
	Bones      []hand.Bone
	Joints     []hand.Marker
	FrameIndex int
}

// Scene is the composed preview. Model and Skeleton may both be
// present, either alone, or neither (Placeholder). Note is non-empty
// only on the fallback path and is shown to the user verbatim.
type Scene struct {
	Camera      Camera
	Lights      []Light
	Model       *Model
	Skeleton    *Skeleton
	Placeholder bool
	Note        string
}

// defaultCamera frames the normalized hand, which the backend scales to
// roughly five units across.
func defaultCamera() Camera {
	return Camera{
		Position: mgl64.Vec3{0, 0, 12},
		Target:   mgl64.Vec3{0, 0, 0},
		FOV:      40,
	}
}

// studioLights is the full lighting rig for the primary scene.
func studioLights() []Light {
	return []Light{
		{Kind: "ambient", Intensity: 0.6},
		{Kind: "directional", Intensity: 0.9, Direction: mgl64.Vec3{3, 5, 2}},
		{Kind: "directional", Intensity: 0.3, Direction: mgl64.Vec3{-4, 2, -3}},
	}
}

// fallbackLights is the minimal rig used by the skeleton-only fallback.
func fallbackLights() []Light {
	return []Light{
		{Kind: "ambient", Intensity: 0.8},
		{Kind: "directional", Intensity: 0.6, Direction: mgl64.Vec3{2, 4, 3}},
	}
}
