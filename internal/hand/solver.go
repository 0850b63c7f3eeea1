package hand

import "github.com/go-gl/mathgl/mgl64"

// DefaultEpsilon is the segment length below which two joints are
// treated as coincident and the connecting bone is dropped.
const DefaultEpsilon = 1e-6

// Marker radii for joint rendering; the wrist is drawn larger so the
// root of the skeleton stays recognizable.
const (
	jointRadius = 0.1
	rootRadius  = 0.18
)

// referenceAxis is the canonical axis a unit bone segment points along
// before orientation is applied.
var referenceAxis = mgl64.Vec3{0, 1, 0}

// Bone is one renderable skeleton segment derived from a frame. It has
// no identity across frames beyond its topology index.
type Bone struct {
	Index       int        // position in the Bones table
	Parent      int        // parent joint index
	Child       int        // child joint index
	Mid         mgl64.Vec3 // midpoint of the two endpoints
	Orientation mgl64.Quat // rotation taking referenceAxis onto the segment direction
	Length      float64    // Euclidean distance between the endpoints
}

// Marker is one renderable joint position.
type Marker struct {
	Index    int
	Name     string
	Position mgl64.Vec3
	Radius   float64
	Root     bool
}

// displayPosition flips the vertical axis of the incoming joint data to
// match the display's up-axis convention.
func displayPosition(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{p.X(), -p.Y(), p.Z()}
}

// SolveBones derives renderable bone segments for a frame. Pairs whose
// joints are closer than epsilon are omitted: a partial skeleton is
// preferable to degenerate geometry when tracking drops a finger.
// Output ordering matches the Bones table.
func SolveBones(frame Frame, epsilon float64) []Bone {
	if len(frame) != JointCount {
		return nil
	}
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}

	bones := make([]Bone, 0, len(Bones))
	for i, pair := range Bones {
		parent := displayPosition(frame[pair[0]])
		child := displayPosition(frame[pair[1]])

		dir := child.Sub(parent)
		length := dir.Len()
		if length < epsilon {
			continue
		}

		bones = append(bones, Bone{
			Index:       i,
			Parent:      pair[0],
			Child:       pair[1],
			Mid:         parent.Add(child).Mul(0.5),
			Orientation: mgl64.QuatBetweenVectors(referenceAxis, dir.Mul(1/length)),
			Length:      length,
		})
	}
	return bones
}

// SolveJoints maps every joint position to a renderable marker. All 21
// markers are produced even when bones were dropped as degenerate.
func SolveJoints(frame Frame) []Marker {
	if len(frame) != JointCount {
		return nil
	}

	markers := make([]Marker, JointCount)
	for i, pos := range frame {
		radius := jointRadius
		if i == Wrist {
			radius = rootRadius
		}
		markers[i] = Marker{
			Index:    i,
			Name:     JointNames[i],
			Position: displayPosition(pos),
			Radius:   radius,
			Root:     i == Wrist,
		}
	}
	return markers
}
