// Package hand holds the shared hand-capture data model: the 21-joint
// skeleton topology, per-frame joint positions, and the run record
// returned by the processing backend.
package hand

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// JointCount is the number of tracked points per frame.
const JointCount = 21

// Wrist is the root joint of the skeleton.
const Wrist = 0

// Frame is one timestep of the reconstructed hand pose: exactly
// JointCount positions in model space, in topology order. Frames are
// never mutated after decoding; consumers only index into them.
type Frame []mgl64.Vec3

// UnmarshalJSON decodes a frame from the backend wire format, an array
// of 21 [x, y, z] triples.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var raw [][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode frame: %v", err)
	}
	if len(raw) != JointCount {
		return fmt.Errorf("frame has %d joints, expected %d", len(raw), JointCount)
	}
	frame := make(Frame, JointCount)
	for i, triple := range raw {
		if len(triple) != 3 {
			return fmt.Errorf("joint %d has %d components, expected 3", i, len(triple))
		}
		frame[i] = mgl64.Vec3{triple[0], triple[1], triple[2]}
	}
	*f = frame
	return nil
}

// MarshalJSON writes a frame back out in the wire format.
func (f Frame) MarshalJSON() ([]byte, error) {
	raw := make([][3]float64, len(f))
	for i, pos := range f {
		raw[i] = [3]float64{pos.X(), pos.Y(), pos.Z()}
	}
	return json.Marshal(raw)
}

// Run is the record returned by a successful pipeline submission.
type Run struct {
	ID             string  `json:"run_id"`
	Frames         int     `json:"frames"`
	DetectedFrames int     `json:"detected_frames"`
	FPS            float64 `json:"fps"`
	GLBURL         string  `json:"glb_url"`
	KeypointsURL   string  `json:"keypoints_url"`
	Note           string  `json:"note,omitempty"`
}

// Coverage reports the fraction of frames where the extractor actually
// found a hand, in [0, 1].
func (r *Run) Coverage() float64 {
	if r.Frames == 0 {
		return 0
	}
	return float64(r.DetectedFrames) / float64(r.Frames)
}

// KeypointSet is the decoded keypoint-data payload for a run.
type KeypointSet struct {
	FPS      float64 `json:"fps"`
	InputFPS float64 `json:"input_fps"`
	Frames   []Frame `json:"frames"`
}
