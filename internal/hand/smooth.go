package hand

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
)

// Smooth applies a moving average over a frame sequence to knock
// temporal jitter out of rough keypoint data before playback. The
// window is centered; edges are padded by repeating the first and last
// frames. A window of 1 or less, or a sequence of 2 or fewer frames,
// is returned unchanged.
func Smooth(frames []Frame, window int) []Frame {
	if window <= 1 || len(frames) <= 2 {
		return frames
	}

	pad := window / 2
	padded := make([]Frame, 0, len(frames)+2*pad)
	for i := 0; i < pad; i++ {
		padded = append(padded, frames[0])
	}
	padded = append(padded, frames...)
	for i := 0; i < pad; i++ {
		padded = append(padded, frames[len(frames)-1])
	}

	smoothed := make([]Frame, len(frames))
	acc := make([]float64, JointCount*3)
	for i := range frames {
		for j := range acc {
			acc[j] = 0
		}
		for w := 0; w < window; w++ {
			floats.Add(acc, flatten(padded[i+w]))
		}
		floats.Scale(1/float64(window), acc)
		smoothed[i] = unflatten(acc)
	}
	return smoothed
}

func flatten(frame Frame) []float64 {
	flat := make([]float64, JointCount*3)
	for i, pos := range frame {
		flat[i*3] = pos.X()
		flat[i*3+1] = pos.Y()
		flat[i*3+2] = pos.Z()
	}
	return flat
}

func unflatten(flat []float64) Frame {
	frame := make(Frame, JointCount)
	for i := range frame {
		frame[i] = mgl64.Vec3{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}
	return frame
}
