package render

import (
	"fmt"
	"log/slog"

	"github.com/qmuntal/gltf"

	"github.com/bdougie/handpreview/internal/hand"
)

// RenderError is a failure loading or validating the rich model. It is
// contained by Compose and never reaches the pipeline status.
type RenderError struct {
	Source string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to load model '%s': %v", e.Source, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Input is the session state the supervisor composes from.
type Input struct {
	AssetPath  string     // materialized GLB, empty when absent
	Frame      hand.Frame // active frame, nil when no sequence is loaded
	FrameIndex int
	Epsilon    float64 // degenerate-bone threshold, 0 for the default
}

// Supervisor builds scenes and owns the failure boundary around the
// rich-model branch.
type Supervisor struct {
	logger *slog.Logger
}

// NewSupervisor returns a scene supervisor.
func NewSupervisor(logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{logger: logger}
}

// modelResult is the explicit Ok/Err outcome of rich-model loading.
type modelResult struct {
	model *Model
	err   error
}

// loadModel decodes the GLB at path. Never panics; all failure modes
// reduce to an Err result.
func loadModel(path string) modelResult {
	doc, err := gltf.Open(path)
	if err != nil {
		return modelResult{err: &RenderError{Source: path, Err: err}}
	}
	if len(doc.Scenes) == 0 && len(doc.Nodes) == 0 {
		return modelResult{err: &RenderError{Source: path, Err: fmt.Errorf("document has no scene content")}}
	}
	return modelResult{model: &Model{Doc: doc, Source: path}}
}

// Compose builds the visible scene from the given state.
//
// With neither an asset nor a frame it returns a placeholder. When the
// rich model fails to load, the failure stays inside the boundary: the
// result is the skeleton-only fallback with a minimal lighting rig and
// a visible note, never an error.
func (s *Supervisor) Compose(in Input) Scene {
	var skeleton *Skeleton
	if in.Frame != nil {
		skeleton = &Skeleton{
			Bones:      hand.SolveBones(in.Frame, in.Epsilon),
			Joints:     hand.SolveJoints(in.Frame),
			FrameIndex: in.FrameIndex,
		}
	}

	if in.AssetPath == "" && skeleton == nil {
		return Scene{
			Camera:      defaultCamera(),
			Lights:      fallbackLights(),
			Placeholder: true,
		}
	}

	scene := Scene{
		Camera:   defaultCamera(),
		Lights:   studioLights(),
		Skeleton: skeleton,
	}

	if in.AssetPath != "" {
		result := loadModel(in.AssetPath)
		if result.err != nil {
			s.logger.Warn("model branch failed, using skeleton fallback", "error", result.err)
			scene.Lights = fallbackLights()
			scene.Note = result.err.Error()
		} else {
			scene.Model = result.model
		}
	}

	return scene
}
