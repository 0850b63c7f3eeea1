package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bdougie/handpreview/internal/hand"
	"github.com/bdougie/handpreview/internal/session"
)

// ProgressFunc wraps the upload reader, letting callers attach a
// progress display without the runner knowing about terminals.
type ProgressFunc func(r io.Reader, total int64) io.Reader

// Runner executes the remote pipeline against a session.
type Runner struct {
	client       *Client
	logger       *slog.Logger
	targetFPS    int
	smoothWindow int
	progress     ProgressFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithTargetFPS asks the backend to resample the video to the given
// rate before extraction.
func WithTargetFPS(fps int) Option {
	return func(r *Runner) { r.targetFPS = fps }
}

// WithSmoothing applies a client-side moving average of the given
// window to the decoded frames before they are installed.
func WithSmoothing(window int) Option {
	return func(r *Runner) { r.smoothWindow = window }
}

// WithProgress attaches an upload progress wrapper.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) { r.progress = fn }
}

// NewRunner builds a Runner on top of a backend client.
func NewRunner(client *Client, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{client: client, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs submit → fetch keypoints → fetch asset against the
// session's selected source. The steps are strictly sequential; any
// failure aborts the rest, sets the session to error, and returns the
// step's error. The run record, frames, and asset are installed only
// when all three steps succeed.
//
// With no source selected, Execute returns ErrEmptyInput without
// issuing a network call or touching the session status. While a run
// is already processing, Execute returns session.ErrBusy.
func (r *Runner) Execute(ctx context.Context, sess *session.Session) error {
	source, ok := sess.Source()
	if !ok {
		return ErrEmptyInput
	}

	if err := sess.BeginProcessing(); err != nil {
		return err
	}

	run, frames, glb, err := r.execute(ctx, source.Path(), sess.SourceName())
	if err != nil {
		sess.FailRun(err.Error())
		return err
	}

	if err := sess.CompleteRun(run, frames, glb); err != nil {
		sess.FailRun(err.Error())
		return err
	}

	r.logger.Info("run ready",
		"run", run.ID,
		"frames", run.Frames,
		"detected", run.DetectedFrames,
		"fps", run.FPS)
	return nil
}

// execute performs the three remote steps without touching session
// state, so the caller owns the single status-reduction point.
func (r *Runner) execute(ctx context.Context, sourcePath, sourceName string) (*hand.Run, []hand.Frame, []byte, error) {
	file, err := os.Open(sourcePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open staged video: %v", err)
	}
	defer file.Close()

	var upload io.Reader = file
	if r.progress != nil {
		if info, err := file.Stat(); err == nil {
			upload = r.progress(file, info.Size())
			// Progress wrappers that render (e.g. a bar) need closing
			// to stop, whether or not the upload succeeds.
			if closer, ok := upload.(io.Closer); ok {
				defer closer.Close()
			}
		}
	}

	run, err := r.client.Submit(ctx, sourceName, upload, r.targetFPS)
	if err != nil {
		return nil, nil, nil, err
	}
	r.logger.Debug("run submitted", "run", run.ID, "keypoints", run.KeypointsURL, "glb", run.GLBURL)

	set, err := r.client.FetchKeypoints(ctx, run.KeypointsURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(set.Frames) == 0 {
		return nil, nil, nil, fmt.Errorf("keypoint data contains no frames")
	}

	frames := set.Frames
	if r.smoothWindow > 1 {
		frames = hand.Smooth(frames, r.smoothWindow)
	}
	// The run's declared rate wins; fall back to the keypoint payload.
	if run.FPS <= 0 {
		run.FPS = set.FPS
	}

	glb, err := r.client.FetchAsset(ctx, run.GLBURL)
	if err != nil {
		return nil, nil, nil, err
	}

	return run, frames, glb, nil
}
