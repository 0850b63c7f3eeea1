// Package session tracks one upload/preview lifecycle: the selected
// source video, the pipeline status, and the transient binary assets
// materialized along the way. The Session owns every handle it creates
// and releases each exactly once, either on supersession or on Close.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/bdougie/handpreview/internal/hand"
)

// Status is the pipeline state of a session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// ErrBusy is returned when a new submission arrives while a run is
// already processing. Overlapping runs are rejected, not superseded.
var ErrBusy = errors.New("a run is already processing")

// ErrClosed is returned by operations on a torn-down session.
var ErrClosed = errors.New("session is closed")

// Session is the root aggregate for one upload/preview lifecycle.
type Session struct {
	mu     sync.Mutex
	logger *slog.Logger

	stagingDir string
	closed     bool

	source     *Handle // staged copy of the selected video
	sourceName string  // base name of the original selection

	status Status
	errMsg string

	run    *hand.Run
	frames []hand.Frame
	asset  *Handle // materialized GLB for the current run
}

// New creates a session with a private staging directory for its
// materialized handles.
func New(logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Join(os.TempDir(), "handpreview-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory '%s': %v", dir, err)
	}

	return &Session{
		logger:     logger,
		stagingDir: dir,
		status:     StatusIdle,
	}, nil
}

// SelectSource stages a local copy of the video at path as the
// session's source asset. Any previously staged source and any derived
// run artifacts are released first, and the session returns to idle.
func (s *Session) SelectSource(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("video file does not exist at path: '%s'", path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.status == StatusProcessing {
		return ErrBusy
	}

	// Unique staged name so the superseded copy can be released after
	// the new one is in place.
	staged, err := s.stage(path, "source-"+uuid.NewString()+filepath.Ext(path))
	if err != nil {
		return err
	}

	// The new source supersedes everything derived from the old one.
	s.releaseRunLocked()
	if s.source != nil {
		if err := s.source.Release(); err != nil {
			s.logger.Warn("releasing superseded source", "error", err)
		}
	}

	s.source = staged
	s.sourceName = filepath.Base(path)
	s.status = StatusIdle
	s.errMsg = ""
	return nil
}

// Source returns the staged source handle, or ok=false when no video
// has been selected.
func (s *Session) Source() (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source, s.source != nil
}

// SourceName returns the base name of the selected video.
func (s *Session) SourceName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceName
}

// Status returns the current pipeline status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the last pipeline error message, if any.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Run returns the run record of the last fully successful pipeline
// execution. It is nil until status is ready.
func (s *Session) Run() *hand.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run
}

// Frames returns the decoded frame sequence. Callers must not mutate
// the returned slice.
func (s *Session) Frames() []hand.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Asset returns the materialized GLB handle for the current run.
func (s *Session) Asset() (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.asset, s.asset != nil
}

// BeginProcessing transitions the session into processing, clearing the
// prior error. Only one run may be in flight: a second call before
// CompleteRun or FailRun returns ErrBusy.
func (s *Session) BeginProcessing() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.status == StatusProcessing {
		return ErrBusy
	}

	s.status = StatusProcessing
	s.errMsg = ""
	return nil
}

// CompleteRun installs the results of a fully successful pipeline
// execution and transitions to ready. The GLB bytes are materialized
// into the staging directory under the backend's naming scheme. Any
// artifacts from a previous run are released.
func (s *Session) CompleteRun(run *hand.Run, frames []hand.Frame, glb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.status != StatusProcessing {
		return fmt.Errorf("cannot complete run from status %q", s.status)
	}

	path := filepath.Join(s.stagingDir, fmt.Sprintf("hand_%s.glb", run.ID))
	if err := os.WriteFile(path, glb, 0644); err != nil {
		return fmt.Errorf("failed to materialize binary asset: %v", err)
	}

	s.releaseRunLocked()
	s.run = run
	s.frames = frames
	s.asset = newHandle(path)
	s.status = StatusReady
	s.errMsg = ""
	return nil
}

// FailRun records a pipeline failure and transitions to error. The
// message is surfaced verbatim to the user.
func (s *Session) FailRun(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.status != StatusProcessing {
		return
	}
	s.status = StatusError
	s.errMsg = msg
}

// Close tears the session down, releasing every live handle and
// removing the staging directory. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.releaseRunLocked()
	if s.source != nil {
		if err := s.source.Release(); err != nil {
			s.logger.Warn("releasing source on close", "error", err)
		}
		s.source = nil
	}

	if err := os.RemoveAll(s.stagingDir); err != nil {
		return fmt.Errorf("failed to remove staging directory '%s': %v", s.stagingDir, err)
	}
	return nil
}

// releaseRunLocked drops the run record, frames, and result asset.
// Caller must hold s.mu.
func (s *Session) releaseRunLocked() {
	if s.asset != nil {
		if err := s.asset.Release(); err != nil {
			s.logger.Warn("releasing run asset", "error", err)
		}
		s.asset = nil
	}
	s.run = nil
	s.frames = nil
}

// stage copies the file at src into the staging directory under name.
// Caller must hold s.mu.
func (s *Session) stage(src, name string) (*Handle, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %v", src, err)
	}
	defer in.Close()

	dst := filepath.Join(s.stagingDir, name)
	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to stage '%s': %v", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("failed to stage '%s': %v", dst, err)
	}
	return newHandle(dst), nil
}
