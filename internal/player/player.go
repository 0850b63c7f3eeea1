// Package player implements cyclic playback over a decoded frame
// sequence. A Player owns at most one ticker goroutine at a time;
// swapping the sequence or rate always cancels the previous schedule
// before installing a new one, so ticks never overlap.
package player

import (
	"errors"
	"sync"
	"time"

	"github.com/bdougie/handpreview/internal/hand"
)

// DefaultRate is the playback rate used when a run declares none.
const DefaultRate = 30.0

// ErrStarted is returned by Start when playback is already running.
var ErrStarted = errors.New("player already started")

// Player exposes the currently active frame of a sequence, advancing
// one frame per tick and wrapping at the end. All methods are safe for
// concurrent use.
type Player struct {
	mu      sync.Mutex
	frames  []hand.Frame
	rate    float64
	idx     int
	started bool
	stop    chan struct{} // non-nil only while a ticker goroutine is live
	wg      sync.WaitGroup
}

// New returns a stopped Player with no frames.
func New() *Player {
	return &Player{rate: DefaultRate}
}

// SetFrames replaces the frame sequence and rate, resetting the active
// index to 0. A rate of zero or less falls back to DefaultRate. If the
// player is started, the old ticker is canceled and a new one is
// scheduled; an empty sequence schedules nothing.
func (p *Player) SetFrames(frames []hand.Frame, rate float64) {
	if rate <= 0 {
		rate = DefaultRate
	}

	p.unschedule()

	p.mu.Lock()
	p.frames = frames
	p.rate = rate
	p.idx = 0
	p.scheduleLocked()
	p.mu.Unlock()
}

// SetRate changes the playback rate, rescheduling the ticker if one is
// live. The active index is preserved.
func (p *Player) SetRate(rate float64) {
	if rate <= 0 {
		rate = DefaultRate
	}

	p.unschedule()

	p.mu.Lock()
	p.rate = rate
	p.scheduleLocked()
	p.mu.Unlock()
}

// Start begins playback. Returns ErrStarted if already running.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrStarted
	}
	p.started = true
	p.scheduleLocked()
	return nil
}

// Stop cancels the ticker and halts playback. Idempotent.
func (p *Player) Stop() {
	p.mu.Lock()
	p.started = false
	p.mu.Unlock()

	p.unschedule()
}

// Reset rewinds the active index to the first frame without touching
// the schedule.
func (p *Player) Reset() {
	p.mu.Lock()
	p.idx = 0
	p.mu.Unlock()
}

// Active returns the currently active frame and its index. ok is false
// when no sequence is loaded.
func (p *Player) Active() (frame hand.Frame, index int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.frames) == 0 {
		return nil, 0, false
	}
	return p.frames[p.idx], p.idx, true
}

// Len reports the number of frames in the loaded sequence.
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}

// Rate reports the current playback rate in frames per second.
func (p *Player) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

// Running reports whether a ticker goroutine is currently live.
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}

// scheduleLocked spawns the ticker goroutine if the player is started
// and has frames to play. Caller must hold p.mu and must have canceled
// any prior schedule first.
func (p *Player) scheduleLocked() {
	if !p.started || len(p.frames) == 0 || p.stop != nil {
		return
	}

	stop := make(chan struct{})
	p.stop = stop
	period := time.Duration(float64(time.Second) / p.rate)

	p.wg.Add(1)
	go p.loop(stop, period)
}

// unschedule cancels the live ticker goroutine, if any, and waits for
// it to exit. Must be called without holding p.mu: the loop takes the
// lock on every tick.
func (p *Player) unschedule() {
	p.mu.Lock()
	stop := p.stop
	p.stop = nil
	p.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	p.wg.Wait()
}

// loop advances the index once per tick until canceled.
func (p *Player) loop(stop chan struct{}, period time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.advance(stop)
		}
	}
}

// advance moves to the next frame, wrapping at the end. A loop that has
// been superseded by a reschedule leaves the index alone.
func (p *Player) advance(stop chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop != stop || len(p.frames) == 0 {
		return
	}
	p.idx = (p.idx + 1) % len(p.frames)
}
