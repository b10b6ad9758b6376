// Package momentum implements inertial touch scrolling. The engine tracks
// finger samples while a touch is down, estimates release velocity, and
// produces a decaying sequence of synthetic pixel deltas after lift.
//
// Decay is modeled as an explicit stepping function over elapsed time, so it
// can be driven by an animation-frame callback, a timer, or a test harness
// interchangeably.
package momentum

import (
	"math"
	"time"
)

// Phase identifies the engine's current state.
type Phase int

const (
	// Idle means no touch interaction is in progress.
	Idle Phase = iota
	// Tracking means a finger is down and samples are being collected.
	Tracking
	// Coasting means the finger lifted with enough velocity and synthetic
	// deltas are being generated each frame.
	Coasting
)

// Config holds the tuning constants for momentum scrolling.
type Config struct {
	// Decay is the per-millisecond velocity multiplier while coasting.
	Decay float64
	// MinVelocity is the magnitude (px/ms) below which coasting stops and
	// under which a release does not start coasting at all.
	MinVelocity float64
	// MaxVelocity clamps the release velocity magnitude (px/ms).
	MaxVelocity float64
	// SampleWindow is how many recent touch samples are retained for
	// velocity estimation.
	SampleWindow int
}

// DefaultConfig returns iOS-like coasting behavior.
func DefaultConfig() Config {
	return Config{
		Decay:        0.998,
		MinVelocity:  0.01,
		MaxVelocity:  4.0,
		SampleWindow: 5,
	}
}

type sample struct {
	pos float64
	at  time.Time
}

// Engine is the touch momentum state machine for one pane.
type Engine struct {
	cfg Config

	phase      Phase
	samples    []sample
	velocity   float64 // px per millisecond, sign is scroll direction
	lastStep   time.Time
	generation uint64
}

// NewEngine creates an engine with the given tuning.
func NewEngine(cfg Config) *Engine {
	if cfg.SampleWindow <= 1 {
		cfg.SampleWindow = 2
	}
	return &Engine{cfg: cfg}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Generation returns a token identifying the current gesture. Frame
// callbacks scheduled before a new touch began carry a stale token and are
// rejected by Step.
func (e *Engine) Generation() uint64 {
	return e.generation
}

// TouchStart begins tracking a new touch. Any running coast is cancelled
// immediately: the generation advances so frame callbacks already scheduled
// for the old gesture become no-ops.
func (e *Engine) TouchStart(pos float64, now time.Time) {
	e.generation++
	e.phase = Tracking
	e.velocity = 0
	e.samples = e.samples[:0]
	e.samples = append(e.samples, sample{pos: pos, at: now})
}

// TouchMove records a finger move and returns the pixel delta to feed
// through the scroll pipeline, with the natural-scrolling sign convention:
// finger moving down (increasing position) scrolls content up, so the
// returned delta is previous minus current.
func (e *Engine) TouchMove(pos float64, now time.Time) float64 {
	if e.phase != Tracking || len(e.samples) == 0 {
		return 0
	}
	last := e.samples[len(e.samples)-1]
	e.samples = append(e.samples, sample{pos: pos, at: now})
	if len(e.samples) > e.cfg.SampleWindow {
		e.samples = e.samples[len(e.samples)-e.cfg.SampleWindow:]
	}
	return last.pos - pos
}

// TouchEnd estimates the release velocity from the oldest and newest
// retained samples and, if it clears the minimum threshold, enters the
// coasting phase. It reports whether coasting started.
func (e *Engine) TouchEnd(now time.Time) bool {
	if e.phase != Tracking {
		return false
	}

	if len(e.samples) >= 2 {
		oldest := e.samples[0]
		newest := e.samples[len(e.samples)-1]
		dt := float64(newest.at.Sub(oldest.at).Microseconds()) / 1000.0
		if dt > 0 {
			// Natural scrolling: content delta opposes finger motion.
			e.velocity = (oldest.pos - newest.pos) / dt
		}
	}

	if v := math.Abs(e.velocity); v > e.cfg.MaxVelocity {
		e.velocity = math.Copysign(e.cfg.MaxVelocity, e.velocity)
	}

	e.samples = e.samples[:0]

	if math.Abs(e.velocity) < e.cfg.MinVelocity {
		e.phase = Idle
		e.velocity = 0
		return false
	}

	e.phase = Coasting
	e.lastStep = now
	return true
}

// Step advances the coast by the elapsed time since the previous step and
// returns the synthetic pixel delta for this frame. more=false means the
// coast has terminated (velocity under threshold) or the token is stale
// because a new touch started after this frame was scheduled.
func (e *Engine) Step(gen uint64, now time.Time) (deltaPixels float64, more bool) {
	if gen != e.generation || e.phase != Coasting {
		return 0, false
	}

	elapsed := float64(now.Sub(e.lastStep).Microseconds()) / 1000.0
	if elapsed <= 0 {
		return 0, true
	}
	e.lastStep = now

	e.velocity *= math.Pow(e.cfg.Decay, elapsed)
	deltaPixels = e.velocity * elapsed

	if math.Abs(e.velocity) < e.cfg.MinVelocity {
		e.phase = Idle
		e.velocity = 0
		return deltaPixels, false
	}
	return deltaPixels, true
}

// Cancel stops any tracking or coasting without producing further deltas.
func (e *Engine) Cancel() {
	e.generation++
	e.phase = Idle
	e.velocity = 0
	e.samples = e.samples[:0]
}
