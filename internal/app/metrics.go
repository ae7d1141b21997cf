package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/surface/internal/pacer"
)

// Metrics tracks frame loop performance. Counters are atomic so a snapshot
// can be taken from another goroutine while the loop runs.
type Metrics struct {
	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64
	workTotalNs  atomic.Int64
	overruns     atomic.Uint64

	// Presentation
	droppedFrames atomic.Uint64

	// Input
	transitions atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// Initialize min to max int64 so first frame will be smaller
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records one paced frame.
func (m *Metrics) RecordFrame(r pacer.Result) {
	ns := r.Total.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)
	m.workTotalNs.Add(r.Work.Nanoseconds())
	if r.Overrun {
		m.overruns.Add(1)
	}

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordDroppedFrame records a frame whose presentation failed.
func (m *Metrics) RecordDroppedFrame() {
	m.droppedFrames.Add(1)
}

// RecordTransition records a mouse state change.
func (m *Metrics) RecordTransition() {
	m.transitions.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()

	var avgFrameNs, avgWorkNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
		avgWorkNs = m.workTotalNs.Load() / int64(frameCount)
	}

	minFrameNs := m.frameMinNs.Load()
	if minFrameNs == 1<<63-1 {
		minFrameNs = 0
	}

	return MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		FrameCount:     frameCount,
		AvgFrameTimeNs: avgFrameNs,
		MinFrameTimeNs: minFrameNs,
		MaxFrameTimeNs: m.frameMaxNs.Load(),
		LastFrameNs:    m.lastFrameNs.Load(),
		AvgWorkNs:      avgWorkNs,
		Overruns:       m.overruns.Load(),
		DroppedFrames:  m.droppedFrames.Load(),
		Transitions:    m.transitions.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.frameCount.Store(0)
	m.frameTotalNs.Store(0)
	m.frameMinNs.Store(1<<63 - 1)
	m.frameMaxNs.Store(0)
	m.lastFrameNs.Store(0)
	m.workTotalNs.Store(0)
	m.overruns.Store(0)
	m.droppedFrames.Store(0)
	m.transitions.Store(0)
	m.startTime = time.Now()
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTimeNs int64
	MinFrameTimeNs int64
	MaxFrameTimeNs int64
	LastFrameNs    int64
	AvgWorkNs      int64
	Overruns       uint64
	DroppedFrames  uint64
	Transitions    uint64
}

// AvgFPS returns the average frames per second.
func (s MetricsSnapshot) AvgFPS() float64 {
	if s.AvgFrameTimeNs == 0 {
		return 0
	}
	return 1e9 / float64(s.AvgFrameTimeNs)
}

// CurrentFPS returns the FPS based on last frame time.
func (s MetricsSnapshot) CurrentFPS() float64 {
	if s.LastFrameNs == 0 {
		return 0
	}
	return 1e9 / float64(s.LastFrameNs)
}

// DropRate returns the percentage of frames that failed to present.
func (s MetricsSnapshot) DropRate() float64 {
	if s.FrameCount == 0 {
		return 0
	}
	return float64(s.DroppedFrames) / float64(s.FrameCount) * 100
}

// OverrunRate returns the percentage of frames whose work left no room for
// the coarse sleep.
func (s MetricsSnapshot) OverrunRate() float64 {
	if s.FrameCount == 0 {
		return 0
	}
	return float64(s.Overruns) / float64(s.FrameCount) * 100
}

// Fields returns the snapshot as log fields.
func (s MetricsSnapshot) Fields() map[string]any {
	return map[string]any{
		"frames":      s.FrameCount,
		"avg_fps":     s.AvgFPS(),
		"avg_frame":   time.Duration(s.AvgFrameTimeNs).String(),
		"max_frame":   time.Duration(s.MaxFrameTimeNs).String(),
		"avg_work":    time.Duration(s.AvgWorkNs).String(),
		"overruns":    s.Overruns,
		"dropped":     s.DroppedFrames,
		"transitions": s.Transitions,
		"uptime":      s.Uptime.Round(time.Millisecond).String(),
	}
}
