package engine

import (
	"sync"
	"time"
)

const (
	frameTraceSamplesDefault   = 240
	defaultFrameTraceThreshold = 16667 * time.Microsecond
)

// FramePhaseTimings captures time spent in each frame phase (ms).
type FramePhaseTimings struct {
	DispatchMs float64 `yaml:"dispatch_ms"`
	BuildMs    float64 `yaml:"build_ms"`
	LayoutMs   float64 `yaml:"layout_ms"`
	PaintMs    float64 `yaml:"paint_ms"`
	DrawMs     float64 `yaml:"draw_ms"`
}

// FrameCounts captures per-frame workload indicators.
type FrameCounts struct {
	Dispatches int `yaml:"dispatches"`
	Events     int `yaml:"events"`
	DirtyBuild int `yaml:"dirty_build"`
	Mounted    int `yaml:"mounted"`
	Ops        int `yaml:"ops"`
}

// FrameFlags captures what a frame actually did.
type FrameFlags struct {
	LaidOut   bool `yaml:"laid_out"`
	Painted   bool `yaml:"painted"`
	BuildFail bool `yaml:"build_fail,omitempty"`
}

// FrameSample is a single frame trace sample.
type FrameSample struct {
	Timestamp int64             `yaml:"ts"`
	FrameMs   float64           `yaml:"frame_ms"`
	Phases    FramePhaseTimings `yaml:"phases"`
	Counts    FrameCounts       `yaml:"counts"`
	Flags     FrameFlags        `yaml:"flags"`
}

// FrameTimeline is a chronological view of the trace buffer.
type FrameTimeline struct {
	Samples       []FrameSample `yaml:"samples"`
	DroppedFrames int           `yaml:"dropped_frames"`
	ThresholdMs   float64       `yaml:"threshold_ms"`
}

// FrameTraceBuffer stores recent frame samples in a ring buffer.
type FrameTraceBuffer struct {
	mu        sync.RWMutex
	samples   []FrameSample
	index     int
	count     int
	dropped   int
	threshold time.Duration
}

// NewFrameTraceBuffer creates a new frame trace buffer. Frames slower than
// threshold count as dropped.
func NewFrameTraceBuffer(capacity int, threshold time.Duration) *FrameTraceBuffer {
	if capacity <= 0 {
		capacity = frameTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultFrameTraceThreshold
	}
	return &FrameTraceBuffer{
		samples:   make([]FrameSample, capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *FrameTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Threshold returns the dropped frame threshold.
func (b *FrameTraceBuffer) Threshold() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.threshold
}

// Add records a frame sample and updates dropped frame count.
func (b *FrameTraceBuffer) Add(sample FrameSample, frameDuration time.Duration) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	if frameDuration > b.threshold {
		b.dropped++
	}
	b.mu.Unlock()
}

// Snapshot returns a chronological copy of samples and stats.
func (b *FrameTraceBuffer) Snapshot() FrameTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return FrameTimeline{ThresholdMs: durationToMillis(b.threshold)}
	}

	result := make([]FrameSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}

	return FrameTimeline{
		Samples:       result,
		DroppedFrames: b.dropped,
		ThresholdMs:   durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// phaseTimer measures consecutive frame phases.
type phaseTimer struct {
	start time.Time
}

func startPhase() phaseTimer {
	return phaseTimer{start: time.Now()}
}

// lap returns the time since the last lap in ms and restarts the timer.
func (p *phaseTimer) lap() float64 {
	now := time.Now()
	ms := durationToMillis(now.Sub(p.start))
	p.start = now
	return ms
}
