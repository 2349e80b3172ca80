// ABOUTME: Single-use streaming engine for one playback attempt
// ABOUTME: Maps the sample region and drives a callback stream to completion
package engine

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/edsrzf/mmap-go"
	"github.com/lmarkmann/lowhum/internal/wave"
)

// State tracks the engine through one playback attempt.
type State int32

const (
	StateIdle State = iota
	StateOpening
	StateStreaming
	StateDraining
	StateClosed
)

const (
	// FramesPerBuffer bounds callback latency; at 44.1kHz one buffer
	// is ~46ms, so a stop request takes effect well under 100ms.
	FramesPerBuffer = 2048

	defaultPollInterval = 100 * time.Millisecond
)

// ErrEmptyTrack rejects files whose data chunk holds no complete frame.
var ErrEmptyTrack = errors.New("wav data chunk holds no frames")

// Engine streams one WAV file to one hardware stream. Single use: a
// new playback attempt needs a new Engine, which also gives each
// session a fresh cancellation flag.
type Engine struct {
	opener Opener
	poll   time.Duration

	state atomic.Int32
	stop  atomic.Bool
	done  atomic.Bool
}

// New creates an engine that opens streams through opener.
func New(opener Opener) *Engine {
	return &Engine{opener: opener, poll: defaultPollInterval}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Active reports whether audio is currently flowing or draining.
func (e *Engine) Active() bool {
	s := e.State()
	return s == StateStreaming || s == StateDraining
}

// RequestStop asks the engine to abort. The callback observes the flag
// on its next invocation, the supervising loop on its next poll.
func (e *Engine) RequestStop() {
	e.stop.Store(true)
}

// Run parses the file header, opens a device-bound stream at the
// file's native format, and blocks until the track ends (loop=false),
// RequestStop is called, or the hardware fails. The sample region is
// memory mapped read-only, so file size does not affect memory use.
// Always leaves the engine in StateClosed with all resources released.
func (e *Engine) Run(path string, deviceIndex int, loop bool) error {
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateOpening)) {
		return errors.New("engine already used")
	}
	defer e.state.Store(int32(StateClosed))

	info, err := wave.ParseHeader(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mapping sample data: %w", err)
	}
	defer m.Unmap()

	t := &track{
		data:     m[info.DataOffset : info.DataOffset+info.DataSize],
		channels: int(info.Channels),
		frames:   int(info.Frames()),
	}
	if t.frames == 0 {
		return ErrEmptyTrack
	}

	fill := func(out []int16) {
		if e.stop.Load() || e.done.Load() {
			for i := range out {
				out[i] = 0
			}
			return
		}
		if t.fill(out, loop) {
			e.done.Store(true)
			e.state.Store(int32(StateDraining))
		}
	}

	stream, err := e.opener.Open(Config{
		DeviceIndex:     deviceIndex,
		SampleRate:      int(info.SampleRate),
		Channels:        t.channels,
		FramesPerBuffer: FramesPerBuffer,
	}, fill)
	if err != nil {
		return fmt.Errorf("opening output stream: %w", err)
	}

	e.state.Store(int32(StateStreaming))

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("starting output stream: %w", err)
	}

	for !e.stop.Load() && !e.done.Load() {
		time.Sleep(e.poll)
	}

	// Abort on stop request so the current buffer is cut short; drain
	// on natural end so the zero-filled tail still reaches the device.
	var halt error
	if e.stop.Load() {
		halt = stream.Abort()
	} else {
		halt = stream.Stop()
	}
	if halt != nil {
		log.Printf("Halting output stream: %v", halt)
	}
	return stream.Close()
}
