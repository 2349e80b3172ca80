// ABOUTME: Playback controller and session lifecycle
// ABOUTME: Serializes play/stop across goroutines with a bounded join
package player

import (
	"log"
	"sync"
	"time"

	"github.com/lmarkmann/lowhum/internal/engine"
)

// DefaultJoinTimeout bounds how long Stop waits for the worker. If
// teardown exceeds it, Stop proceeds rather than blocking its caller;
// the worker still releases the hardware stream when it finally exits.
const DefaultJoinTimeout = 2 * time.Second

// Controller owns the one playback session the process may have. Play
// always tears the previous session down completely before opening a
// new stream, so at most one hardware stream is open at any instant.
type Controller struct {
	opener      engine.Opener
	joinTimeout time.Duration

	// opMu serializes the public operations. Each stop-then-register
	// sequence must be atomic with respect to the others: two Plays
	// racing through Stop could both find no session and open
	// overlapping hardware streams.
	opMu sync.Mutex

	// mu guards the session fields below. Held only for bookkeeping,
	// never across the join or any hardware call.
	mu   sync.Mutex
	eng  *engine.Engine
	done chan struct{}
}

// New creates a controller that opens streams through opener.
func New(opener engine.Opener) *Controller {
	return &Controller{opener: opener, joinTimeout: DefaultJoinTimeout}
}

// Playing reports whether a session is currently streaming or draining.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	eng := c.eng
	c.mu.Unlock()
	return eng != nil && eng.Active()
}

// Play starts streaming path on the given device (negative index for
// the OS default), looping if requested. Any prior session is stopped
// first. Returns immediately; playback errors are logged by the worker
// and observable only as Playing turning false.
func (c *Controller) Play(path string, deviceIndex int, loop bool) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.stopSession()

	eng := engine.New(c.opener)
	done := make(chan struct{})

	c.mu.Lock()
	c.eng, c.done = eng, done
	c.mu.Unlock()

	go func() {
		defer close(done)
		if err := eng.Run(path, deviceIndex, loop); err != nil {
			log.Printf("Playback error: %v", err)
		}
	}()
}

// PlayBlocking behaves like Play but runs the engine on the calling
// goroutine and returns when playback ends or Stop cancels it. The
// session is registered as usual, so a concurrent Stop (e.g. from the
// device watcher) interrupts it.
func (c *Controller) PlayBlocking(path string, deviceIndex int, loop bool) error {
	c.opMu.Lock()
	c.stopSession()

	eng := engine.New(c.opener)
	done := make(chan struct{})

	c.mu.Lock()
	c.eng, c.done = eng, done
	c.mu.Unlock()

	// Released before the blocking run so Stop can still interrupt it.
	c.opMu.Unlock()

	err := eng.Run(path, deviceIndex, loop)
	close(done)

	c.mu.Lock()
	if c.eng == eng {
		c.eng, c.done = nil, nil
	}
	c.mu.Unlock()

	return err
}

// Stop cancels the active session and waits, bounded, for its worker
// to finish. Idempotent: a second caller finds no session and returns
// immediately. Each session is fresh engine + fresh cancellation flag,
// so there is nothing to clear afterwards.
func (c *Controller) Stop() {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.stopSession()
}

// stopSession is Stop without the operation lock, for callers that
// already hold opMu.
func (c *Controller) stopSession() {
	c.mu.Lock()
	eng, done := c.eng, c.done
	c.eng, c.done = nil, nil
	c.mu.Unlock()

	if eng == nil {
		return
	}

	eng.RequestStop()

	select {
	case <-done:
	case <-time.After(c.joinTimeout):
		log.Printf("Stop: teardown exceeded %v, continuing without the worker", c.joinTimeout)
	}
}
