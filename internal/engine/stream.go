// ABOUTME: Hardware stream abstraction for the engine
// ABOUTME: Lets tests substitute the audio backend with doubles
package engine

// Config describes the stream the engine needs: the file's native
// format on a chosen device. DeviceIndex < 0 selects the OS default.
type Config struct {
	DeviceIndex     int
	SampleRate      int
	Channels        int
	FramesPerBuffer int
}

// Stream is an open hardware output stream. Stop drains queued
// buffers before halting; Abort discards them.
type Stream interface {
	Start() error
	Stop() error
	Abort() error
	Close() error
}

// Opener creates device-bound callback streams. fill is invoked by the
// audio backend on its own real-time thread, once per buffer, and must
// completely overwrite out each time.
type Opener interface {
	Open(cfg Config, fill func(out []int16)) (Stream, error)
}
