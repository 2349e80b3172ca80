// ABOUTME: PortAudio stream backend
// ABOUTME: Opens device-bound int16 callback streams
package engine

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortAudioOpener opens real hardware streams. Requires the PortAudio
// runtime to be initialized (see the device package).
type PortAudioOpener struct{}

// NewPortAudioOpener returns the hardware-backed opener.
func NewPortAudioOpener() Opener {
	return PortAudioOpener{}
}

// Open binds a callback stream to the requested device, or to the OS
// default when cfg.DeviceIndex is negative.
func (PortAudioOpener) Open(cfg Config, fill func(out []int16)) (Stream, error) {
	var dev *portaudio.DeviceInfo
	if cfg.DeviceIndex < 0 {
		d, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("resolving default device: %w", err)
		}
		dev = d
	} else {
		devs, err := portaudio.Devices()
		if err != nil {
			return nil, fmt.Errorf("resolving device %d: %w", cfg.DeviceIndex, err)
		}
		if cfg.DeviceIndex >= len(devs) {
			return nil, fmt.Errorf("device index %d out of range (%d devices)", cfg.DeviceIndex, len(devs))
		}
		dev = devs[cfg.DeviceIndex]
	}

	params := portaudio.HighLatencyParameters(nil, dev)
	params.Output.Channels = cfg.Channels
	params.SampleRate = float64(cfg.SampleRate)
	params.FramesPerBuffer = cfg.FramesPerBuffer

	stream, err := portaudio.OpenStream(params, fill)
	if err != nil {
		return nil, fmt.Errorf("opening portaudio stream: %w", err)
	}
	return &portAudioStream{stream}, nil
}

type portAudioStream struct {
	s *portaudio.Stream
}

func (p *portAudioStream) Start() error { return p.s.Start() }
func (p *portAudioStream) Stop() error  { return p.s.Stop() }
func (p *portAudioStream) Abort() error { return p.s.Abort() }
func (p *portAudioStream) Close() error { return p.s.Close() }
