// ABOUTME: PortAudio-backed device catalog
// ABOUTME: Filters enumerated devices to output-capable ones
package device

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Initialize brings up the PortAudio runtime. Calls are reference
// counted; pair every Initialize with a Terminate.
func Initialize() error {
	return portaudio.Initialize()
}

// Terminate releases the PortAudio runtime.
func Terminate() error {
	return portaudio.Terminate()
}

// PortAudioCatalog enumerates devices through PortAudio.
type PortAudioCatalog struct{}

// NewPortAudioCatalog returns the real hardware catalog. The caller is
// responsible for Initialize/Terminate bracketing.
func NewPortAudioCatalog() Catalog {
	return PortAudioCatalog{}
}

// OutputDevices returns output-capable devices in enumeration order.
func (PortAudioCatalog) OutputDevices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnumeration, err)
	}

	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		if info.MaxOutputChannels > 0 {
			devices = append(devices, Device{Index: info.Index, Name: info.Name})
		}
	}
	return devices, nil
}

// DefaultOutputDevice returns the index of the OS default output.
func (PortAudioCatalog) DefaultOutputDevice() (int, error) {
	info, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return DefaultIndex, fmt.Errorf("%w: %v", ErrEnumeration, err)
	}
	return info.Index, nil
}
