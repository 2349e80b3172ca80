// ABOUTME: Output device catalog interface
// ABOUTME: Defines device records and the enumeration contract
package device

import "errors"

// ErrEnumeration wraps audio-subsystem failures during device queries.
// Typically transient; the watcher retries, direct callers surface it.
var ErrEnumeration = errors.New("device enumeration failed")

// DefaultIndex selects the OS default output device.
const DefaultIndex = -1

// Device identifies one output-capable audio device. The index selects
// a device when opening a stream; the name is the comparison key for
// change detection, since indices are not stable across re-enumeration.
type Device struct {
	Index int
	Name  string
}

// Catalog enumerates output devices.
type Catalog interface {
	// OutputDevices returns every device with at least one output
	// channel, in the platform's native enumeration order.
	OutputDevices() ([]Device, error)

	// DefaultOutputDevice returns the index of the OS default output.
	DefaultOutputDevice() (int, error)
}

// NameSet extracts the set of device names for change comparison.
func NameSet(devices []Device) map[string]struct{} {
	names := make(map[string]struct{}, len(devices))
	for _, d := range devices {
		names[d.Name] = struct{}{}
	}
	return names
}

func sameNames(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for name := range a {
		if _, ok := b[name]; !ok {
			return false
		}
	}
	return true
}
