// ABOUTME: Polling watcher for output-device hotplug changes
// ABOUTME: Diffs device-name sets and stops playback when the set changes
package device

import (
	"context"
	"log"
	"time"
)

// DefaultPollInterval is how often the watcher re-enumerates devices.
const DefaultPollInterval = 2 * time.Second

// Playback is the slice of the playback controller the watcher needs.
type Playback interface {
	Playing() bool
	Stop()
}

// Watcher polls the device catalog and reacts to set changes. A change
// while audio is playing stops the stream immediately, since the
// hardware backing it may just have disappeared.
type Watcher struct {
	catalog  Catalog
	playback Playback
	interval time.Duration

	// OnChange is invoked with the fresh device list after every
	// detected change, playing or not. UI collaborators use it to
	// rebuild their device menus. Optional.
	OnChange func(devices []Device)

	// Notify carries a human-readable reason when playback was
	// stopped by a device change. Fire and forget. Optional.
	Notify func(reason string)

	known map[string]struct{}
}

// NewWatcher creates a watcher over catalog that controls playback.
func NewWatcher(catalog Catalog, playback Playback, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		catalog:  catalog,
		playback: playback,
		interval: interval,
	}
}

// Prime records the current device set without reacting to it.
// Call once before Run so the first tick doesn't report a bogus change.
func (w *Watcher) Prime() {
	devices, err := w.catalog.OutputDevices()
	if err != nil {
		return
	}
	w.known = NameSet(devices)
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

// tick re-enumerates once and reacts to any difference. Enumeration
// failures are treated as transient: skip the tick, keep the old set.
func (w *Watcher) tick() {
	devices, err := w.catalog.OutputDevices()
	if err != nil {
		return
	}

	current := NameSet(devices)
	if w.known != nil && sameNames(current, w.known) {
		return
	}
	first := w.known == nil
	w.known = current
	if first {
		return
	}

	if w.playback.Playing() {
		w.playback.Stop()
		log.Printf("Playback stopped: output device set changed")
		if w.Notify != nil {
			w.Notify("Audio stopped: output device changed.")
		}
	}
	if w.OnChange != nil {
		w.OnChange(devices)
	}
}
