// ABOUTME: Headless application loop tying player, watcher, and config
// ABOUTME: Owns device selection and restarts playback around changes
package app

import (
	"context"
	"log"
	"sync"

	"github.com/lmarkmann/lowhum/internal/config"
	"github.com/lmarkmann/lowhum/internal/device"
	"github.com/lmarkmann/lowhum/internal/noise"
)

// Player is the slice of the playback controller the app drives.
type Player interface {
	Play(path string, deviceIndex int, loop bool)
	Stop()
	Playing() bool
}

// App runs looping playback with live device monitoring until its
// context is cancelled. It is the single owner of the device
// selection; the watcher and player only read it through App methods.
type App struct {
	cfg     *config.Config
	player  Player
	catalog device.Catalog

	// Notify, when set, receives user-visible messages such as the
	// reason playback stopped. Defaults to the log.
	Notify func(message string)

	mu        sync.Mutex
	selected  int
	audioFile string
}

// New wires an app from its collaborators.
func New(cfg *config.Config, player Player, catalog device.Catalog) *App {
	return &App{
		cfg:      cfg,
		player:   player,
		catalog:  catalog,
		selected: cfg.DeviceIndex,
	}
}

// SelectDevice switches the output device, restarting playback on the
// new device when audio was running.
func (a *App) SelectDevice(index int) {
	wasPlaying := a.player.Playing()
	if wasPlaying {
		a.player.Stop()
	}

	a.mu.Lock()
	a.selected = index
	path := a.audioFile
	a.mu.Unlock()

	if wasPlaying && path != "" {
		a.player.Play(path, index, true)
	}
}

// SelectedDevice returns the current selection, device.DefaultIndex
// for the system default.
func (a *App) SelectedDevice() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected
}

// Run generates the noise file if needed, starts looping playback, and
// polls for device changes until ctx is cancelled. Playback is stopped
// before returning.
func (a *App) Run(ctx context.Context) error {
	path, err := noise.Ensure(a.cfg.DataDir, a.cfg.Duration)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.audioFile = path
	a.mu.Unlock()

	watcher := device.NewWatcher(a.catalog, a.player, a.cfg.PollInterval)
	watcher.OnChange = a.onDeviceChange
	watcher.Notify = a.notify
	watcher.Prime()

	a.player.Play(path, a.SelectedDevice(), true)

	watcher.Run(ctx)

	a.player.Stop()
	return nil
}

func (a *App) notify(message string) {
	if a.Notify != nil {
		a.Notify(message)
		return
	}
	log.Printf("%s", message)
}

// onDeviceChange drops a selection whose device disappeared, falling
// back to the system default for the next play.
func (a *App) onDeviceChange(devices []device.Device) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.selected == device.DefaultIndex {
		return
	}
	for _, d := range devices {
		if d.Index == a.selected {
			return
		}
	}
	a.selected = device.DefaultIndex
	log.Printf("Selected output device is gone, falling back to system default")
}
