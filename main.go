// ABOUTME: Entry point for the lowhum noise player
// ABOUTME: Dispatches run/start/devices/generate subcommands
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lmarkmann/lowhum/internal/app"
	"github.com/lmarkmann/lowhum/internal/config"
	"github.com/lmarkmann/lowhum/internal/device"
	"github.com/lmarkmann/lowhum/internal/engine"
	"github.com/lmarkmann/lowhum/internal/noise"
	"github.com/lmarkmann/lowhum/internal/player"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: lowhum [command]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Deep brown noise for focus.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run        Loop noise with device monitoring (default)")
	fmt.Fprintln(os.Stderr, "  start      Play in the foreground, Ctrl-C to stop")
	fmt.Fprintln(os.Stderr, "  devices    List audio output devices")
	fmt.Fprintln(os.Stderr, "  generate   Pre-generate the noise file")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Configuration: LOWHUM_DATA_DIR, LOWHUM_DEVICE,")
	fmt.Fprintln(os.Stderr, "LOWHUM_POLL_INTERVAL, LOWHUM_DURATION (or a .env file).")
}

func main() {
	log.SetFlags(log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "run":
		err = cmdRun(cfg)
	case "start":
		err = cmdStart(cfg, args)
	case "devices":
		err = cmdDevices()
	case "generate":
		err = cmdGenerate(cfg, args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// cmdRun is the long-lived mode: looping playback plus the device
// watcher, until SIGINT/SIGTERM.
func cmdRun(cfg *config.Config) error {
	if err := device.Initialize(); err != nil {
		return fmt.Errorf("initializing audio subsystem: %w", err)
	}
	defer device.Terminate()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl := player.New(engine.NewPortAudioOpener())
	a := app.New(cfg, ctrl, device.NewPortAudioCatalog())

	log.Printf("Playing brown noise (Ctrl-C to stop)")
	return a.Run(ctx)
}

// cmdStart plays on the caller's goroutine and returns when the
// stream ends or Ctrl-C cancels it.
func cmdStart(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	dev := fs.Int("device", cfg.DeviceIndex, "Output device index (see `lowhum devices`)")
	loop := fs.Bool("loop", true, "Loop at end of file")
	fs.Parse(args)

	path, err := noise.Ensure(cfg.DataDir, cfg.Duration)
	if err != nil {
		return err
	}

	if err := device.Initialize(); err != nil {
		return fmt.Errorf("initializing audio subsystem: %w", err)
	}
	defer device.Terminate()

	ctrl := player.New(engine.NewPortAudioOpener())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		ctrl.Stop()
	}()

	fmt.Println("Playing brown noise... (Ctrl-C to stop)")
	return ctrl.PlayBlocking(path, *dev, *loop)
}

func cmdDevices() error {
	if err := device.Initialize(); err != nil {
		return fmt.Errorf("initializing audio subsystem: %w", err)
	}
	defer device.Terminate()

	catalog := device.NewPortAudioCatalog()
	devices, err := catalog.OutputDevices()
	if err != nil {
		return err
	}
	defaultIdx, err := catalog.DefaultOutputDevice()
	if err != nil {
		return err
	}

	for _, d := range devices {
		marker := ""
		if d.Index == defaultIdx {
			marker = " (default)"
		}
		fmt.Printf("  [%d] %s%s\n", d.Index, d.Name, marker)
	}
	return nil
}

func cmdGenerate(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing noise file")
	fs.Parse(args)

	path := filepath.Join(cfg.DataDir, noise.FileName)
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Printf("Audio file already exists at %s (use -force to regenerate)\n", path)
		return nil
	}

	if err := noise.Generate(path, cfg.Duration); err != nil {
		return err
	}
	fmt.Printf("Saved to %s\n", path)
	return nil
}
