// Command pmand runs the signal/event dispatch subsystem as a standalone
// service. It has no real kernel to talk to — task/thread tables, the
// scheduler, message transport, and the interrupt helper are all modeled
// as narrow interfaces in internal/kernel (spec.md's external-collaborator
// boundary) — so this binary backs them with kernel.Fake and seeds one
// demo task and thread, giving the dispatch loop something to
// run against outside of the test suite.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	catrate "github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"golang.org/x/sys/unix"

	"github.com/ahamid/pmansignal/internal/config"
	"github.com/ahamid/pmansignal/internal/kernel"
	"github.com/ahamid/pmansignal/internal/sigsvc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pmand:", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var logLevel string
	flag.StringVar(&configPath, "config", "", "path to a TOML config file (optional)")
	flag.StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warning, error)")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(level),
	)

	collab, seeded := demoCollaborators()
	log.Info().Int(`tasks`, seeded).Log(`seeded demo kernel collaborators`)

	svc := sigsvc.New(collab, log)
	if cfg.RateLimit.Enabled {
		svc.SetRateLimiter(catrate.NewLimiter(cfg.RateLimit.Rates()))
	}
	dispatcher := sigsvc.NewDispatcher(svc, cfg.SignalsPortBuffer, cfg.EventsPortBuffer)

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	log.Info().Dur(`tick_period`, cfg.TickPeriod).Log(`pmand dispatch loop starting`)
	ticker := time.NewTicker(cfg.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Log(`pmand shutting down`)
			return nil
		case <-ticker.C:
			svc.TimerTick()
			dispatcher.Step()
		}
	}
}

func parseLevel(name string) (logiface.Level, error) {
	switch name {
	case "debug":
		return logiface.LevelDebug, nil
	case "info", "":
		return logiface.LevelInformational, nil
	case "warning":
		return logiface.LevelWarning, nil
	case "error":
		return logiface.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

// demoCollaborators seeds a single demo task/thread pair so the dispatch
// loop has somewhere to route WAIT/DISCARD/EVENT traffic against when
// pmand is run without a real kernel wired in.
func demoCollaborators() (kernel.Collaborators, int) {
	fake := kernel.NewFake()
	fake.AddTask(&kernel.Task{ID: 1, State: kernel.TaskRunning, VMM: kernel.VMMInfo{MaxAddr: 0x7fffffffffff}})
	fake.AddThread(&kernel.Thread{ID: 1, TaskID: 1, State: kernel.ThrRunning})
	return fake.Collaborators(), 1
}
