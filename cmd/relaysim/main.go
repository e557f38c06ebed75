// Command relaysim loads a relay-logic document, starts the simulation
// kernel, drives it to a stable state, and prints a snapshot — a thin CLI
// front-end over the relaysim/persist/metrics/logging packages.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pjchick/Relay-Simulator"
	"github.com/pjchick/Relay-Simulator/logging"
	"github.com/pjchick/Relay-Simulator/metrics"
	"github.com/pjchick/Relay-Simulator/persist"
)

// EngineVersion is the kernel's own SemVer, checked against a loaded
// document's version field.
const EngineVersion = "1.0.0"

func main() {
	var (
		path    = flag.String("file", "", "path to a .rsim document")
		logFile = flag.String("log-file", "", "optional path for JSON log output")
		debug   = flag.Bool("debug", false, "set log level to debug")
		timeout = flag.Duration("timeout", 30*time.Second, "run-loop watchdog timeout")
		maxIter = flag.Int("max-iterations", 10000, "oscillation detection iteration cap")
	)
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: relaysim -file path/to/circuit.rsim")
		os.Exit(2)
	}
	if *debug {
		logging.Level.Set(slog.LevelDebug)
	}

	logger, closeLog, err := logging.New(logging.Options{FilePath: *logFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging setup:", err)
		os.Exit(1)
	}
	defer closeLog()

	reg := metrics.NewRegistry()

	if err := run(*path, *timeout, *maxIter, logger, reg); err != nil {
		logger.Error("run failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(path string, timeout time.Duration, maxIterations int, logger *slog.Logger, reg *metrics.Registry) error {
	doc, err := persist.Load(path, EngineVersion)
	if err != nil {
		return err
	}

	engine := relaysim.NewEngine(doc, relaysim.Config{
		MaxIterations: maxIterations,
		Timeout:       timeout,
	})

	engine.OnStable(func(stats relaysim.Statistics) {
		reg.RecordRun("stable", stats.Iterations, stats.TimeToStability, stats.ComponentsUpdated, stats.PeakDirtyCount)
		logger.Info("stable",
			"iterations", stats.Iterations,
			"components_updated", stats.ComponentsUpdated,
			"time_to_stability", stats.TimeToStability.String(),
		)
	})
	reg.EngineStarted()
	defer reg.EngineStopped()

	if err := engine.Start(); err != nil {
		for _, w := range engine.Warnings() {
			logger.Warn(w.Detail, logging.WarningAttrs(w.Kind.String(), w.Subject, w.Detail)...)
		}
		return err
	}

	for _, w := range engine.Warnings() {
		logger.Warn(w.Detail, logging.WarningAttrs(w.Kind.String(), w.Subject, w.Detail)...)
	}

	snap, err := engine.Snapshot()
	if err != nil {
		return err
	}
	printSnapshot(snap)

	return engine.Stop()
}

func printSnapshot(snap relaysim.Snapshot) {
	fmt.Printf("%d components, %d VNETs\n", len(snap.Components), len(snap.VNETs))
	for _, c := range snap.Components {
		fmt.Printf("  %s [%s]", c.ID, c.Type)
		for pin, state := range c.PinStates {
			fmt.Printf(" %s=%s", pin, state)
		}
		fmt.Println()
	}
	for _, v := range snap.VNETs {
		fmt.Printf("  vnet %s = %s (%d members)\n", v.ID, v.State, len(v.Members))
	}
}
