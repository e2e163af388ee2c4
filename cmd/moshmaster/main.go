// Command moshmaster is the CLI entrypoint for the moshmaster datamosh
// pipeline.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check), writes a per-frame GOP report (--inspect), or
// runs the normalize/compose/finalize pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/moshmaster/internal/check"
	"github.com/backmassage/moshmaster/internal/config"
	"github.com/backmassage/moshmaster/internal/display"
	"github.com/backmassage/moshmaster/internal/logging"
	"github.com/backmassage/moshmaster/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap phase: the logger doesn't exist yet, so parse and
	// validation errors go directly to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "moshmaster: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "moshmaster: %v\n", err)
		return 1
	}

	log, err := logging.New(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "moshmaster: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(logging.ColorsEnabled(cfg.ColorMode))

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return 0
	}

	// Cancel on SIGINT/SIGTERM so in-flight ffmpeg processes are killed
	// and the workspace is still cleaned up.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, aborting run")
		cancel()
	}()

	if cfg.InspectOnly {
		if err := runInspect(ctx, &cfg, log); err != nil {
			log.Error("%v", err)
			return 1
		}
		return 0
	}

	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	runner := pipeline.New(&cfg, log)
	stats, err := runner.Run(ctx)
	if err != nil {
		log.Error("%v", err)
		logStderrTail(log, err)
		return 1
	}

	log.Info("")
	log.Info("clips:    %d", stats.Clips)
	log.Info("frames:   %d kept / %d dropped (%s of stream)",
		stats.FramesKept, stats.FramesDropped, display.FormatShare(stats.DropShare()))
	log.Info("output:   %s (%s, %s)",
		stats.OutputPath, display.FormatBytes(stats.OutputBytes), display.FormatSeconds(stats.OutputDuration))
	log.Info("elapsed:  %s", display.FormatSeconds(stats.Elapsed.Seconds()))
	return 0
}

// logStderrTail surfaces the collaborator's stderr for the typed errors
// that carry one, at debug level so a plain run stays readable.
func logStderrTail(log *logging.Logger, err error) {
	var stderr string
	var ne *pipeline.NormalizationError
	var ce *pipeline.CompositionError
	var fe *pipeline.FinalizationError
	switch {
	case errors.As(err, &ne):
		stderr = ne.Stderr
	case errors.As(err, &ce):
		stderr = ce.Stderr
	case errors.As(err, &fe):
		stderr = fe.Stderr
	}
	if stderr != "" {
		log.Debug("ffmpeg stderr:\n%s", stderr)
	}
}
