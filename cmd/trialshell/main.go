package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/boardstate/config"
	"github.com/domino14/boardstate/shell"
)

var (
	GitVersion string
)

//go:embed banner.txt
var banner string

// newLogger writes columns of level, message and fields to w.
func newLogger(w io.Writer, debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// startProfile writes a CPU profile to path until the returned function is
// called. An empty path profiles nothing.
func startProfile(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("starting CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func main() {
	fmt.Println(banner)
	fmt.Println(GitVersion)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// game and trial directories are relative to the binary
	if ex, err := os.Executable(); err == nil {
		cfg.AdjustRelativePaths(filepath.Dir(ex))
	}

	log.Logger = newLogger(os.Stderr, cfg.GetBool(config.ConfigDebug))
	zerolog.DefaultContextLogger = &log.Logger
	log.Debug().Interface("config", cfg.SanitizedSettings()).Msg("trialshell-starting")

	stop, err := startProfile(cfg.GetString(config.ConfigCPUProfile))
	if err != nil {
		log.Fatal().Err(err).Msg("profile")
	}
	defer stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	sc := shell.NewShellController(cfg)
	defer sc.Cleanup()

	if commands := strings.TrimSpace(strings.Join(cfg.Args(), " ")); commands != "" {
		sc.Execute(sig, commands)
		return
	}
	go sc.Loop(sig)
	<-sig
	log.Info().Msg("shutting down")
}
