package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/seesaw/internal/config"
	"github.com/san-kum/seesaw/internal/driver"
	"github.com/san-kum/seesaw/internal/seesaw"
	"github.com/san-kum/seesaw/internal/storage"
)

// loadConfig layers preset, config file, environment and flags, in that
// order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Storage.DataDir = dataDir
	}
	if flags.Changed("storage") {
		cfg.Storage.Backend = backend
	}
	if flags.Changed("seed") {
		cfg.Driver.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.Driver.FrameRate = frameRate
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Server.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

type session struct {
	cfg     *config.Config
	logger  *log.Logger
	store   storage.Store
	journal *storage.Journal
	drv     *driver.Driver
	logFile *os.File
}

// openSession wires the state, store, journal and driver for cfg and
// restores the persisted plank. When quiet is set the log goes to a file in
// the data directory so it does not draw over a full screen front end.
func openSession(cfg *config.Config, quiet bool) (*session, error) {
	s := &session{cfg: cfg}

	var out io.Writer = os.Stderr
	if quiet {
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(filepath.Join(cfg.Storage.DataDir, "seesaw.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		s.logFile, out = f, f
	}
	s.logger = log.New(out, "seesaw: ", log.LstdFlags)

	st, err := seesaw.New(cfg.Params())
	if err != nil {
		s.closeLog()
		return nil, err
	}

	s.store, err = storage.Open(cfg.Storage.Backend, cfg.Storage.DataDir, s.logger)
	if err != nil {
		s.closeLog()
		return nil, err
	}

	opts := driver.Options{
		FrameRate: cfg.Driver.FrameRate,
		Seed:      cfg.Driver.Seed,
		Logger:    s.logger,
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if cfg.Storage.Journal && cfg.Storage.Backend != "memory" {
		s.journal = storage.NewJournal(storage.JournalDir(cfg.Storage.DataDir))
		opts.Journal = s.journal
	}

	s.drv = driver.New(st, s.store, opts)
	s.drv.Open()
	return s, nil
}

// Close saves the final plank and releases the store and journal.
func (s *session) Close() error {
	err := s.drv.Close()
	if s.journal != nil {
		if jerr := s.journal.Close(); jerr != nil && err == nil {
			err = jerr
		}
	}
	if serr := s.store.Close(); serr != nil && err == nil {
		err = serr
	}
	s.closeLog()
	return err
}

func (s *session) closeLog() {
	if s.logFile != nil {
		s.logFile.Close()
		s.logFile = nil
	}
}
