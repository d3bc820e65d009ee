package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Zuo-Peng/backtime/internal/config"
	"github.com/Zuo-Peng/backtime/internal/source"
	"github.com/Zuo-Peng/backtime/internal/timesheet"
)

type globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

// env is what every command needs: the loaded config, a logger and the
// open timesheet.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	location *time.Location
	ts       *timesheet.Timesheet

	closeLog func() error
}

func loadConfig(g *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if g.dbPath != "" {
		cfg.DBPath = g.dbPath
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	return cfg, nil
}

func openEnv(g *globalFlags) (*env, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger, closeLog := cfg.SetupLogger()
	ts, err := timesheet.Open(cfg.DBPath, timesheet.Options{
		ChunkSize: cfg.ChunkSize,
		Location:  loc,
		Logger:    logger,
	})
	if err != nil {
		closeLog()
		return nil, err
	}
	logger.Debug("opened timesheet", "path", cfg.DBPath, "chunk_size", ts.ChunkSize())

	return &env{cfg: cfg, logger: logger, location: loc, ts: ts, closeLog: closeLog}, nil
}

func (e *env) Close() error {
	err := e.ts.Close()
	if cerr := e.closeLog(); err == nil {
		err = cerr
	}
	return err
}

func (e *env) sourceOptions() source.Options {
	return source.Options{Logger: e.logger, Location: e.location}
}
