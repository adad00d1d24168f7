package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"folio/parallel"
	"folio/site"
	"folio/swatch"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

type CLI struct {
	LogLevel slog.Level `help:"Log level (debug, info, warn, error)" default:"info" env:"FOLIO_LOG_LEVEL"`
	LogFile  string     `help:"Also write logs to this file, rotated by size" env:"FOLIO_LOG_FILE"`
	Workers  int        `help:"Number of parallel workers, 0 for one per CPU" default:"0" env:"FOLIO_WORKERS"`

	Build  site.CLICmd   `cmd:"" help:"Build the portfolio page themed by the avatar"`
	Swatch swatch.CLICmd `cmd:"" help:"Inspect avatar palettes in the terminal"`
}

type logConfig struct {
	Level      slog.Level
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func defaultLogConfig(level slog.Level, file string) logConfig {
	return logConfig{
		Level:      level,
		File:       file,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// newLogger logs text to console, and to a rotating file if one is set. The
// returned closer releases the file.
func newLogger(console io.Writer, conf logConfig) (*slog.Logger, io.Closer) {
	var closer io.Closer = io.NopCloser(nil)
	w := console
	if conf.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAgeDays,
			Compress:   true,
			LocalTime:  true,
		}
		w = io.MultiWriter(console, fileWriter)
		closer = fileWriter
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: conf.Level})), closer
}

func main() {
	// Missing .env is fine; variables already set win.
	_ = godotenv.Load()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("folio"),
		kong.Description("Build a portfolio page themed by colors from its avatar."),
		kong.UsageOnError(),
	)

	logger, logCloser := newLogger(os.Stderr, defaultLogConfig(cli.LogLevel, cli.LogFile))
	slog.SetDefault(logger)
	logger.Debug("running", "command", kctx.Command())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	pool := parallel.Start(ctx, cli.Workers)

	kctx.BindTo(ctx, (*context.Context)(nil))
	err := kctx.Run(logger, pool.Do, pool.Wait)
	pool.Wait(true)
	stop()

	if err != nil {
		logger.Error("command failed", "command", kctx.Command(), "error", err)
	}
	if closeErr := logCloser.Close(); closeErr != nil {
		slog.Error("could not close log file", "name", cli.LogFile, "error", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
