package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"tableflip.dev/promoreel/pkg/app"
	"tableflip.dev/promoreel/pkg/config"
	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/logging"
)

// env is the configuration, logger and service a command runs with.
type env struct {
	cfg    *config.Config
	svc    *app.Service
	logger *slog.Logger
	close  func()
}

type envOptions struct {
	// logFile sends the log to the configured file instead of stderr.
	logFile bool
	// migrate applies pending content migrations before returning.
	migrate bool
	extra   []slog.Handler
}

func openEnv(ctx context.Context, o envOptions) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	lo := logging.Options{Level: cfg.Log.Level, SentryDSN: cfg.Log.SentryDSN, Extra: o.extra}
	if o.logFile {
		lo.File = cfg.Log.File
	} else {
		lo.Writer = os.Stderr
	}
	logger, cleanup, err := logging.New(lo)
	if err != nil {
		return nil, err
	}
	svc, err := app.Open(ctx, cfg, logger)
	if err != nil {
		cleanup()
		return nil, err
	}
	e := &env{cfg: cfg, svc: svc, logger: logger, close: func() {
		if err := svc.Close(); err != nil {
			logger.Warn("commands: close content store", "error", err)
		}
		cleanup()
	}}
	if o.migrate {
		if _, err := svc.Migrate(ctx); err != nil {
			e.close()
			return nil, err
		}
	}
	return e, nil
}

func (e *env) section(key content.SectionKey) (config.Section, error) {
	sec, ok := e.cfg.Section(key)
	if !ok {
		return config.Section{}, fmt.Errorf("unknown section %q", key)
	}
	return sec, nil
}
