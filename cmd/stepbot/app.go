package main

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/EgorLis/stepbot/internal/config"
	"github.com/EgorLis/stepbot/internal/probe"
	"github.com/EgorLis/stepbot/internal/selector"
	"github.com/EgorLis/stepbot/internal/step"
)

const httpTimeout = 30 * time.Second

// app — общие ресурсы процесса: конфиг, логгер, один http.Client и ядро.
type app struct {
	cfg  config.Config
	log  *zap.Logger
	http *http.Client
	sel  *selector.Selector
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	loc, err := step.NewLocator(cfg.Step.URLTemplate)
	if err != nil {
		return nil, err
	}
	// общий для проб и REST Discord
	hc := &http.Client{Timeout: httpTimeout}
	p := probe.New(hc, cfg.Step.ProbeTimeout, log.Named("probe"))
	sel := selector.New(loc, p, cfg.Selector, selector.WithLogger(log.Named("selector")))

	return &app{cfg: cfg, log: log, http: hc, sel: sel}, nil
}

func (a *app) close() {
	a.http.CloseIdleConnections()
	_ = a.log.Sync()
}

func newLogger(c config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if c.Level != "" {
		lvl, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}
