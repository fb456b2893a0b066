package app

import (
	"context"
	"fmt"

	"github.com/doeshing/rxdbg/internal/application/analysis"
	appconfig "github.com/doeshing/rxdbg/internal/application/config"
	"github.com/doeshing/rxdbg/internal/application/doctor"
	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/infrastructure/config"
	"github.com/doeshing/rxdbg/internal/infrastructure/engine"
	"github.com/doeshing/rxdbg/internal/infrastructure/examples"
	"github.com/doeshing/rxdbg/internal/infrastructure/explain"
	"github.com/doeshing/rxdbg/internal/infrastructure/history"
	"github.com/doeshing/rxdbg/internal/infrastructure/kv"
	"github.com/doeshing/rxdbg/internal/pkg/logger"
	"github.com/doeshing/rxdbg/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config          domain.Config
	ConfigProvider  ports.ConfigProvider
	ConfigLoader    *config.FileLoader
	Logger          *logger.ZapLogger
	Matcher         ports.Matcher
	Explainer       ports.Explainer
	Storage         ports.KeyValueStore
	HistoryStore    ports.HistoryRepository
	Examples        ports.ExamplePicker
	AnalysisService *analysis.Service
	DoctorService   *doctor.Service
}

// BuildContainer constructs the dependency graph. Verbose forces debug logging
// regardless of the configured level.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", cfgLoader.Path(), err)
	}

	log, err := newLogger(cfg.Log, verbose)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.MatchTimeout()
	if err != nil {
		return nil, err
	}
	matcher, err := engine.New(cfg.Matcher.Engine, cfg.Matcher.Options(), timeout)
	if err != nil {
		return nil, err
	}

	storage, err := kv.Open(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history storage: %w", err)
	}
	historyStore := history.NewStore(storage,
		history.WithKey(cfg.HistoryKey()),
		history.WithTimestampLayout(cfg.TimestampLayout()),
		history.WithLogger(log),
	)

	explainer := explain.New()
	picker := examples.NewPicker()

	analysisService := &analysis.Service{
		Matcher:   matcher,
		Explainer: explainer,
		History:   historyStore,
		Examples:  picker,
		Logger:    log,
		Record:    cfg.History.Enabled,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Matcher:        matcher,
		Storage:        storage,
		History:        historyStore,
	}

	log.Debug("container ready", map[string]interface{}{
		"engine":  matcher.Name(),
		"backend": cfg.History.Backend,
		"config":  cfgLoader.Path(),
	})

	return &Container{
		Config:          cfg,
		ConfigProvider:  cfgLoader,
		ConfigLoader:    cfgLoader,
		Logger:          log,
		Matcher:         matcher,
		Explainer:       explainer,
		Storage:         storage,
		HistoryStore:    historyStore,
		Examples:        picker,
		AnalysisService: analysisService,
		DoctorService:   doctorService,
	}, nil
}

// AnalysisWith returns a copy of the analysis service using matcher and the
// given recording switch.
func (c *Container) AnalysisWith(matcher ports.Matcher, record bool) *analysis.Service {
	svc := *c.AnalysisService
	if matcher != nil {
		svc.Matcher = matcher
	}
	svc.Record = record
	return &svc
}

// Close releases the storage backend and flushes the logger.
func (c *Container) Close() error {
	c.Logger.Sync()
	return kv.Close(c.Storage)
}

func newLogger(settings domain.LogSettings, verbose bool) (*logger.ZapLogger, error) {
	level := settings.Level
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level, settings.Format)
	if err != nil {
		return nil, fmt.Errorf("configure logger: %w", err)
	}
	return log, nil
}
