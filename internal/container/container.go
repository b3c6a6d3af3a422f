package container

import (
	"context"
	"log/slog"
	"sync"

	"compresspdf/internal/cloudconvert"
	"compresspdf/internal/compression"
	domain "compresspdf/internal/domain/compression"
	"compresspdf/internal/config"
	"compresspdf/internal/jobs"
	"compresspdf/internal/services"
	"compresspdf/internal/transport"

	"gorm.io/gorm"
)

const maxEvents = 200

// Container holds all application dependencies
type Container struct {
	config *config.Config
	db     *gorm.DB
	logger *slog.Logger

	events             *jobs.EventBus
	reporter           *transport.WailsReporter
	dialogs            transport.DialogHandler
	runner             domain.ProcessRunner
	preferencesService *services.PreferencesService
	statisticsService  *services.StatisticsService

	mu           sync.RWMutex
	credentials  domain.Credentials
	prober       *compression.Prober
	orchestrator *compression.Orchestrator
}

// New creates a new dependency injection container and starts the local
// tool probe for creds.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, creds domain.Credentials) *Container {
	c := newContainer(cfg, db)
	c.initServices(ctx, compression.NewExecRunner(), transport.NewWailsReporter(ctx, c.events, c.logger))
	c.Reload(ctx, creds)
	return c
}

// NewForTests creates a container that runs processes through runner and
// records reporter events without a Wails runtime.
func NewForTests(ctx context.Context, cfg *config.Config, db *gorm.DB, creds domain.Credentials, runner domain.ProcessRunner) *Container {
	c := newContainer(cfg, db)
	reporter := transport.NewReporterForTests(ctx, c.events, c.logger,
		func(context.Context, string, ...interface{}) {},
		func(context.Context, string) {},
	)
	c.initServices(ctx, runner, reporter)
	c.Reload(ctx, creds)
	return c
}

func newContainer(cfg *config.Config, db *gorm.DB) *Container {
	return &Container{
		config: cfg,
		db:     db,
		logger: cfg.Logger,
		events: jobs.NewEventBus(maxEvents),
	}
}

func (c *Container) initServices(ctx context.Context, runner domain.ProcessRunner, reporter *transport.WailsReporter) {
	c.reporter = reporter
	c.dialogs = transport.NewDialogsHandler(ctx)
	c.runner = runner
	c.preferencesService = services.NewPreferencesService(c.db)
	c.statisticsService = services.NewStatisticsService()
}

// Reload rebuilds the prober and orchestrator for a new set of credentials.
// Requests already running keep the orchestrator they started with.
func (c *Container) Reload(ctx context.Context, creds domain.Credentials) {
	prober := compression.NewProber(creds.LocalToolPath, c.runner, c.logger)
	prober.Start(ctx)

	orchestrator := compression.NewOrchestrator(creds, prober, c.reporter, c.backends(), c.logger)

	c.mu.Lock()
	c.credentials = creds
	c.prober = prober
	c.orchestrator = orchestrator
	c.mu.Unlock()

	c.logger.Info("Compression backends configured",
		"remote_configured", creds.RemoteConfigured(),
		"ghostscript_path", creds.LocalToolPath)
}

func (c *Container) backends() compression.Backends {
	return compression.Backends{
		Remote: func(apiKey string) domain.Executor {
			client := cloudconvert.New(apiKey, cloudconvert.Options{
				BaseURL:     c.config.CloudConvertBaseURL,
				SyncBaseURL: c.config.CloudConvertSyncBaseURL,
				Logger:      c.logger,
			})
			return compression.NewRemoteBackend(client, c.logger, c.reporter.JobChanged)
		},
		Local: func(toolPath string) domain.Executor {
			return compression.NewLocalBackend(toolPath, c.runner, c.logger)
		},
	}
}

// Shutdown detaches the reporter from the Wails runtime.
func (c *Container) Shutdown() {
	c.reporter.Detach()
}

// Compression is the orchestrator, prober and credentials built by one
// Reload.
type Compression struct {
	Service     domain.Service
	Prober      *compression.Prober
	Credentials domain.Credentials
}

// CurrentCompression returns the backends of the latest Reload as one
// consistent snapshot.
func (c *Container) CurrentCompression() Compression {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Compression{
		Service:     c.orchestrator,
		Prober:      c.prober,
		Credentials: c.credentials,
	}
}

// GetCompressionService returns the current orchestrator
func (c *Container) GetCompressionService() domain.Service {
	return c.CurrentCompression().Service
}

func (c *Container) GetPreferencesService() *services.PreferencesService {
	return c.preferencesService
}

func (c *Container) GetStatisticsService() *services.StatisticsService {
	return c.statisticsService
}

func (c *Container) GetDialogs() transport.DialogHandler {
	return c.dialogs
}

func (c *Container) GetEvents() *jobs.EventBus {
	return c.events
}

func (c *Container) GetConfig() *config.Config {
	return c.config
}
