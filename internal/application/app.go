package application

import (
	"context"
	"errors"

	"compresspdf/internal/config"
	"compresspdf/internal/container"
	"compresspdf/internal/database"
	domain "compresspdf/internal/domain/compression"
	"compresspdf/internal/jobs"
	"compresspdf/internal/models"
	"compresspdf/internal/services"
)

var errNotInitialized = errors.New("application is not initialized")

type App struct {
	ctx       context.Context
	container *container.Container
	config    *config.Config
}

func NewApp() *App {
	return &App{}
}

func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx

	// Initialize configuration
	cfg := config.New()
	a.config = cfg

	// Initialize database
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		cfg.Logger.Error("Failed to initialize database", "error", err)
		return
	}

	persisted, err := services.NewPreferencesService(db).Credentials()
	if err != nil {
		cfg.Logger.Warn("Failed to load saved credentials", "error", err)
	}

	// Initialize dependency container; this also starts the Ghostscript probe
	a.container = container.New(ctx, cfg, db, cfg.Credentials(persisted))

	cfg.Logger.Info("Wails app initialized successfully",
		"app_data_dir", cfg.AppDataDir,
		"database_path", cfg.DatabasePath)
}

func (a *App) OnShutdown(ctx context.Context) {
	if a.container != nil {
		a.container.Shutdown()
	}
}

// CompressPDF compresses the file at path with the first usable backend.
func (a *App) CompressPDF(path string) CompressionResult {
	if a.container == nil {
		return CompressionResult{Error: errNotInitialized.Error(), ErrorKind: string(domain.KindConfiguration)}
	}

	current := a.container.CurrentCompression()

	// Without an API key the result depends on the local probe, so wait for it
	// instead of treating a running probe as "not installed".
	if !current.Credentials.RemoteConfigured() {
		if _, err := current.Prober.Wait(a.ctx); err != nil {
			a.config.Logger.Warn("Stopped waiting for Ghostscript probe", "error", err)
		}
	}

	outcome := current.Service.Compress(a.ctx, path)
	a.container.GetStatisticsService().Record(path, outcome)
	return newCompressionResult(outcome)
}

func (a *App) OpenFileDialog() (string, error) {
	if a.container == nil {
		return "", errNotInitialized
	}
	return a.container.GetDialogs().OpenFileDialog()
}

func (a *App) OpenFolder(path string) error {
	if a.container == nil {
		return errNotInitialized
	}
	return a.container.GetDialogs().OpenFolder(path)
}

func (a *App) GetPreferences() (*models.UserPreferencesData, error) {
	if a.container == nil {
		return nil, errNotInitialized
	}
	return a.container.GetPreferencesService().GetPreferences()
}

// UpdatePreferences stores the new values and reconfigures the backends.
func (a *App) UpdatePreferences(data map[string]interface{}) error {
	if a.container == nil {
		return errNotInitialized
	}

	prefs := a.container.GetPreferencesService()
	if err := prefs.UpdatePreferences(data); err != nil {
		return err
	}

	persisted, err := prefs.Credentials()
	if err != nil {
		return err
	}
	a.container.Reload(a.ctx, a.config.Credentials(persisted))
	return nil
}

func (a *App) GetAppStatus() AppStatus {
	if a.container == nil {
		return AppStatus{
			LocalInstalled:       domain.ProbeUnavailable,
			ConfigurationMessage: domain.MissingConfigurationMessage,
		}
	}

	current := a.container.CurrentCompression()
	availability := current.Service.Availability()
	status := AppStatus{
		RemoteConfigured: availability.RemoteConfigured,
		LocalInstalled:   availability.LocalInstalled,
		GhostscriptPath:  current.Credentials.LocalToolPath,
		AppDataDir:       a.config.AppDataDir,
		Ready:            availability.RemoteConfigured || availability.LocalInstalled == domain.ProbeAvailable,
	}
	if !status.RemoteConfigured && status.LocalInstalled == domain.ProbeUnavailable {
		status.ConfigurationMessage = domain.MissingConfigurationMessage
	}
	return status
}

func (a *App) GetStats() services.AppStats {
	if a.container == nil {
		return services.AppStats{}
	}
	return a.container.GetStatisticsService().GetStats()
}

// GetEvents returns the compression events recorded after seq.
func (a *App) GetEvents(seq int64) []jobs.Event {
	if a.container == nil {
		return nil
	}
	return a.container.GetEvents().Since(seq)
}
