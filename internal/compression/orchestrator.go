package compression

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	domain "compresspdf/internal/domain/compression"

	"github.com/google/uuid"
)

const progressMessage = "Compressing PDF..."

// Backends builds an executor for the selected backend variant.
type Backends struct {
	Remote func(apiKey string) domain.Executor
	Local  func(toolPath string) domain.Executor
}

// Orchestrator picks a backend per request, runs it, and reports exactly one
// terminal outcome.
type Orchestrator struct {
	creds    domain.Credentials
	local    domain.AvailabilityObserver
	reporter domain.Reporter
	backends Backends
	logger   *slog.Logger
	newID    func() string
}

// NewOrchestrator creates an orchestrator. creds are read once here and never
// re-read.
func NewOrchestrator(
	creds domain.Credentials,
	local domain.AvailabilityObserver,
	reporter domain.Reporter,
	backends Backends,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		creds:    creds,
		local:    local,
		reporter: reporter,
		backends: backends,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Availability returns the current backend availability snapshot.
func (o *Orchestrator) Availability() domain.Availability {
	return domain.Availability{
		RemoteConfigured: o.creds.RemoteConfigured(),
		LocalInstalled:   o.local.State(),
	}
}

// Compress validates sourcePath, runs the selected backend, and returns the
// outcome after notifying the reporter.
func (o *Orchestrator) Compress(ctx context.Context, sourcePath string) domain.Outcome {
	requestID := o.newID()
	ctx = domain.WithRequestID(ctx, requestID)
	logger := o.logger.With("request_id", requestID)

	req, err := domain.NewRequest(sourcePath)
	if err != nil {
		logger.Warn("Rejected compression request", "path", sourcePath, "error", err)
		return o.fail("", err)
	}

	backend := domain.SelectBackend(o.creds, o.local.State())
	var executor domain.Executor
	switch b := backend.(type) {
	case domain.Remote:
		executor = o.backends.Remote(b.APIKey)
	case domain.Local:
		executor = o.backends.Local(b.ToolPath)
	case domain.Unavailable:
		logger.Warn("No compression backend available", "local_probe", o.local.State())
		outcome := o.fail(backend.Name(), domain.NewError(domain.KindConfiguration, "select backend", "", domain.ErrNoBackend))
		o.reporter.PromptForMissingConfiguration()
		return outcome
	default:
		return o.fail("", domain.NewError(domain.KindConfiguration, "select backend", "", fmt.Errorf("unknown backend %T", backend)))
	}

	outputPath := domain.OutputPath(req.SourcePath())
	logger = logger.With("backend", backend.Name())
	logger.Info("Compressing PDF", "source", req.SourcePath(), "output", outputPath)
	o.reporter.ReportProgress(progressMessage)

	if err := runExecutor(ctx, executor, req.SourcePath(), outputPath); err != nil {
		if domain.KindOf(err) == "" {
			err = domain.NewError(kindFor(backend), backend.Name(), req.SourcePath(), err)
		}
		logger.Error("Compression failed", "error", err)
		return o.fail(backend.Name(), err)
	}

	outputDir := filepath.Dir(outputPath)
	logger.Info("Compression finished", "output", outputPath)
	o.reporter.ReportSuccess(outputDir)
	return domain.Outcome{
		Success:    true,
		OutputPath: outputPath,
		OutputDir:  outputDir,
		Backend:    backend.Name(),
	}
}

func (o *Orchestrator) fail(backend string, err error) domain.Outcome {
	message := err.Error()
	o.reporter.ReportFailure(message)
	return domain.Outcome{
		Backend:      backend,
		ErrorMessage: message,
		Kind:         domain.KindOf(err),
	}
}

// runExecutor converts a panicking backend into an error.
func runExecutor(ctx context.Context, executor domain.Executor, sourcePath, outputPath string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	return executor.Compress(ctx, sourcePath, outputPath)
}

func kindFor(backend domain.Backend) domain.ErrorKind {
	if _, ok := backend.(domain.Local); ok {
		return domain.KindLocalProcess
	}
	return domain.KindRemoteOperation
}
