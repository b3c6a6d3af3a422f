package transport

import (
	"context"
	"log/slog"
	"sync"

	"compresspdf/internal/domain/compression"
	"compresspdf/internal/jobs"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// WailsReporter forwards orchestrator notifications to the frontend as
// runtime events and keeps a copy in the event log.
type WailsReporter struct {
	mu      sync.Mutex
	ctx     context.Context
	events  *jobs.EventBus
	logger  *slog.Logger
	emit    emitFunc
	openURL openURLFunc
}

// NewWailsReporter creates a reporter bound to the Wails runtime context.
func NewWailsReporter(ctx context.Context, events *jobs.EventBus, logger *slog.Logger) *WailsReporter {
	return &WailsReporter{
		ctx:     ctx,
		events:  events,
		logger:  logger,
		emit:    wailsruntime.EventsEmit,
		openURL: wailsruntime.BrowserOpenURL,
	}
}

// NewReporterForTests creates a reporter with injectable runtime functions.
func NewReporterForTests(
	ctx context.Context,
	events *jobs.EventBus,
	logger *slog.Logger,
	emit func(ctx context.Context, eventName string, optionalData ...interface{}),
	openURL func(ctx context.Context, url string),
) *WailsReporter {
	return &WailsReporter{
		ctx:     ctx,
		events:  events,
		logger:  logger,
		emit:    emit,
		openURL: openURL,
	}
}

func (r *WailsReporter) ReportProgress(message string) {
	r.publish(EventProgress, jobs.Event{Type: jobs.EventTypeProgress, Message: message})
}

// ReportSuccess notifies the frontend and reveals the output folder.
func (r *WailsReporter) ReportSuccess(outputDir string) {
	r.publish(EventSuccess, jobs.Event{
		Type:      jobs.EventTypeSuccess,
		Message:   "Your PDF has been compressed",
		OutputDir: outputDir,
	})
	if ctx := r.runtimeContext(); ctx != nil {
		r.openURL(ctx, fileURL(outputDir))
	}
}

func (r *WailsReporter) ReportFailure(message string) {
	r.publish(EventFailure, jobs.Event{Type: jobs.EventTypeFailure, Message: message})
}

func (r *WailsReporter) PromptForMissingConfiguration() {
	r.publish(EventConfigMissing, jobs.Event{
		Type:    jobs.EventTypeFailure,
		Message: compression.MissingConfigurationMessage,
	})
}

// JobChanged publishes a remote job status change.
func (r *WailsReporter) JobChanged(job compression.Job) {
	r.publish(EventJobStatus, jobs.Event{
		Type:      jobs.EventTypeJob,
		RequestID: job.RequestID,
		JobID:     job.ID,
		JobStatus: job.Status,
		Message:   "Job " + string(job.Status),
	})
}

func (r *WailsReporter) publish(name string, event jobs.Event) {
	published := r.events.Publish(event)
	r.logger.Debug("Reporting event", "event", name, "message", published.Message)

	// EventsEmit aborts the process without a runtime context.
	if ctx := r.runtimeContext(); ctx != nil {
		r.emit(ctx, name, published)
	}
}

// Detach stops runtime calls; events are still recorded.
func (r *WailsReporter) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx = nil
}

func (r *WailsReporter) runtimeContext() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx
}
