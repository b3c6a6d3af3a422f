package compression

import "context"

// Reporter is the presentation collaborator notified by the orchestrator.
type Reporter interface {
	ReportProgress(message string)
	ReportSuccess(outputDir string)
	ReportFailure(message string)
	PromptForMissingConfiguration()
}

// Executor compresses sourcePath into outputPath using one backend.
type Executor interface {
	Compress(ctx context.Context, sourcePath, outputPath string) error
}

// ProcessRunner spawns a child process and waits for it to exit.
type ProcessRunner interface {
	Run(ctx context.Context, name string, args ...string) (ProcessResult, error)
}

// AvailabilityObserver exposes the current local tool probe state.
type AvailabilityObserver interface {
	State() ProbeState
}

// Service runs compression requests and reports backend availability.
type Service interface {
	Compress(ctx context.Context, sourcePath string) Outcome
	Availability() Availability
}
