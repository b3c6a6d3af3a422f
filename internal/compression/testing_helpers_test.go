package compression

import (
	"context"
	"io"
	"log/slog"
	"sync"

	domain "compresspdf/internal/domain/compression"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type runCall struct {
	name string
	args []string
}

type fakeRunner struct {
	mu     sync.Mutex
	calls  []runCall
	result domain.ProcessResult
	err    error
	onRun  func(name string, args []string)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (domain.ProcessResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, runCall{name: name, args: append([]string(nil), args...)})
	f.mu.Unlock()
	if f.onRun != nil {
		f.onRun(name, args)
	}
	return f.result, f.err
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeReporter struct {
	mu        sync.Mutex
	progress  []string
	successes []string
	failures  []string
	prompts   int
	order     []string
}

func (r *fakeReporter) ReportProgress(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, message)
	r.order = append(r.order, "progress")
}

func (r *fakeReporter) ReportSuccess(outputDir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, outputDir)
	r.order = append(r.order, "success")
}

func (r *fakeReporter) ReportFailure(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, message)
	r.order = append(r.order, "failure")
}

func (r *fakeReporter) PromptForMissingConfiguration() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts++
	r.order = append(r.order, "prompt")
}

type staticProbe domain.ProbeState

func (s staticProbe) State() domain.ProbeState { return domain.ProbeState(s) }
