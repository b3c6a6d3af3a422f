package compression

import (
	"context"
	"log/slog"
	"sync"

	domain "compresspdf/internal/domain/compression"
)

// Prober checks once per process whether the local tool can be run.
type Prober struct {
	toolPath string
	runner   domain.ProcessRunner
	logger   *slog.Logger

	once  sync.Once
	mu    sync.RWMutex
	state domain.ProbeState
	done  chan struct{}
}

// NewProber creates a prober in the pending state.
func NewProber(toolPath string, runner domain.ProcessRunner, logger *slog.Logger) *Prober {
	return &Prober{
		toolPath: toolPath,
		runner:   runner,
		logger:   logger,
		state:    domain.ProbePending,
		done:     make(chan struct{}),
	}
}

// Start launches the probe in the background. Later calls do nothing.
func (p *Prober) Start(ctx context.Context) {
	p.once.Do(func() {
		go p.probe(ctx)
	})
}

// State returns the current probe state without blocking.
func (p *Prober) State() domain.ProbeState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Done is closed once the probe has resolved.
func (p *Prober) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the probe resolves or ctx is done.
func (p *Prober) Wait(ctx context.Context) (domain.ProbeState, error) {
	select {
	case <-p.done:
		return p.State(), nil
	case <-ctx.Done():
		return p.State(), ctx.Err()
	}
}

func (p *Prober) probe(ctx context.Context) {
	state := domain.ProbeUnavailable
	if p.toolPath != "" {
		result, err := p.runner.Run(ctx, p.toolPath, "--version")
		if err == nil && result.ExitCode == 0 {
			state = domain.ProbeAvailable
			p.logger.Info("Ghostscript available", "path", p.toolPath, "version", firstLine(result.Stdout))
		} else {
			p.logger.Warn("Ghostscript probe failed", "path", p.toolPath, "exit_code", result.ExitCode, "error", err)
		}
	} else {
		p.logger.Info("Ghostscript path not configured")
	}

	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
	close(p.done)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			return s[:i]
		}
	}
	return s
}
