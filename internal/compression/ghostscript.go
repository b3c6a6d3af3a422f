package compression

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domain "compresspdf/internal/domain/compression"
)

// Fixed Ghostscript profile for the local backend.
const (
	ghostscriptDevice        = "pdfwrite"
	ghostscriptCompatibility = "1.4"
	ghostscriptPDFSettings   = "/ebook"
	ghostscriptImageDPI      = 150
)

// GhostscriptArgs returns the argument list used to compress inputPath into
// outputPath.
func GhostscriptArgs(inputPath, outputPath string) []string {
	return []string{
		"-sDEVICE=" + ghostscriptDevice,
		"-dCompatibilityLevel=" + ghostscriptCompatibility,
		"-dPDFSETTINGS=" + ghostscriptPDFSettings,
		"-dNOPAUSE",
		"-dBATCH",
		fmt.Sprintf("-dColorImageResolution=%d", ghostscriptImageDPI),
		"-sOutputFile=" + outputPath,
		inputPath,
	}
}

// LocalBackend compresses PDFs with a locally installed Ghostscript.
type LocalBackend struct {
	toolPath string
	runner   domain.ProcessRunner
	logger   *slog.Logger
}

// NewLocalBackend creates a backend that runs the tool at toolPath.
func NewLocalBackend(toolPath string, runner domain.ProcessRunner, logger *slog.Logger) *LocalBackend {
	return &LocalBackend{
		toolPath: toolPath,
		runner:   runner,
		logger:   logger,
	}
}

// Compress runs Ghostscript and infers success from a zero exit status.
// The output file is not checked afterwards.
func (b *LocalBackend) Compress(ctx context.Context, sourcePath, outputPath string) error {
	if b.toolPath == "" {
		return domain.NewError(domain.KindLocalProcess, "ghostscript", sourcePath, fmt.Errorf("ghostscript path is not set"))
	}

	args := GhostscriptArgs(sourcePath, outputPath)
	b.logger.Debug("Running Ghostscript", "path", b.toolPath, "args", args)

	result, err := b.runner.Run(ctx, b.toolPath, args...)
	if err != nil || result.ExitCode != 0 {
		if err == nil {
			err = fmt.Errorf("exit status %d", result.ExitCode)
		}
		if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
			err = fmt.Errorf("%w, output: %s", err, stderr)
		}
		b.logger.Error("Ghostscript failed", "exit_code", result.ExitCode, "error", err)
		return domain.NewError(domain.KindLocalProcess, "ghostscript", sourcePath, err)
	}

	return nil
}
