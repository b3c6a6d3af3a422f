package compression

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"compresspdf/internal/cloudconvert"
	domain "compresspdf/internal/domain/compression"
	"compresspdf/internal/jobs"
)

// Task names of the compression job.
const (
	TaskImport   = "import-file"
	TaskCompress = "compress-file"
	TaskExport   = "export-file"

	jobTag = "compress-pdf"
)

// JobAPI is the subset of the CloudConvert client used by RemoteBackend.
type JobAPI interface {
	CreateJob(ctx context.Context, job cloudconvert.JobRequest) (*cloudconvert.Job, error)
	Upload(ctx context.Context, task *cloudconvert.Task, r io.Reader, size int64, filename string) error
	WaitJob(ctx context.Context, jobID string) (*cloudconvert.Job, error)
	Download(ctx context.Context, url, destPath string) (int64, error)
}

// CompressJobRequest returns the fixed import -> optimize -> export job.
func CompressJobRequest() cloudconvert.JobRequest {
	no := false
	return cloudconvert.JobRequest{
		Tasks: map[string]cloudconvert.TaskRequest{
			TaskImport: {
				Operation: cloudconvert.OperationImportUpload,
			},
			TaskCompress: {
				Operation:         cloudconvert.OperationOptimize,
				Input:             []string{TaskImport},
				InputFormat:       "pdf",
				Engine:            "3heights",
				EngineVersion:     "6.12",
				Profile:           "web",
				FlattenSignatures: &no,
			},
			TaskExport: {
				Operation:            cloudconvert.OperationExportURL,
				Input:                []string{TaskCompress},
				Inline:               &no,
				ArchiveMultipleFiles: &no,
			},
		},
		Tag: jobTag,
	}
}

// RemoteBackend compresses PDFs through a CloudConvert job.
type RemoteBackend struct {
	api    JobAPI
	logger *slog.Logger
	onJob  func(domain.Job)
}

// NewRemoteBackend creates a backend on top of api. onJob receives every job
// status change and may be nil.
func NewRemoteBackend(api JobAPI, logger *slog.Logger, onJob func(domain.Job)) *RemoteBackend {
	return &RemoteBackend{
		api:    api,
		logger: logger,
		onJob:  onJob,
	}
}

// Compress creates a job, uploads sourcePath, waits for the job, and streams
// the exported file to outputPath. Each step must succeed before the next
// one starts.
func (b *RemoteBackend) Compress(ctx context.Context, sourcePath, outputPath string) error {
	tracker := jobs.NewTracker(domain.RequestIDFrom(ctx), b.onJob)
	if err := b.run(ctx, tracker, sourcePath, outputPath); err != nil {
		tracker.Fail()
		return err
	}
	return nil
}

func (b *RemoteBackend) run(ctx context.Context, tracker *jobs.Tracker, sourcePath, outputPath string) error {
	job, err := b.api.CreateJob(ctx, CompressJobRequest())
	if err != nil {
		return remoteError("create job", sourcePath, err)
	}
	if err := tracker.Created(job.ID); err != nil {
		return remoteError("create job", sourcePath, err)
	}
	logger := b.logger.With("job_id", job.ID)

	importTask, ok := job.TaskByName(TaskImport)
	if !ok {
		return remoteError("upload", sourcePath, fmt.Errorf("job %s has no %s task", job.ID, TaskImport))
	}
	advance(tracker, logger, domain.JobStatusUploading)
	if err := b.upload(ctx, importTask, sourcePath); err != nil {
		return remoteError("upload", sourcePath, err)
	}
	logger.Info("Uploaded source file", "path", sourcePath)

	advance(tracker, logger, domain.JobStatusConverting)
	finished, err := b.api.WaitJob(ctx, job.ID)
	if err != nil {
		return remoteError("wait for job", sourcePath, err)
	}

	advance(tracker, logger, domain.JobStatusExporting)
	url, err := firstExportURL(finished)
	if err != nil {
		return remoteError("resolve result", sourcePath, err)
	}

	written, err := b.api.Download(ctx, url, outputPath)
	if err != nil {
		return remoteError("download", sourcePath, err)
	}

	advance(tracker, logger, domain.JobStatusComplete)
	logger.Info("Downloaded compressed file", "path", outputPath, "bytes", written)
	return nil
}

func (b *RemoteBackend) upload(ctx context.Context, task *cloudconvert.Task, sourcePath string) error {
	file, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	return b.api.Upload(ctx, task, file, info.Size(), filepath.Base(sourcePath))
}

// advance moves the tracker to status. A rejected transition only affects
// status reporting, so it is logged and the job continues.
func advance(tracker *jobs.Tracker, logger *slog.Logger, status domain.JobStatus) {
	if err := tracker.Transition(status); err != nil {
		logger.Warn("Job status not updated", "status", status, "error", err)
	}
}

func firstExportURL(job *cloudconvert.Job) (string, error) {
	if job == nil {
		return "", domain.ErrNoExportURL
	}
	files := job.ExportURLs()
	if len(files) == 0 || files[0].URL == "" {
		return "", domain.ErrNoExportURL
	}
	return files[0].URL, nil
}

func remoteError(op, path string, err error) error {
	return domain.NewError(domain.KindRemoteOperation, op, path, err)
}
