package cloudconvert_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"compresspdf/internal/cloudconvert"
	"compresspdf/internal/cloudconvert/cloudconverttest"
)

func newTestClient(t *testing.T, srv *cloudconverttest.Server, apiKey string) *cloudconvert.Client {
	t.Helper()
	return cloudconvert.New(apiKey, cloudconvert.Options{
		BaseURL:     srv.BaseURL(),
		SyncBaseURL: srv.SyncBaseURL(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func uploadRequest() cloudconvert.JobRequest {
	return cloudconvert.JobRequest{
		Tasks: map[string]cloudconvert.TaskRequest{
			"import-file": {Operation: cloudconvert.OperationImportUpload},
			"export-file": {Operation: cloudconvert.OperationExportURL, Input: []string{"import-file"}},
		},
		Tag: "test",
	}
}

func TestCreateJob(t *testing.T) {
	srv := cloudconverttest.NewServer("secret", nil)
	defer srv.Close()

	job, err := newTestClient(t, srv, "secret").CreateJob(context.Background(), uploadRequest())
	if err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}
	if job.ID == "" {
		t.Fatal("Expected job id")
	}

	task, ok := job.TaskByName("import-file")
	if !ok {
		t.Fatal("Expected import-file task")
	}
	if task.Result == nil || task.Result.Form == nil || task.Result.Form.URL == "" {
		t.Fatalf("Expected upload form, got %+v", task.Result)
	}

	created := srv.Created()
	if len(created) != 1 || created[0].Tag != "test" {
		t.Fatalf("Unexpected create bodies: %+v", created)
	}
}

func TestCreateJob_Unauthorized(t *testing.T) {
	srv := cloudconverttest.NewServer("secret", nil)
	defer srv.Close()

	_, err := newTestClient(t, srv, "wrong").CreateJob(context.Background(), uploadRequest())

	var apiErr *cloudconvert.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Code != "UNAUTHENTICATED" {
		t.Errorf("Unexpected API error: %+v", apiErr)
	}
}

func TestUpload_FieldsBeforeFile(t *testing.T) {
	srv := cloudconverttest.NewServer("secret", nil)
	defer srv.Close()
	client := newTestClient(t, srv, "secret")

	job, err := client.CreateJob(context.Background(), uploadRequest())
	if err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}
	task, _ := job.TaskByName("import-file")

	content := []byte("%PDF-1.4 original")
	if err := client.Upload(context.Background(), task, bytes.NewReader(content), int64(len(content)), "report.pdf"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	uploads := srv.Uploads()
	if len(uploads) != 1 {
		t.Fatalf("Expected 1 upload, got %d", len(uploads))
	}
	got := uploads[0]

	wantFields := []string{"expires", "signature", "file"}
	if strings.Join(got.Fields, ",") != strings.Join(wantFields, ",") {
		t.Errorf("Expected fields %v, got %v", wantFields, got.Fields)
	}
	if got.Values["signature"] != "sig-"+job.ID {
		t.Errorf("Unexpected signature %q", got.Values["signature"])
	}
	if got.Values["expires"] != "1700000000" {
		t.Errorf("Expected expires 1700000000, got %q", got.Values["expires"])
	}
	if got.Filename != "report.pdf" {
		t.Errorf("Expected filename report.pdf, got %q", got.Filename)
	}
	if !bytes.Equal(got.Content, content) {
		t.Errorf("Uploaded content mismatch: %q", got.Content)
	}
}

func TestUpload_NoForm(t *testing.T) {
	client := cloudconvert.New("secret", cloudconvert.Options{})

	err := client.Upload(context.Background(), &cloudconvert.Task{Name: "import-file"}, strings.NewReader("x"), 1, "a.pdf")
	if err == nil {
		t.Fatal("Expected error for task without upload form")
	}
}

func TestWaitJob(t *testing.T) {
	tests := []struct {
		name        string
		upload      bool
		failTask    string
		failMessage string
		wantErr     string
	}{
		{name: "finished", upload: true},
		{name: "task error", upload: true, failTask: "export-file", failMessage: "Export failed", wantErr: "failed in task export-file: Export failed"},
		{name: "nothing uploaded", wantErr: "No file has been uploaded."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := cloudconverttest.NewServer("secret", []byte("small"))
			defer srv.Close()
			srv.FailTask = tt.failTask
			srv.FailMessage = tt.failMessage
			client := newTestClient(t, srv, "secret")

			job, err := client.CreateJob(context.Background(), uploadRequest())
			if err != nil {
				t.Fatalf("CreateJob() error = %v", err)
			}
			if tt.upload {
				task, _ := job.TaskByName("import-file")
				if err := client.Upload(context.Background(), task, strings.NewReader("pdf"), 3, "a.pdf"); err != nil {
					t.Fatalf("Upload() error = %v", err)
				}
			}

			finished, err := client.WaitJob(context.Background(), job.ID)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				if finished == nil || finished.Status != cloudconvert.JobStatusError {
					t.Errorf("Expected job in error status, got %+v", finished)
				}
				return
			}

			if err != nil {
				t.Fatalf("WaitJob() error = %v", err)
			}
			files := finished.ExportURLs()
			if len(files) != 1 || files[0].URL == "" {
				t.Fatalf("Expected one export url, got %+v", files)
			}
		})
	}
}

func TestWaitJob_UsesSyncEndpoint(t *testing.T) {
	srv := cloudconverttest.NewServer("secret", nil)
	defer srv.Close()
	client := newTestClient(t, srv, "secret")

	job, err := client.CreateJob(context.Background(), uploadRequest())
	if err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}
	_, _ = client.WaitJob(context.Background(), job.ID)

	requests := srv.Requests()
	want := "GET /sync/v2/jobs/" + job.ID
	if requests[len(requests)-1] != want {
		t.Errorf("Expected last request %q, got %q", want, requests[len(requests)-1])
	}
}

func TestDownload(t *testing.T) {
	srv := cloudconverttest.NewServer("secret", []byte("%PDF-1.4 compressed"))
	defer srv.Close()
	client := newTestClient(t, srv, "secret")

	dest := filepath.Join(t.TempDir(), "nested", "report-compressed.pdf")
	written, err := client.Download(context.Background(), srv.URL+"/files/report.pdf", dest)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(data) != "%PDF-1.4 compressed" || written != int64(len(data)) {
		t.Errorf("Unexpected output %q (%d bytes written)", data, written)
	}
}

func TestDownload_NotFound(t *testing.T) {
	srv := cloudconverttest.NewServer("secret", nil)
	defer srv.Close()
	srv.DownloadStatus = http.StatusNotFound

	dest := filepath.Join(t.TempDir(), "out.pdf")
	_, err := newTestClient(t, srv, "secret").Download(context.Background(), srv.URL+"/files/out.pdf", dest)
	if err == nil {
		t.Fatal("Expected error for 404 download")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("Expected no output file after failed download")
	}
}
