// Package cloudconvert is a small client for the CloudConvert v2 job API,
// limited to what a single-file optimize job needs.
package cloudconvert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL     = "https://api.cloudconvert.com/v2"
	DefaultSyncBaseURL = "https://sync.api.cloudconvert.com/v2"

	maxErrorBody = 64 << 10
)

// Options configures a Client. Zero values fall back to the public endpoints
// and a client without timeout.
type Options struct {
	BaseURL     string
	SyncBaseURL string
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client talks to the CloudConvert API with a single API key.
type Client struct {
	apiKey      string
	baseURL     string
	syncBaseURL string
	httpClient  *http.Client
	logger      *slog.Logger
}

// New creates a client for apiKey.
func New(apiKey string, opts Options) *Client {
	c := &Client{
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		syncBaseURL: strings.TrimRight(opts.SyncBaseURL, "/"),
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.syncBaseURL == "" {
		c.syncBaseURL = DefaultSyncBaseURL
	}
	if c.httpClient == nil {
		// Job waits can take minutes; the service enforces its own limit.
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// CreateJob creates a job with the given tasks.
func (c *Client) CreateJob(ctx context.Context, job JobRequest) (*Job, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	created, err := c.doJob(req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("CloudConvert job created", "job_id", created.ID, "tasks", len(created.Tasks))
	return created, nil
}

// WaitJob blocks until the job reaches a terminal status and returns it.
// A job that ends in error is returned together with a non-nil error.
func (c *Client) WaitJob(ctx context.Context, jobID string) (*Job, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.syncBaseURL+"/jobs/"+jobID, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	job, err := c.doJob(req)
	if err != nil {
		return nil, err
	}

	switch job.Status {
	case JobStatusFinished:
		return job, nil
	case JobStatusError:
		if task, ok := job.FailedTask(); ok && task.Message != "" {
			return job, fmt.Errorf("job %s failed in task %s: %s", job.ID, task.Name, task.Message)
		}
		return job, fmt.Errorf("job %s failed", job.ID)
	default:
		return job, fmt.Errorf("job %s ended in unexpected status %q", job.ID, job.Status)
	}
}

// Upload sends size bytes from r to the upload form of an import/upload task.
// The form parameters come first and the file part last, as the storage
// backend requires.
func (c *Client) Upload(ctx context.Context, task *Task, r io.Reader, size int64, filename string) error {
	if task == nil || task.Result == nil || task.Result.Form == nil || task.Result.Form.URL == "" {
		return fmt.Errorf("task has no upload form")
	}
	form := task.Result.Form

	var head bytes.Buffer
	mw := multipart.NewWriter(&head)

	keys := make([]string, 0, len(form.Parameters))
	for k := range form.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, formValue(form.Parameters[k])); err != nil {
			return fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	if _, err := mw.CreateFormFile("file", filename); err != nil {
		return fmt.Errorf("write file header: %w", err)
	}
	prefix := append([]byte(nil), head.Bytes()...)

	head.Reset()
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}
	suffix := append([]byte(nil), head.Bytes()...)

	body := io.MultiReader(bytes.NewReader(prefix), r, bytes.NewReader(suffix))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, form.URL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = int64(len(prefix)) + size + int64(len(suffix))
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("Uploaded file to CloudConvert", "task_id", task.ID, "bytes", size, "filename", filename)
	return nil
}

// Download streams url into destPath. The file is synced and closed before
// Download returns; the number of bytes written is returned.
func (c *Client) Download(ctx context.Context, url, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("create file %s: %w", destPath, err)
	}

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		file.Close()
		return written, fmt.Errorf("write file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return written, fmt.Errorf("sync file: %w", err)
	}
	if err := file.Close(); err != nil {
		return written, fmt.Errorf("close file: %w", err)
	}

	c.logger.Debug("Downloaded file", "bytes", written, "path", destPath)
	return written, nil
}

func (c *Client) doJob(req *http.Request) (*Job, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}

	var envelope jobEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &envelope.Data, nil
}

// formValue renders a form parameter without exponent notation for numbers
// decoded from JSON.
func formValue(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(data) > 0 {
		_ = json.Unmarshal(data, apiErr)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
