package cloudconvert

import "fmt"

// Job statuses reported by the API.
const (
	JobStatusWaiting    = "waiting"
	JobStatusProcessing = "processing"
	JobStatusFinished   = "finished"
	JobStatusError      = "error"
)

// Task operations used by the compression job.
const (
	OperationImportUpload = "import/upload"
	OperationOptimize     = "optimize"
	OperationExportURL    = "export/url"
)

// JobRequest is the body of a job create call.
type JobRequest struct {
	Tasks map[string]TaskRequest `json:"tasks"`
	Tag   string                 `json:"tag,omitempty"`
}

// TaskRequest describes one step of a job. Operation-specific fields are
// omitted when empty.
type TaskRequest struct {
	Operation            string   `json:"operation"`
	Input                []string `json:"input,omitempty"`
	InputFormat          string   `json:"input_format,omitempty"`
	Engine               string   `json:"engine,omitempty"`
	EngineVersion        string   `json:"engine_version,omitempty"`
	Profile              string   `json:"profile,omitempty"`
	FlattenSignatures    *bool    `json:"flatten_signatures,omitempty"`
	Inline               *bool    `json:"inline,omitempty"`
	ArchiveMultipleFiles *bool    `json:"archive_multiple_files,omitempty"`
}

// Job is a job resource as returned by the API.
type Job struct {
	ID     string `json:"id"`
	Tag    string `json:"tag,omitempty"`
	Status string `json:"status"`
	Tasks  []Task `json:"tasks"`
}

// Task is a task resource embedded in a job.
type Task struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Operation string      `json:"operation"`
	Status    string      `json:"status"`
	Message   string      `json:"message,omitempty"`
	Code      string      `json:"code,omitempty"`
	Result    *TaskResult `json:"result,omitempty"`
}

// TaskResult carries the upload form of import tasks and the files of
// export tasks.
type TaskResult struct {
	Form  *UploadForm  `json:"form,omitempty"`
	Files []ResultFile `json:"files,omitempty"`
}

// UploadForm is where an import/upload task expects the file.
type UploadForm struct {
	URL        string         `json:"url"`
	Parameters map[string]any `json:"parameters"`
}

// ResultFile is one file produced by an export task.
type ResultFile struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size,omitempty"`
	URL      string `json:"url"`
}

type jobEnvelope struct {
	Data Job `json:"data"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("cloudconvert: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("cloudconvert: %s (status %d)", e.Message, e.StatusCode)
}

// TaskByName returns the task with the given name.
func (j *Job) TaskByName(name string) (*Task, bool) {
	for i := range j.Tasks {
		if j.Tasks[i].Name == name {
			return &j.Tasks[i], true
		}
	}
	return nil, false
}

// FailedTask returns the first task in error state.
func (j *Job) FailedTask() (*Task, bool) {
	for i := range j.Tasks {
		if j.Tasks[i].Status == JobStatusError {
			return &j.Tasks[i], true
		}
	}
	return nil, false
}

// ExportURLs returns the files of all finished export/url tasks.
func (j *Job) ExportURLs() []ResultFile {
	var files []ResultFile
	for _, task := range j.Tasks {
		if task.Operation != OperationExportURL || task.Status != JobStatusFinished || task.Result == nil {
			continue
		}
		files = append(files, task.Result.Files...)
	}
	return files
}
