package compression

// ProbeState is the observed availability of the local compression tool.
type ProbeState string

const (
	ProbePending     ProbeState = "pending"
	ProbeAvailable   ProbeState = "available"
	ProbeUnavailable ProbeState = "unavailable"
)

// Credentials holds the backend configuration loaded once at startup.
type Credentials struct {
	RemoteAPIKey  string `json:"remote_api_key,omitempty"`
	LocalToolPath string `json:"local_tool_path,omitempty"`
}

// RemoteConfigured reports whether an API key is present.
func (c Credentials) RemoteConfigured() bool {
	return c.RemoteAPIKey != ""
}

// Availability is a snapshot of which backends can be used.
type Availability struct {
	RemoteConfigured bool       `json:"remote_configured"`
	LocalInstalled   ProbeState `json:"local_installed"`
}

// Request is a validated compression request for a single PDF.
type Request struct {
	sourcePath string
}

// SourcePath returns the absolute path of the file to compress.
func (r Request) SourcePath() string {
	return r.sourcePath
}

// Outcome is the single terminal result of one compression request.
type Outcome struct {
	Success      bool      `json:"success"`
	OutputPath   string    `json:"output_path,omitempty"`
	OutputDir    string    `json:"output_dir,omitempty"`
	Backend      string    `json:"backend,omitempty"`
	ErrorMessage string    `json:"error,omitempty"`
	Kind         ErrorKind `json:"error_kind,omitempty"`
}

// ProcessResult is the awaited result of a child process.
type ProcessResult struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// JobStatus tracks the lifecycle of one remote compression job.
type JobStatus string

const (
	JobStatusImportPending JobStatus = "import-pending"
	JobStatusUploading     JobStatus = "uploading"
	JobStatusConverting    JobStatus = "converting"
	JobStatusExporting     JobStatus = "exporting"
	JobStatusComplete      JobStatus = "complete"
	JobStatusFailed        JobStatus = "failed"
)

// Job is the local view of a remote conversion job.
type Job struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	Status    JobStatus `json:"status"`
}

// MissingConfigurationMessage explains how to make a backend usable.
const MissingConfigurationMessage = "This app requires either a CloudConvert API key or a local installation of Ghostscript. " +
	"Get an API key on cloudconvert.com, or install Ghostscript (for example `brew install ghostscript`) and set its path in preferences."
