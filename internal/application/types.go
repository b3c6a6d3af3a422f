package application

import domain "compresspdf/internal/domain/compression"

// AppStatus describes which compression backends are usable.
type AppStatus struct {
	RemoteConfigured     bool              `json:"remote_configured"`
	LocalInstalled       domain.ProbeState `json:"local_installed"`
	GhostscriptPath      string            `json:"ghostscript_path"`
	AppDataDir           string            `json:"app_data_dir"`
	Ready                bool              `json:"ready"`
	ConfigurationMessage string            `json:"configuration_message,omitempty"`
}

// CompressionResult is the outcome of one CompressPDF call as seen by the
// frontend.
type CompressionResult struct {
	Success    bool   `json:"success"`
	OutputPath string `json:"output_path,omitempty"`
	OutputDir  string `json:"output_dir,omitempty"`
	Backend    string `json:"backend,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorKind  string `json:"error_kind,omitempty"`
}

func newCompressionResult(outcome domain.Outcome) CompressionResult {
	return CompressionResult{
		Success:    outcome.Success,
		OutputPath: outcome.OutputPath,
		OutputDir:  outcome.OutputDir,
		Backend:    outcome.Backend,
		Error:      outcome.ErrorMessage,
		ErrorKind:  string(outcome.Kind),
	}
}
