package compression

// Backend is the backend chosen for one request: Remote, Local or
// Unavailable.
type Backend interface {
	Name() string
	isBackend()
}

// Remote selects the CloudConvert job backend.
type Remote struct {
	APIKey string
}

// Local selects the Ghostscript backend.
type Local struct {
	ToolPath string
}

// Unavailable means neither backend can be used.
type Unavailable struct{}

func (Remote) Name() string      { return "remote" }
func (Local) Name() string       { return "local" }
func (Unavailable) Name() string { return "unavailable" }

func (Remote) isBackend()      {}
func (Local) isBackend()       {}
func (Unavailable) isBackend() {}

// SelectBackend applies the selection policy: an API key always wins, then a
// confirmed local tool, otherwise nothing. A pending probe is not confirmed.
func SelectBackend(creds Credentials, local ProbeState) Backend {
	switch {
	case creds.RemoteConfigured():
		return Remote{APIKey: creds.RemoteAPIKey}
	case local == ProbeAvailable && creds.LocalToolPath != "":
		return Local{ToolPath: creds.LocalToolPath}
	default:
		return Unavailable{}
	}
}
