package transport

import "context"

// Event names emitted to the frontend
const (
	EventProgress      = "compression:progress"
	EventSuccess       = "compression:success"
	EventFailure       = "compression:failure"
	EventJobStatus     = "compression:job"
	EventConfigMissing = "config:missing"
)

// DialogHandler wraps the native dialogs used by the frontend
type DialogHandler interface {
	OpenFileDialog() (string, error)
	OpenFolder(path string) error
}

type emitFunc func(ctx context.Context, eventName string, optionalData ...interface{})

type openURLFunc func(ctx context.Context, url string)
