package transport

import (
	"context"
	"strings"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var pdfFileFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "PDF Files (*.pdf)",
		Pattern:     "*.pdf",
	},
}

type dialogsHandler struct {
	ctx     context.Context
	openURL openURLFunc
}

func NewDialogsHandler(ctx context.Context) DialogHandler {
	return &dialogsHandler{
		ctx:     ctx,
		openURL: wailsruntime.BrowserOpenURL,
	}
}

func (h *dialogsHandler) OpenFileDialog() (string, error) {
	selection, err := wailsruntime.OpenFileDialog(h.ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select a PDF file to compress",
		Filters: pdfFileFilter,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(selection), nil
}

// OpenFolder reveals path in the system file manager.
func (h *dialogsHandler) OpenFolder(path string) error {
	h.openURL(h.ctx, fileURL(path))
	return nil
}

func fileURL(path string) string {
	return "file://" + path
}
