package compression

import (
	"os"
	"path/filepath"
	"strings"
)

const pdfExt = ".pdf"

// NewRequest validates sourcePath and returns an immutable request. Symbolic
// links are rejected; the path must name a regular file itself.
func NewRequest(sourcePath string) (Request, error) {
	path := strings.TrimSpace(sourcePath)
	if path == "" {
		return Request{}, NewError(KindValidation, "validate", "", ErrEmptyPath)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Request{}, NewError(KindValidation, "validate", path, err)
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return Request{}, NewError(KindValidation, "validate", abs, err)
	}
	if !info.Mode().IsRegular() {
		return Request{}, NewError(KindValidation, "validate", abs, ErrNotRegularFile)
	}
	if !strings.EqualFold(filepath.Ext(abs), pdfExt) {
		return Request{}, NewError(KindValidation, "validate", abs, ErrNotPDF)
	}

	return Request{sourcePath: abs}, nil
}

// OutputPath maps <dir>/<name>.pdf to <dir>/<name>-compressed.pdf.
func OutputPath(sourcePath string) string {
	dir := filepath.Dir(sourcePath)
	name := filepath.Base(sourcePath)
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, pdfExt) {
		ext = pdfExt
	} else {
		name = strings.TrimSuffix(name, ext)
	}
	return filepath.Join(dir, name+"-compressed"+ext)
}
