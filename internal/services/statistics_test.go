package services

import (
	"os"
	"path/filepath"
	"testing"

	"compresspdf/internal/domain/compression"
)

func TestStatisticsRecord(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "report.pdf")
	output := filepath.Join(dir, "report-compressed.pdf")
	if err := os.WriteFile(source, make([]byte, 1000), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(output, make([]byte, 400), 0o644); err != nil {
		t.Fatal(err)
	}

	service := NewStatisticsService()
	service.Record(source, compression.Outcome{Success: true, OutputPath: output})
	service.Record(source, compression.Outcome{ErrorMessage: "failed"})
	// Output missing: counted, but no bytes saved.
	service.Record(source, compression.Outcome{Success: true, OutputPath: filepath.Join(dir, "gone.pdf")})

	stats := service.GetStats()
	if stats.FilesCompressed != 2 {
		t.Errorf("Expected 2 files compressed, got %d", stats.FilesCompressed)
	}
	if stats.FilesFailed != 1 {
		t.Errorf("Expected 1 failed file, got %d", stats.FilesFailed)
	}
	if stats.DataSaved != 600 {
		t.Errorf("Expected 600 bytes saved, got %d", stats.DataSaved)
	}
}
