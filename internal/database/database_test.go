package database

import (
	"path/filepath"
	"testing"

	"compresspdf/internal/models"
)

func TestInitialize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "database.sqlite3")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	prefs, err := models.GetOrCreatePreferences(db)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if prefs.ID != 1 {
		t.Errorf("Expected preferences row 1, got %d", prefs.ID)
	}

	// Reopening keeps the same row
	db2, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Expected no error on reopen, got %v", err)
	}
	var count int64
	db2.Model(&models.UserPreferences{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 preferences row, got %d", count)
	}
}
