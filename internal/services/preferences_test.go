package services

import (
	"testing"

	"compresspdf/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate the schema
	err = db.AutoMigrate(&models.UserPreferences{})
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestGetPreferences_CreatesDefault(t *testing.T) {
	service := NewPreferencesService(setupTestDB(t))

	prefs, err := service.GetPreferences()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if prefs == nil {
		t.Fatal("Expected preferences, got nil")
	}
	if prefs.CloudConvertAPIKey != "" || prefs.GhostscriptPath != "" {
		t.Errorf("Expected empty defaults, got %+v", prefs)
	}
}

func TestUpdatePreferences(t *testing.T) {
	db := setupTestDB(t)
	service := NewPreferencesService(db)

	err := service.UpdatePreferences(map[string]any{
		"cloudconvert_api_key": "  key-123 ",
		"ghostscript_path":     "/opt/homebrew/bin/gs",
		"unknown":              "ignored",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Partial update keeps the other value
	if err := service.UpdatePreferences(map[string]any{"ghostscript_path": "/usr/local/bin/gs"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	prefs, err := NewPreferencesService(db).GetPreferences()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if prefs.CloudConvertAPIKey != "key-123" {
		t.Errorf("Expected trimmed api key, got %q", prefs.CloudConvertAPIKey)
	}
	if prefs.GhostscriptPath != "/usr/local/bin/gs" {
		t.Errorf("Expected updated ghostscript path, got %q", prefs.GhostscriptPath)
	}
}

func TestUpdatePreferences_IgnoresWrongTypes(t *testing.T) {
	service := NewPreferencesService(setupTestDB(t))

	if err := service.UpdatePreferences(map[string]any{"cloudconvert_api_key": 42}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	prefs, _ := service.GetPreferences()
	if prefs.CloudConvertAPIKey != "" {
		t.Errorf("Expected api key unchanged, got %q", prefs.CloudConvertAPIKey)
	}
}

func TestPreferencesCredentials(t *testing.T) {
	service := NewPreferencesService(setupTestDB(t))
	_ = service.UpdatePreferences(map[string]any{
		"cloudconvert_api_key": "key-123",
		"ghostscript_path":     "/usr/bin/gs",
	})

	creds, err := service.Credentials()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if creds.RemoteAPIKey != "key-123" || creds.LocalToolPath != "/usr/bin/gs" {
		t.Errorf("Unexpected credentials %+v", creds)
	}
	if !creds.RemoteConfigured() {
		t.Error("Expected remote to be configured")
	}
}
