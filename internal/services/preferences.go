package services

import (
	"strings"

	"compresspdf/internal/domain/compression"
	"compresspdf/internal/models"

	"gorm.io/gorm"
)

// PreferencesService handles user preferences operations
type PreferencesService struct {
	db *gorm.DB
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(db *gorm.DB) *PreferencesService {
	return &PreferencesService{db: db}
}

// GetPreferences gets the current user preferences
func (s *PreferencesService) GetPreferences() (*models.UserPreferencesData, error) {
	prefs, err := models.GetOrCreatePreferences(s.db)
	if err != nil {
		return nil, err
	}

	prefsData := prefs.GetPreferences()
	return &prefsData, nil
}

// UpdatePreferences updates user preferences from a partial map
func (s *PreferencesService) UpdatePreferences(data map[string]any) error {
	prefs, err := models.GetOrCreatePreferences(s.db)
	if err != nil {
		return err
	}

	currentPrefs := prefs.GetPreferences()

	if val, ok := data["cloudconvert_api_key"]; ok {
		if key, ok := val.(string); ok {
			currentPrefs.CloudConvertAPIKey = strings.TrimSpace(key)
		}
	}

	if val, ok := data["ghostscript_path"]; ok {
		if path, ok := val.(string); ok {
			currentPrefs.GhostscriptPath = strings.TrimSpace(path)
		}
	}

	if err := prefs.SetPreferences(currentPrefs); err != nil {
		return err
	}

	return s.db.Save(prefs).Error
}

// Credentials returns the persisted backend credentials.
func (s *PreferencesService) Credentials() (compression.Credentials, error) {
	prefs, err := s.GetPreferences()
	if err != nil {
		return compression.Credentials{}, err
	}

	return compression.Credentials{
		RemoteAPIKey:  prefs.CloudConvertAPIKey,
		LocalToolPath: prefs.GhostscriptPath,
	}, nil
}
