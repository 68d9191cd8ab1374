package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/zaqqye/attendance_backend/internal/models"
)

// GetSettings loads the settings row, falling back to defaults when it was never seeded.
func (s *Store) GetSettings(ctx context.Context) (models.PolicySettings, error) {
	var st models.PolicySettings
	err := s.conn(ctx).First(&st, models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(0), nil
	}
	if err != nil {
		return st, fmt.Errorf("get settings: %w", err)
	}
	return st, nil
}

func (s *Store) SaveSettings(ctx context.Context, st *models.PolicySettings) error {
	st.ID = models.SettingsID
	if err := s.conn(ctx).Save(st).Error; err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
