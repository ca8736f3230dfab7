// internal/services/settings_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/kk-storefront/internal/models"
)

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// GetSettings returns every setting with "true"/"false" decoded to booleans.
func (s *SettingsService) GetSettings(ctx context.Context) (map[string]interface{}, error) {
	var rows []models.SiteSetting
	if err := s.db.WithContext(ctx).Order("key ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	settings := make(map[string]interface{}, len(rows))
	for _, row := range rows {
		settings[row.Key] = DecodeSettingValue(row.Value)
	}
	return settings, nil
}

// SaveSettings upserts every key in one transaction.
func (s *SettingsService) SaveSettings(ctx context.Context, values map[string]interface{}) error {
	if len(values) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]models.SiteSetting, 0, len(values))
	for key, value := range values {
		encoded, err := EncodeSettingValue(value)
		if err != nil {
			return fmt.Errorf("setting %q: %w", key, err)
		}
		rows = append(rows, models.SiteSetting{Key: key, Value: encoded, UpdatedAt: now})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&rows[i]).Error; err != nil {
				return fmt.Errorf("failed to save setting %q: %w", rows[i].Key, err)
			}
		}
		return nil
	})
}

func DecodeSettingValue(raw string) interface{} {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	default:
		return raw
	}
}

func EncodeSettingValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
