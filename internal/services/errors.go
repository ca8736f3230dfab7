// internal/services/errors.go
package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrSeriesInUse         = errors.New("series is referenced by products")
	ErrSlugTaken           = errors.New("slug already in use")
	ErrAttributeExists     = errors.New("attribute already exists")
	ErrLabelExists         = errors.New("label code already exists")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrAIUnavailable       = errors.New("ai provider not configured")
	ErrGenerationFailed    = errors.New("product generation failed")
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrCounterFailed       = errors.New("page-view counter update failed")
)

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
