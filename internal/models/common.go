// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. IDs are generated by the application,
// never by the database.
type BaseModel struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// EventModel is the base for append-only rows.
type EventModel struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (e *EventModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// JSONB holds free-form JSON objects.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(raw, j)
}

func (JSONB) GormDataType() string {
	return "text"
}

// Enums
type AttributeType string

const (
	AttributeTypeModel    AttributeType = "model"
	AttributeTypeMaterial AttributeType = "material"
	AttributeTypeSize     AttributeType = "size"
	AttributeTypeCategory AttributeType = "category"
)

func (t AttributeType) Valid() bool {
	switch t {
	case AttributeTypeModel, AttributeTypeMaterial, AttributeTypeSize, AttributeTypeCategory:
		return true
	}
	return false
}

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}

type CodeStatus string

const (
	CodeStatusActive   CodeStatus = "active"
	CodeStatusRedeemed CodeStatus = "redeemed"
	CodeStatusDisabled CodeStatus = "disabled"
)
