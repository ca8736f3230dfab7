// internal/models/engagement.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	BaseModel
	ProductID  string       `json:"product_id" gorm:"type:varchar(36);not null;index"`
	UserID     string       `json:"user_id" gorm:"size:100;not null;index"`
	UserName   string       `json:"user_name" gorm:"size:255"`
	Rating     int          `json:"rating" gorm:"not null"`
	Content    string       `json:"content" gorm:"type:text"`
	Status     ReviewStatus `json:"status" gorm:"size:20;not null;default:'pending';index"`
	IsFeatured bool         `json:"is_featured"`
}

type Wishlist struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:100;not null;uniqueIndex:idx_wishlists_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_wishlists_user_product;index"`
	CreatedAt time.Time `json:"created_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

type ProductClick struct {
	EventModel
	ProductID string `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Source    string `json:"source" gorm:"size:50"`
}

type PageView struct {
	EventModel
	Path      string `json:"path" gorm:"size:500;not null;index"`
	Referrer  string `json:"referrer" gorm:"size:500"`
	UserAgent string `json:"user_agent" gorm:"size:200"`
}

// SiteSetting values are always strings; booleans are "true"/"false".
type SiteSetting struct {
	Key       string    `json:"key" gorm:"size:100;primaryKey"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Wishlist) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
