// internal/models/label.go
package models

import (
	"time"
)

// Label is a QR-coded tag bound to a product. Product fields are copied
// onto the label so the public scan page needs no join.
type Label struct {
	BaseModel
	Code             string        `json:"code" gorm:"size:64;uniqueIndex;not null"`
	ProductID        string        `json:"product_id" gorm:"type:varchar(36);index"`
	ProductName      string        `json:"product_name" gorm:"size:255"`
	Series           string        `json:"series" gorm:"size:100"`
	Price            float64       `json:"price"`
	Description      string        `json:"description" gorm:"type:text"`
	Story            string        `json:"story" gorm:"type:text"`
	Material         string        `json:"material" gorm:"size:255"`
	Images           StringList    `json:"images"`
	CareInstructions StringList    `json:"care_instructions"`
	PurchaseLinks    PurchaseLinks `json:"purchase_links"`
	IsActive         bool          `json:"is_active" gorm:"index"`
	ScanCount        int64         `json:"scan_count" gorm:"not null;default:0"`
	LastScannedAt    *time.Time    `json:"last_scanned_at"`
}

type LabelScan struct {
	EventModel
	LabelID   string `json:"label_id" gorm:"type:varchar(36);not null;index"`
	IPHash    string `json:"ip_hash" gorm:"size:64"`
	UserAgent string `json:"user_agent" gorm:"size:200"`
}

// Code is an admin-generated tracking token, distinct from a label code.
type Code struct {
	BaseModel
	Code      string     `json:"code" gorm:"size:16;uniqueIndex;not null"`
	ProductID string     `json:"product_id" gorm:"type:varchar(36);index"`
	Status    CodeStatus `json:"status" gorm:"size:20;not null;default:'active'"`
	ScanCount int64      `json:"scan_count" gorm:"not null;default:0"`
}
