// internal/models/audit.go
package models

type AuditLog struct {
	EventModel
	UserID       string `json:"user_id" gorm:"size:100;index"`
	Action       string `json:"action" gorm:"size:100;not null;index"`
	ResourceType string `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string `json:"resource_id" gorm:"size:100;index"`
	NewValues    JSONB  `json:"new_values"`
	IPAddress    string `json:"ip_address" gorm:"size:45"`
	UserAgent    string `json:"user_agent" gorm:"type:text"`
}
