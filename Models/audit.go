package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLog struct {
	gorm.Model
	Entity   string         `json:"entity" gorm:"not null;index"`
	EntityID uint           `json:"entity_id" gorm:"not null;index"`
	Action   string         `json:"action" gorm:"not null"`
	UserID   uint           `json:"user_id"`
	Changes  datatypes.JSON `json:"changes"`
}
