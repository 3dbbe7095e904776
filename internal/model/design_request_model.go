package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DesignRequest struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string         `gorm:"type:varchar(255);not null"`
	Description string         `gorm:"type:text;not null"`
	Category    string         `gorm:"type:varchar(100);not null"`
	Urgency     string         `gorm:"type:varchar(50);not null"`
	Status      string         `gorm:"type:varchar(50);not null;index"`
	RequestedBy string         `gorm:"type:varchar(255);not null;index"`
	WorkspaceId *uuid.UUID     `gorm:"type:uuid;index"`
	Extra       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (DesignRequest) TableName() string {
	return "design_requests"
}
