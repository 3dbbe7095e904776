package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByWorkspaceID struct {
	WorkspaceID uuid.UUID
}

func (s ByWorkspaceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("workspace_id = ?", s.WorkspaceID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ActiveRequests matches requests still on the board, i.e. not yet completed.
type ActiveRequests struct {
	CompletedStatus string
}

func (s ActiveRequests) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", s.CompletedStatus)
}
