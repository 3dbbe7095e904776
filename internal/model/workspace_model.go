package model

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"type:varchar(255);not null"`
	Industry         string    `gorm:"type:varchar(255);not null"`
	BusinessOverview string    `gorm:"type:text"`
	CreatedBy        string    `gorm:"type:varchar(255);not null;index"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`

	// Relations
	URLs []*WorkspaceURL `gorm:"foreignKey:WorkspaceId"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

type WorkspaceURL struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId uuid.UUID `gorm:"type:uuid;not null;index"`
	URL         string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (WorkspaceURL) TableName() string {
	return "workspace_urls"
}

type WorkspaceMember struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId uuid.UUID `gorm:"type:uuid;not null;index:idx_workspace_member,unique"`
	UserId      string    `gorm:"type:varchar(255);not null;index:idx_workspace_member,unique"`
	Role        string    `gorm:"type:varchar(50);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (WorkspaceMember) TableName() string {
	return "workspace_members"
}
