// FILE: internal/entity/workspace_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type WorkspaceRole string

const (
	WorkspaceRoleOwner  WorkspaceRole = "owner"
	WorkspaceRoleMember WorkspaceRole = "member"
)

type Workspace struct {
	Id               uuid.UUID
	Name             string
	Industry         string
	BusinessOverview string
	CreatedBy        string // identity provider user id
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Relations
	URLs []WorkspaceURL
}

type WorkspaceURL struct {
	Id          uuid.UUID
	WorkspaceId uuid.UUID
	URL         string
	CreatedAt   time.Time
}

type WorkspaceMember struct {
	Id          uuid.UUID
	WorkspaceId uuid.UUID
	UserId      string
	Role        WorkspaceRole
	CreatedAt   time.Time
}
