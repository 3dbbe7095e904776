// FILE: internal/entity/design_request_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string
type RequestUrgency string

const (
	// Kanban board columns, in board order.
	RequestStatusReceived   RequestStatus = "受付中"
	RequestStatusInProgress RequestStatus = "進行中"
	RequestStatusInReview   RequestStatus = "確認待ち"
	RequestStatusDone       RequestStatus = "完了"

	RequestUrgencyNormal RequestUrgency = "通常"
	RequestUrgencyRush   RequestUrgency = "急ぎ"

	RequestCategoryDefault = "その他"
)

// DesignRequest is a task on the board, created from the web form or from
// a Slack conversation.
type DesignRequest struct {
	Id          uuid.UUID
	Title       string
	Description string
	Category    string
	Urgency     RequestUrgency
	Status      RequestStatus
	RequestedBy string // identity provider user id, or slack:<user_id> for Slack-originated tasks
	WorkspaceId *uuid.UUID
	Extra       map[string]interface{} // model-emitted fields beyond the known ones
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
