package specification

import (
	"gorm.io/gorm"
)

type BySlackTeamID struct {
	TeamID string
}

func (s BySlackTeamID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slack_team_id = ?", s.TeamID)
}
