package specification

import (
	"gorm.io/gorm"
)

// MemberOf restricts workspaces to the ones a user belongs to.
type MemberOf struct {
	UserId string
}

func (s MemberOf) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).
			Table("workspace_members").
			Select("workspace_id").
			Where("user_id = ?", s.UserId),
	)
}
