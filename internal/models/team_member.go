package models

import "gorm.io/datatypes"

// TeamMember is a confirmed (team, user) relationship counted against the
// team's capacity. JoinedAt is a calendar date, not a timestamp.
type TeamMember struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	TeamID   uint           `gorm:"uniqueIndex:idx_team_members_team_user;not null" json:"team_id"`
	UserID   uint           `gorm:"uniqueIndex:idx_team_members_team_user;not null" json:"user_id"`
	JoinedAt datatypes.Date `json:"joined_at"`

	Team *Team `gorm:"constraint:OnDelete:CASCADE" json:"team,omitempty"`
	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
