package models

import "time"

// TeamJoinRequest is a user-initiated, leader-resolved request to join a team.
type TeamJoinRequest struct {
	ID     uint           `gorm:"primaryKey" json:"id"`
	TeamID uint           `gorm:"index;not null" json:"team_id"`
	UserID uint           `gorm:"index;not null" json:"user_id"`
	Status ResponseStatus `gorm:"index;not null;default:pending" json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at"`

	Team *Team `gorm:"constraint:OnDelete:CASCADE" json:"team,omitempty"`
	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
