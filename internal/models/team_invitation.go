package models

import "time"

// ResponseStatus is the shared lifecycle for invitations and join requests.
// Both start pending and move exactly once to accepted or declined.
type ResponseStatus string

const (
	ResponsePending  ResponseStatus = "pending"
	ResponseAccepted ResponseStatus = "accepted"
	ResponseDeclined ResponseStatus = "declined"
)

// TeamInvitation is a leader-initiated, invitee-resolved request to add a
// specific user to a team.
type TeamInvitation struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	TeamID          uint           `gorm:"index;not null" json:"team_id"`
	InvitedByUserID uint           `gorm:"not null" json:"invited_by_user_id"`
	InvitedUserID   uint           `gorm:"index;not null" json:"invited_user_id"`
	Status          ResponseStatus `gorm:"index;not null;default:pending" json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at"`

	Team *Team `gorm:"constraint:OnDelete:CASCADE" json:"team,omitempty"`
}
