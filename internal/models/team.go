package models

import "time"

// TeamStatus enumerates the lifecycle states a team can be created with.
// The membership core never transitions a team between states on its own.
type TeamStatus string

const (
	TeamStatusForming   TeamStatus = "forming"
	TeamStatusActive    TeamStatus = "active"
	TeamStatusInactive  TeamStatus = "inactive"
	TeamStatusCompleted TeamStatus = "completed"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s TeamStatus) Valid() bool {
	switch s {
	case TeamStatusForming, TeamStatusActive, TeamStatusInactive, TeamStatusCompleted:
		return true
	}
	return false
}

// Team groups users around an event. The leader is the creating user and is
// always a member; MaxUsers of zero means unlimited capacity.
type Team struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	EventID     *uint      `gorm:"index" json:"event_id"`
	LeaderID    uint       `gorm:"index;not null" json:"leader_id"`
	MaxUsers    int        `json:"max_users"`
	Status      TeamStatus `gorm:"index;not null;default:forming" json:"status"`

	Event *Event `gorm:"constraint:OnDelete:SET NULL" json:"event,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
