package models

import "gorm.io/gorm"

// TeamCapacity is the maximum number of accepted members per team.
const TeamCapacity = 5

// MembershipStatus is the lifecycle state of a request or invitation
type MembershipStatus string

const (
	StatusPending  MembershipStatus = "pending"
	StatusAccepted MembershipStatus = "accepted"
	StatusDeclined MembershipStatus = "declined"
)

// Terminal reports whether the status can no longer change.
func (s MembershipStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// Team represents a player team with a designated creator
type Team struct {
	gorm.Model
	Name      string `gorm:"not null" json:"name"`
	CreatorID uint   `gorm:"not null;index" json:"creator_id"`

	// Relations
	Creator     User                `gorm:"foreignKey:CreatorID" json:"-"`
	Requests    []MembershipRequest `gorm:"foreignKey:TeamID" json:"requests,omitempty"`
	Invitations []Invitation        `gorm:"foreignKey:TeamID" json:"invitations,omitempty"`
}

// MembershipRequest is a player's ask to join a team. Rows with status
// "accepted" are the authoritative membership relation: accepting an
// invitation also inserts an accepted row here, so the partial unique
// index on (player_id) WHERE status='accepted' holds across both paths.
type MembershipRequest struct {
	gorm.Model
	PlayerID uint             `gorm:"not null;index" json:"player_id"`
	TeamID   uint             `gorm:"not null;index" json:"team_id"`
	Status   MembershipStatus `gorm:"not null;default:'pending'" json:"status"`

	// Relations
	Player User `gorm:"foreignKey:PlayerID" json:"-"`
	Team   Team `gorm:"foreignKey:TeamID" json:"-"`
}

// Invitation is the leader-initiated counterpart of MembershipRequest
type Invitation struct {
	gorm.Model
	TeamID   uint             `gorm:"not null;index" json:"team_id"`
	PlayerID uint             `gorm:"not null;index" json:"player_id"`
	Status   MembershipStatus `gorm:"not null;default:'pending'" json:"status"`

	// Relations
	Team   Team `gorm:"foreignKey:TeamID" json:"-"`
	Player User `gorm:"foreignKey:PlayerID" json:"-"`
}
