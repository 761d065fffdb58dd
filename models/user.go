package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a player account in the system
type User struct {
	gorm.Model

	// Authentication fields
	Handle       string `gorm:"uniqueIndex;not null" json:"handle"`
	PasswordHash string `gorm:"not null" json:"-"`
	TokenVersion int    `gorm:"default:1" json:"-"`

	// Profile information
	Name     *string `json:"name,omitempty"`
	Timezone string  `gorm:"default:'UTC'" json:"timezone"`

	// Matchmaking signal surfaced to team leaders
	LookingForTeam bool `gorm:"default:false" json:"looking_for_team"`

	// Account status
	IsActive bool `gorm:"default:true" json:"is_active"`
	IsAdmin  bool `gorm:"default:false" json:"is_admin"`

	// Relations
	CreatedTeams  []Team              `gorm:"foreignKey:CreatorID" json:"created_teams,omitempty"`
	Requests      []MembershipRequest `gorm:"foreignKey:PlayerID" json:"requests,omitempty"`
	Invitations   []Invitation        `gorm:"foreignKey:PlayerID" json:"invitations,omitempty"`
	RefreshTokens []RefreshToken      `gorm:"foreignKey:UserID" json:"-"`
}

// RefreshToken persists issued refresh tokens so they can be revoked
type RefreshToken struct {
	gorm.Model
	UserID uint `gorm:"not null;index" json:"user_id"`

	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`

	// Relations
	User User `json:"-"`
}
