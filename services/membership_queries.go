package services

import (
	"errors"

	"gorm.io/gorm"

	"squadup/models"
)

// TeamSummary is a team with its live accepted-member count.
type TeamSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	CreatorID   uint   `json:"creator_id"`
	MemberCount int64  `json:"member_count"`
}

// RosterEntry is one accepted member of a team.
type RosterEntry struct {
	UserID uint   `json:"user_id"`
	Handle string `json:"handle"`
}

// RequestView is a join-request as seen by a leader or the requesting player.
type RequestView struct {
	ID           uint                    `json:"id"`
	PlayerID     uint                    `json:"player_id"`
	PlayerHandle string                  `json:"player_handle"`
	TeamID       uint                    `json:"team_id"`
	TeamName     string                  `json:"team_name"`
	CreatorID    uint                    `json:"creator_id"`
	Status       models.MembershipStatus `json:"status"`
}

// InvitationView is a pending invitation as seen by the invited player.
type InvitationView struct {
	ID       uint   `json:"id"`
	TeamID   uint   `json:"team_id"`
	TeamName string `json:"team_name"`
}

// PlayerTeamEntry pairs a player handle with the team they belong to.
type PlayerTeamEntry struct {
	Handle   string `json:"handle"`
	TeamName string `json:"team_name"`
}

// ListTeams returns all teams with their accepted-member counts.
func (ms *MembershipService) ListTeams() ([]TeamSummary, error) {
	var teams []TeamSummary
	err := ms.DB.Model(&models.Team{}).
		Select(`teams.id, teams.name, teams.creator_id,
			(SELECT COUNT(*) FROM membership_requests mr
				WHERE mr.team_id = teams.id AND mr.status = 'accepted'
				AND mr.deleted_at IS NULL) AS member_count`).
		Order("teams.id").
		Scan(&teams).Error
	if err != nil {
		return nil, ms.fail("list teams", err)
	}
	return teams, nil
}

// TeamRoster returns the accepted members of one team.
func (ms *MembershipService) TeamRoster(teamID uint) ([]RosterEntry, error) {
	var team models.Team
	if err := ms.DB.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, ms.fail("team roster", err)
	}

	var roster []RosterEntry
	err := ms.DB.Model(&models.MembershipRequest{}).
		Select("users.id AS user_id, users.handle").
		Joins("JOIN users ON users.id = membership_requests.player_id AND users.deleted_at IS NULL").
		Where("membership_requests.team_id = ? AND membership_requests.status = ?",
			teamID, models.StatusAccepted).
		Order("users.id").
		Scan(&roster).Error
	if err != nil {
		return nil, ms.fail("team roster", err)
	}
	return roster, nil
}

// LookingPlayers returns the candidate pool for leaders: users flagged as
// looking for a team, minus anyone who already holds an accepted membership.
// The subtraction makes a freshly-matched player disappear from the pool
// even when their flag has not been cleared yet.
func (ms *MembershipService) LookingPlayers() ([]models.User, error) {
	var players []models.User
	err := ms.DB.
		Where("looking_for_team = ?", true).
		Where(`id NOT IN (SELECT player_id FROM membership_requests
			WHERE status = 'accepted' AND deleted_at IS NULL)`).
		Order("id").
		Find(&players).Error
	if err != nil {
		return nil, ms.fail("looking players", err)
	}
	return players, nil
}

// PlayersInTeams returns every accepted (player, team) pair.
func (ms *MembershipService) PlayersInTeams() ([]PlayerTeamEntry, error) {
	var entries []PlayerTeamEntry
	err := ms.DB.Model(&models.MembershipRequest{}).
		Select("users.handle, teams.name AS team_name").
		Joins("JOIN users ON users.id = membership_requests.player_id AND users.deleted_at IS NULL").
		Joins("JOIN teams ON teams.id = membership_requests.team_id AND teams.deleted_at IS NULL").
		Where("membership_requests.status = ?", models.StatusAccepted).
		Order("users.id").
		Scan(&entries).Error
	if err != nil {
		return nil, ms.fail("players in teams", err)
	}
	return entries, nil
}

// RequestsFor returns the join-requests visible to the actor: requests for
// teams they created plus requests they filed themselves.
func (ms *MembershipService) RequestsFor(actorID uint) ([]RequestView, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}

	var requests []RequestView
	err := ms.DB.Model(&models.MembershipRequest{}).
		Select(`membership_requests.id, membership_requests.player_id,
			users.handle AS player_handle, membership_requests.team_id,
			teams.name AS team_name, teams.creator_id, membership_requests.status`).
		Joins("JOIN users ON users.id = membership_requests.player_id AND users.deleted_at IS NULL").
		Joins("JOIN teams ON teams.id = membership_requests.team_id AND teams.deleted_at IS NULL").
		Where("teams.creator_id = ? OR membership_requests.player_id = ?", actorID, actorID).
		Order("membership_requests.id").
		Scan(&requests).Error
	if err != nil {
		return nil, ms.fail("requests for actor", err)
	}
	return requests, nil
}

// InvitationsFor returns the actor's pending invitations.
func (ms *MembershipService) InvitationsFor(actorID uint) ([]InvitationView, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}

	var invitations []InvitationView
	err := ms.DB.Model(&models.Invitation{}).
		Select("invitations.id, invitations.team_id, teams.name AS team_name").
		Joins("JOIN teams ON teams.id = invitations.team_id AND teams.deleted_at IS NULL").
		Where("invitations.player_id = ? AND invitations.status = ?",
			actorID, models.StatusPending).
		Order("invitations.id").
		Scan(&invitations).Error
	if err != nil {
		return nil, ms.fail("invitations for actor", err)
	}
	return invitations, nil
}

// SetLookingForTeam flips the actor's matchmaking flag.
func (ms *MembershipService) SetLookingForTeam(actorID uint, looking bool) error {
	if actorID == 0 {
		return ErrUnauthenticated
	}
	res := ms.DB.Model(&models.User{}).Where("id = ?", actorID).
		Update("looking_for_team", looking)
	if res.Error != nil {
		return ms.fail("set looking flag", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
