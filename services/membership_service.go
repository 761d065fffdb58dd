package services

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"squadup/models"
)

// MembershipService is the consistency engine for team membership. Every
// lifecycle transition (create-team, submit, resolve-request, invite,
// resolve-invitation, leave, kick) goes through here; controllers never
// touch membership rows directly.
//
// Multi-statement effects run inside a single transaction, and the
// check-then-write races on capacity and single-team membership are closed
// at the storage layer: a partial unique index allows at most one accepted
// membership row per player, and accepting writes are conditional on the
// team's accepted count still being below capacity.
type MembershipService struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewMembershipService(db *gorm.DB, logger *logrus.Logger) *MembershipService {
	return &MembershipService{
		DB:     db,
		Logger: logger,
	}
}

// acceptedCountSubquery must match the partial index predicate so the CAS
// writes and the index agree on what counts as a member.
const acceptedCountSubquery = `(SELECT COUNT(*) FROM membership_requests
	WHERE team_id = ? AND status = 'accepted' AND deleted_at IS NULL)`

// CreateTeam creates a team owned by the actor and atomically makes the
// actor its first accepted member. A team is never observable without its
// creator on the roster.
func (ms *MembershipService) CreateTeam(actorID uint, name string) (*models.Team, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}

	team := models.Team{
		Name:      name,
		CreatorID: actorID,
	}

	err := ms.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		membership := models.MembershipRequest{
			PlayerID: actorID,
			TeamID:   team.ID,
			Status:   models.StatusAccepted,
		}
		if err := tx.Create(&membership).Error; err != nil {
			// The accepted-membership index fires when the creator is
			// already on a team.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyInTeam
			}
			return err
		}

		// Joining a team in any way retires the matchmaking flag.
		return tx.Model(&models.User{}).Where("id = ?", actorID).
			Update("looking_for_team", false).Error
	})
	if err != nil {
		return nil, ms.fail("create team", err)
	}

	ms.Logger.WithFields(logrus.Fields{
		"team_id":    team.ID,
		"creator_id": actorID,
	}).Info("team created")
	return &team, nil
}

// SubmitRequest files a pending join-request from the actor to a team.
// Rejected when the actor already has a membership, already has a pending
// request to the same team, or the team is at capacity.
func (ms *MembershipService) SubmitRequest(actorID, teamID uint) (*models.MembershipRequest, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}

	var team models.Team
	if err := ms.DB.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, ms.fail("submit request", err)
	}

	var existing models.MembershipRequest
	err := ms.DB.Where("player_id = ? AND status = ?", actorID, models.StatusAccepted).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyInTeam
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ms.fail("submit request", err)
	}

	err = ms.DB.Where("player_id = ? AND team_id = ? AND status = ?",
		actorID, teamID, models.StatusPending).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateRequest
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ms.fail("submit request", err)
	}

	var memberCount int64
	if err := ms.DB.Model(&models.MembershipRequest{}).
		Where("team_id = ? AND status = ?", teamID, models.StatusAccepted).
		Count(&memberCount).Error; err != nil {
		return nil, ms.fail("submit request", err)
	}
	if memberCount >= models.TeamCapacity {
		return nil, ErrTeamFull
	}

	request := models.MembershipRequest{
		PlayerID: actorID,
		TeamID:   teamID,
		Status:   models.StatusPending,
	}
	if err := ms.DB.Create(&request).Error; err != nil {
		// Two concurrent submissions race past the pre-check; the pending
		// index turns the loser into the same duplicate rejection.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRequest
		}
		return nil, ms.fail("submit request", err)
	}

	return &request, nil
}

// ResolveRequest lets the team creator accept or decline a pending request.
// Accepting re-validates capacity and single-team membership at resolution
// time and clears the player's looking-for-team flag.
func (ms *MembershipService) ResolveRequest(actorID, requestID uint, accept bool) (*models.MembershipRequest, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}

	var request models.MembershipRequest
	if err := ms.DB.Preload("Team").First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, ms.fail("resolve request", err)
	}

	if request.Team.CreatorID != actorID {
		return nil, ErrNotTeamCreator
	}
	if request.Status.Terminal() {
		return nil, ErrAlreadyResolved
	}

	if !accept {
		request.Status = models.StatusDeclined
		if err := ms.DB.Model(&request).Update("status", models.StatusDeclined).Error; err != nil {
			return nil, ms.fail("resolve request", err)
		}
		return &request, nil
	}

	err := ms.DB.Transaction(func(tx *gorm.DB) error {
		// Conditional update: only lands while the request is still pending
		// and the team still has room. The accepted-membership index rejects
		// a player who was accepted elsewhere in the meantime.
		res := tx.Exec(`UPDATE membership_requests
			SET status = 'accepted', updated_at = ?
			WHERE id = ? AND status = 'pending' AND deleted_at IS NULL
			AND `+acceptedCountSubquery+` < ?`,
			time.Now(), requestID, request.TeamID, models.TeamCapacity)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return ErrAlreadyInTeam
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Either the team filled up or a concurrent resolution beat us;
			// tell the two cases apart from the current count.
			var count int64
			if err := tx.Model(&models.MembershipRequest{}).
				Where("team_id = ? AND status = ?", request.TeamID, models.StatusAccepted).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= models.TeamCapacity {
				return ErrTeamFull
			}
			return ErrAlreadyResolved
		}

		return tx.Model(&models.User{}).Where("id = ?", request.PlayerID).
			Update("looking_for_team", false).Error
	})
	if err != nil {
		return nil, ms.fail("resolve request", err)
	}

	request.Status = models.StatusAccepted
	ms.Logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"player_id":  request.PlayerID,
		"team_id":    request.TeamID,
	}).Info("join request accepted")
	return &request, nil
}

// InvitePlayer files a pending invitation from the team creator to a player.
func (ms *MembershipService) InvitePlayer(actorID, teamID, playerID uint) (*models.Invitation, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}

	var team models.Team
	if err := ms.DB.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, ms.fail("invite player", err)
	}
	if team.CreatorID != actorID {
		return nil, ErrNotTeamCreator
	}

	var player models.User
	if err := ms.DB.First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, ms.fail("invite player", err)
	}

	var existing models.Invitation
	err := ms.DB.Where("player_id = ? AND team_id = ? AND status = ?",
		playerID, teamID, models.StatusPending).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateInvitation
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ms.fail("invite player", err)
	}

	invitation := models.Invitation{
		TeamID:   teamID,
		PlayerID: playerID,
		Status:   models.StatusPending,
	}
	if err := ms.DB.Create(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateInvitation
		}
		return nil, ms.fail("invite player", err)
	}

	return &invitation, nil
}

// ResolveInvitation lets the invited player accept or decline. Accepting
// inserts the accepted membership, marks the invitation, and clears the
// looking-for-team flag in one transaction; it is refused when the player
// already belongs to a team or the team is at capacity.
func (ms *MembershipService) ResolveInvitation(actorID, invitationID uint, accept bool) (*models.Invitation, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}

	var invitation models.Invitation
	if err := ms.DB.First(&invitation, invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, ms.fail("resolve invitation", err)
	}

	if invitation.PlayerID != actorID {
		return nil, ErrNotYourInvitation
	}
	if invitation.Status.Terminal() {
		return nil, ErrAlreadyResolved
	}

	if !accept {
		invitation.Status = models.StatusDeclined
		if err := ms.DB.Model(&invitation).Update("status", models.StatusDeclined).Error; err != nil {
			return nil, ms.fail("resolve invitation", err)
		}
		return &invitation, nil
	}

	err := ms.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		// Conditional insert of the accepted membership row. The capacity
		// check rides in the statement itself and the accepted-membership
		// index rejects players who already belong to a team.
		res := tx.Exec(`INSERT INTO membership_requests
			(created_at, updated_at, player_id, team_id, status)
			SELECT ?, ?, ?, ?, 'accepted'
			WHERE `+acceptedCountSubquery+` < ?`,
			now, now, actorID, invitation.TeamID, invitation.TeamID, models.TeamCapacity)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return ErrAlreadyInTeam
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTeamFull
		}

		if err := tx.Model(&models.Invitation{}).Where("id = ?", invitationID).
			Update("status", models.StatusAccepted).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", actorID).
			Update("looking_for_team", false).Error
	})
	if err != nil {
		return nil, ms.fail("resolve invitation", err)
	}

	invitation.Status = models.StatusAccepted
	ms.Logger.WithFields(logrus.Fields{
		"invitation_id": invitationID,
		"player_id":     actorID,
		"team_id":       invitation.TeamID,
	}).Info("invitation accepted")
	return &invitation, nil
}

// Leave removes the actor's accepted membership. Team creators are bound to
// their team until admin-level deletion.
func (ms *MembershipService) Leave(actorID uint) error {
	if actorID == 0 {
		return ErrUnauthenticated
	}

	var membership models.MembershipRequest
	err := ms.DB.Preload("Team").
		Where("player_id = ? AND status = ?", actorID, models.StatusAccepted).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return ms.fail("leave team", err)
	}

	if membership.Team.CreatorID == actorID {
		return ErrCreatorCannotLeave
	}

	if err := ms.DB.Delete(&membership).Error; err != nil {
		return ms.fail("leave team", err)
	}

	ms.Logger.WithFields(logrus.Fields{
		"player_id": actorID,
		"team_id":   membership.TeamID,
	}).Info("player left team")
	return nil
}

// Kick removes another player's accepted membership from the actor's team.
// Only the creator may kick, and the creator may not kick themself.
func (ms *MembershipService) Kick(actorID, teamID, playerID uint) error {
	if actorID == 0 {
		return ErrUnauthenticated
	}

	var team models.Team
	if err := ms.DB.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return ms.fail("kick player", err)
	}
	if team.CreatorID != actorID {
		return ErrNotTeamCreator
	}
	if playerID == team.CreatorID {
		return ErrCreatorCannotBeKicked
	}

	res := ms.DB.Where("player_id = ? AND team_id = ? AND status = ?",
		playerID, teamID, models.StatusAccepted).
		Delete(&models.MembershipRequest{})
	if res.Error != nil {
		return ms.fail("kick player", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	ms.Logger.WithFields(logrus.Fields{
		"team_id":   teamID,
		"player_id": playerID,
		"by":        actorID,
	}).Info("player kicked from team")
	return nil
}

// fail logs unexpected storage failures and reports them; sentinel errors
// pass through untouched so controllers can map them.
func (ms *MembershipService) fail(op string, err error) error {
	switch {
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrNotTeamCreator),
		errors.Is(err, ErrNotYourInvitation),
		errors.Is(err, ErrNotAdmin),
		errors.Is(err, ErrAlreadyInTeam),
		errors.Is(err, ErrTeamFull),
		errors.Is(err, ErrCreatorCannotLeave),
		errors.Is(err, ErrCreatorCannotBeKicked),
		errors.Is(err, ErrDuplicateRequest),
		errors.Is(err, ErrDuplicateInvitation),
		errors.Is(err, ErrAlreadyResolved),
		errors.Is(err, ErrNotFound):
		return err
	}

	ms.Logger.WithField("op", op).WithError(err).Error("membership operation failed")
	sentry.CaptureException(err)
	return err
}
