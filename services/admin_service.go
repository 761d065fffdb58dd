package services

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"squadup/models"
)

// Admin-level deletions are the only way a creator ever comes off a team.
// Both cascades run in a single transaction so no orphaned queue rows or
// memberships are observable.

// AdminDeleteUser deletes a user together with their memberships, queue
// entries, refresh tokens, and any teams they created (cascading those
// teams' own queues and memberships).
func (ms *MembershipService) AdminDeleteUser(actorID, userID uint) error {
	if _, err := ms.requireAdmin(actorID); err != nil {
		return err
	}

	var user models.User
	if err := ms.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return ms.fail("admin delete user", err)
	}

	err := ms.DB.Transaction(func(tx *gorm.DB) error {
		var ownedTeamIDs []uint
		if err := tx.Model(&models.Team{}).Where("creator_id = ?", userID).
			Pluck("id", &ownedTeamIDs).Error; err != nil {
			return err
		}
		for _, teamID := range ownedTeamIDs {
			if err := deleteTeamCascade(tx, teamID); err != nil {
				return err
			}
		}

		if err := tx.Where("player_id = ?", userID).
			Delete(&models.MembershipRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("player_id = ?", userID).
			Delete(&models.Invitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return ms.fail("admin delete user", err)
	}

	ms.Logger.WithFields(logrus.Fields{
		"user_id": userID,
		"by":      actorID,
	}).Info("user deleted")
	return nil
}

// AdminDeleteTeam deletes a team with its memberships, requests, and
// invitations.
func (ms *MembershipService) AdminDeleteTeam(actorID, teamID uint) error {
	if _, err := ms.requireAdmin(actorID); err != nil {
		return err
	}

	var team models.Team
	if err := ms.DB.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return ms.fail("admin delete team", err)
	}

	err := ms.DB.Transaction(func(tx *gorm.DB) error {
		return deleteTeamCascade(tx, teamID)
	})
	if err != nil {
		return ms.fail("admin delete team", err)
	}

	ms.Logger.WithFields(logrus.Fields{
		"team_id": teamID,
		"by":      actorID,
	}).Info("team deleted")
	return nil
}

func deleteTeamCascade(tx *gorm.DB, teamID uint) error {
	if err := tx.Where("team_id = ?", teamID).
		Delete(&models.MembershipRequest{}).Error; err != nil {
		return err
	}
	if err := tx.Where("team_id = ?", teamID).
		Delete(&models.Invitation{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Team{}, teamID).Error
}

// requireAdmin resolves the actor and checks the admin flag from data, not
// from anything cached on the session.
func (ms *MembershipService) requireAdmin(actorID uint) (*models.User, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}
	var actor models.User
	if err := ms.DB.First(&actor, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, ms.fail("require admin", err)
	}
	if !actor.IsAdmin {
		return nil, ErrNotAdmin
	}
	return &actor, nil
}
