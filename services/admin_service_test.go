package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"squadup/models"
)

func createAdmin(t *testing.T, db *gorm.DB, handle string) *models.User {
	t.Helper()
	admin := models.User{Handle: handle, PasswordHash: "x", IsActive: true, IsAdmin: true}
	require.NoError(t, db.Create(&admin).Error)
	return &admin
}

func TestAdminDeleteTeam(t *testing.T) {
	t.Run("cascades memberships and queues", func(t *testing.T) {
		ms := newTestService(t)
		admin := createAdmin(t, ms.DB, "root")
		creator := createUser(t, ms.DB, "alice", false)
		member := createUser(t, ms.DB, "bob", false)
		applicant := createUser(t, ms.DB, "carol", false)
		invitee := createUser(t, ms.DB, "dave", false)

		team, err := ms.CreateTeam(creator.ID, "Falcons")
		require.NoError(t, err)
		req, err := ms.SubmitRequest(member.ID, team.ID)
		require.NoError(t, err)
		_, err = ms.ResolveRequest(creator.ID, req.ID, true)
		require.NoError(t, err)
		_, err = ms.SubmitRequest(applicant.ID, team.ID)
		require.NoError(t, err)
		_, err = ms.InvitePlayer(creator.ID, team.ID, invitee.ID)
		require.NoError(t, err)

		require.NoError(t, ms.AdminDeleteTeam(admin.ID, team.ID))

		var teams, requests, invitations int64
		require.NoError(t, ms.DB.Model(&models.Team{}).Count(&teams).Error)
		require.NoError(t, ms.DB.Model(&models.MembershipRequest{}).Count(&requests).Error)
		require.NoError(t, ms.DB.Model(&models.Invitation{}).Count(&invitations).Error)
		assert.Zero(t, teams)
		assert.Zero(t, requests)
		assert.Zero(t, invitations)

		// Former members are free to join or found a new team
		_, err = ms.CreateTeam(member.ID, "Hawks")
		require.NoError(t, err)
	})

	t.Run("requires the admin flag", func(t *testing.T) {
		ms := newTestService(t)
		creator := createUser(t, ms.DB, "alice", false)
		team, err := ms.CreateTeam(creator.ID, "Falcons")
		require.NoError(t, err)

		assert.ErrorIs(t, ms.AdminDeleteTeam(creator.ID, team.ID), ErrNotAdmin)
		assert.ErrorIs(t, ms.AdminDeleteTeam(0, team.ID), ErrUnauthenticated)
	})

	t.Run("unknown team", func(t *testing.T) {
		ms := newTestService(t)
		admin := createAdmin(t, ms.DB, "root")
		assert.ErrorIs(t, ms.AdminDeleteTeam(admin.ID, 9999), ErrNotFound)
	})
}

func TestAdminDeleteUser(t *testing.T) {
	t.Run("deleting a creator removes their team entirely", func(t *testing.T) {
		ms := newTestService(t)
		admin := createAdmin(t, ms.DB, "root")
		creator := createUser(t, ms.DB, "alice", false)
		member := createUser(t, ms.DB, "bob", false)

		team, err := ms.CreateTeam(creator.ID, "Falcons")
		require.NoError(t, err)
		req, err := ms.SubmitRequest(member.ID, team.ID)
		require.NoError(t, err)
		_, err = ms.ResolveRequest(creator.ID, req.ID, true)
		require.NoError(t, err)

		require.NoError(t, ms.AdminDeleteUser(admin.ID, creator.ID))

		var users []models.User
		require.NoError(t, ms.DB.Find(&users).Error)
		handles := make([]string, 0, len(users))
		for _, u := range users {
			handles = append(handles, u.Handle)
		}
		assert.ElementsMatch(t, []string{"root", "bob"}, handles)

		var teams, requests int64
		require.NoError(t, ms.DB.Model(&models.Team{}).Count(&teams).Error)
		require.NoError(t, ms.DB.Model(&models.MembershipRequest{}).Count(&requests).Error)
		assert.Zero(t, teams)
		assert.Zero(t, requests)
	})

	t.Run("deleting a member leaves the team intact", func(t *testing.T) {
		ms := newTestService(t)
		admin := createAdmin(t, ms.DB, "root")
		creator := createUser(t, ms.DB, "alice", false)
		member := createUser(t, ms.DB, "bob", false)

		team, err := ms.CreateTeam(creator.ID, "Falcons")
		require.NoError(t, err)
		req, err := ms.SubmitRequest(member.ID, team.ID)
		require.NoError(t, err)
		_, err = ms.ResolveRequest(creator.ID, req.ID, true)
		require.NoError(t, err)

		require.NoError(t, ms.AdminDeleteUser(admin.ID, member.ID))

		assert.EqualValues(t, 1, memberCount(t, ms.DB, team.ID))
		var teams int64
		require.NoError(t, ms.DB.Model(&models.Team{}).Count(&teams).Error)
		assert.EqualValues(t, 1, teams)
	})

	t.Run("requires the admin flag", func(t *testing.T) {
		ms := newTestService(t)
		a := createUser(t, ms.DB, "alice", false)
		b := createUser(t, ms.DB, "bob", false)
		assert.ErrorIs(t, ms.AdminDeleteUser(a.ID, b.ID), ErrNotAdmin)
	})

	t.Run("unknown user", func(t *testing.T) {
		ms := newTestService(t)
		admin := createAdmin(t, ms.DB, "root")
		assert.ErrorIs(t, ms.AdminDeleteUser(admin.ID, 9999), ErrNotFound)
	})
}
