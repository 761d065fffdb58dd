package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squadup/models"
)

func TestListTeamsAndRoster(t *testing.T) {
	ms := newTestService(t)
	a := createUser(t, ms.DB, "alice", false)
	b := createUser(t, ms.DB, "bob", false)
	c := createUser(t, ms.DB, "carol", false)

	falcons, err := ms.CreateTeam(a.ID, "Falcons")
	require.NoError(t, err)
	hawks, err := ms.CreateTeam(b.ID, "Hawks")
	require.NoError(t, err)

	req, err := ms.SubmitRequest(c.ID, falcons.ID)
	require.NoError(t, err)
	_, err = ms.ResolveRequest(a.ID, req.ID, true)
	require.NoError(t, err)

	teams, err := ms.ListTeams()
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Falcons", teams[0].Name)
	assert.EqualValues(t, 2, teams[0].MemberCount)
	assert.Equal(t, hawks.CreatorID, teams[1].CreatorID)
	assert.EqualValues(t, 1, teams[1].MemberCount)

	roster, err := ms.TeamRoster(falcons.ID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "alice", roster[0].Handle)
	assert.Equal(t, "carol", roster[1].Handle)

	_, err = ms.TeamRoster(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookingPlayers(t *testing.T) {
	ms := newTestService(t)
	createUser(t, ms.DB, "alice", true)
	createUser(t, ms.DB, "bob", false)

	// Flag still set, but already holds a membership
	stale := createUser(t, ms.DB, "carol", true)
	creator := createUser(t, ms.DB, "dave", false)
	team, err := ms.CreateTeam(creator.ID, "Falcons")
	require.NoError(t, err)
	req, err := ms.SubmitRequest(stale.ID, team.ID)
	require.NoError(t, err)
	_, err = ms.ResolveRequest(creator.ID, req.ID, true)
	require.NoError(t, err)
	require.NoError(t, ms.DB.Model(&models.User{}).Where("id = ?", stale.ID).
		Update("looking_for_team", true).Error)

	players, err := ms.LookingPlayers()
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "alice", players[0].Handle)
}

func TestPlayersInTeams(t *testing.T) {
	ms := newTestService(t)
	a := createUser(t, ms.DB, "alice", false)
	b := createUser(t, ms.DB, "bob", false)
	createUser(t, ms.DB, "loner", false)

	team, err := ms.CreateTeam(a.ID, "Falcons")
	require.NoError(t, err)
	req, err := ms.SubmitRequest(b.ID, team.ID)
	require.NoError(t, err)
	_, err = ms.ResolveRequest(a.ID, req.ID, true)
	require.NoError(t, err)

	entries, err := ms.PlayersInTeams()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Handle)
	assert.Equal(t, "Falcons", entries[0].TeamName)
	assert.Equal(t, "bob", entries[1].Handle)
}

func TestRequestsFor(t *testing.T) {
	ms := newTestService(t)
	leader := createUser(t, ms.DB, "alice", false)
	applicant := createUser(t, ms.DB, "bob", false)
	bystander := createUser(t, ms.DB, "carol", false)

	team, err := ms.CreateTeam(leader.ID, "Falcons")
	require.NoError(t, err)
	_, err = ms.SubmitRequest(applicant.ID, team.ID)
	require.NoError(t, err)

	// Leader sees their own accepted creator row plus the pending request
	forLeader, err := ms.RequestsFor(leader.ID)
	require.NoError(t, err)
	assert.Len(t, forLeader, 2)

	forApplicant, err := ms.RequestsFor(applicant.ID)
	require.NoError(t, err)
	require.Len(t, forApplicant, 1)
	assert.Equal(t, "bob", forApplicant[0].PlayerHandle)
	assert.Equal(t, models.StatusPending, forApplicant[0].Status)

	forBystander, err := ms.RequestsFor(bystander.ID)
	require.NoError(t, err)
	assert.Empty(t, forBystander)

	_, err = ms.RequestsFor(0)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestInvitationsFor(t *testing.T) {
	ms := newTestService(t)
	leader := createUser(t, ms.DB, "alice", false)
	player := createUser(t, ms.DB, "bob", false)

	team, err := ms.CreateTeam(leader.ID, "Falcons")
	require.NoError(t, err)
	invitation, err := ms.InvitePlayer(leader.ID, team.ID, player.ID)
	require.NoError(t, err)

	pending, err := ms.InvitationsFor(player.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Falcons", pending[0].TeamName)

	// Resolved invitations drop out of the list
	_, err = ms.ResolveInvitation(player.ID, invitation.ID, false)
	require.NoError(t, err)
	pending, err = ms.InvitationsFor(player.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSetLookingForTeam(t *testing.T) {
	ms := newTestService(t)
	player := createUser(t, ms.DB, "alice", false)

	require.NoError(t, ms.SetLookingForTeam(player.ID, true))
	var refreshed models.User
	require.NoError(t, ms.DB.First(&refreshed, player.ID).Error)
	assert.True(t, refreshed.LookingForTeam)

	require.NoError(t, ms.SetLookingForTeam(player.ID, false))
	require.NoError(t, ms.DB.First(&refreshed, player.ID).Error)
	assert.False(t, refreshed.LookingForTeam)

	assert.ErrorIs(t, ms.SetLookingForTeam(9999, true), ErrNotFound)
}
