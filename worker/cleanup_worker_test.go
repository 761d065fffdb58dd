package worker

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"squadup/models"
)

func newTestWorker(t *testing.T) *CleanupWorker {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))

	return NewCleanupWorker(db, log.New(io.Discard, "", 0))
}

func backdate(t *testing.T, db *gorm.DB, model interface{}, id uint, when time.Time) {
	t.Helper()
	require.NoError(t, db.Model(model).Where("id = ?", id).
		UpdateColumn("updated_at", when).Error)
}

func TestRunOncePrunesRefreshTokens(t *testing.T) {
	cw := newTestWorker(t)
	now := time.Now()

	user := models.User{Handle: "alice", PasswordHash: "x", IsActive: true}
	require.NoError(t, cw.db.Create(&user).Error)

	expired := models.RefreshToken{UserID: user.ID, Token: "expired", ExpiresAt: now.Add(-48 * time.Hour)}
	revoked := models.RefreshToken{UserID: user.ID, Token: "revoked", ExpiresAt: now.Add(time.Hour), IsRevoked: true}
	live := models.RefreshToken{UserID: user.ID, Token: "live", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, cw.db.Create(&expired).Error)
	require.NoError(t, cw.db.Create(&revoked).Error)
	require.NoError(t, cw.db.Create(&live).Error)

	cw.RunOnce()

	var remaining []models.RefreshToken
	require.NoError(t, cw.db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "live", remaining[0].Token)
}

func TestRunOncePrunesDeclinedQueueRows(t *testing.T) {
	cw := newTestWorker(t)
	old := time.Now().Add(-declinedRetention - time.Hour)

	user := models.User{Handle: "alice", PasswordHash: "x", IsActive: true}
	require.NoError(t, cw.db.Create(&user).Error)
	team := models.Team{Name: "Falcons", CreatorID: user.ID}
	require.NoError(t, cw.db.Create(&team).Error)

	oldDeclined := models.MembershipRequest{PlayerID: user.ID, TeamID: team.ID, Status: models.StatusDeclined}
	freshDeclined := models.MembershipRequest{PlayerID: user.ID, TeamID: team.ID, Status: models.StatusDeclined}
	pending := models.MembershipRequest{PlayerID: user.ID, TeamID: team.ID, Status: models.StatusPending}
	require.NoError(t, cw.db.Create(&oldDeclined).Error)
	require.NoError(t, cw.db.Create(&freshDeclined).Error)
	require.NoError(t, cw.db.Create(&pending).Error)
	backdate(t, cw.db, &models.MembershipRequest{}, oldDeclined.ID, old)

	oldInvitation := models.Invitation{PlayerID: user.ID, TeamID: team.ID, Status: models.StatusDeclined}
	freshInvitation := models.Invitation{PlayerID: user.ID, TeamID: team.ID, Status: models.StatusPending}
	require.NoError(t, cw.db.Create(&oldInvitation).Error)
	require.NoError(t, cw.db.Create(&freshInvitation).Error)
	backdate(t, cw.db, &models.Invitation{}, oldInvitation.ID, old)

	cw.RunOnce()

	var requests []models.MembershipRequest
	require.NoError(t, cw.db.Find(&requests).Error)
	assert.Len(t, requests, 2)
	for _, r := range requests {
		assert.NotEqual(t, oldDeclined.ID, r.ID)
	}

	var invitations []models.Invitation
	require.NoError(t, cw.db.Find(&invitations).Error)
	require.Len(t, invitations, 1)
	assert.Equal(t, freshInvitation.ID, invitations[0].ID)
}
