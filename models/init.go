package models

import "gorm.io/gorm"

// Migrate creates the schema and the storage-level membership constraints.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Team{},
		&MembershipRequest{},
		&Invitation{},
	); err != nil {
		return err
	}
	return createMembershipIndexes(db)
}

// createMembershipIndexes installs the partial unique indexes that make the
// membership invariants hold under concurrent writers:
//   - a player holds at most one accepted membership across all teams
//   - a player has at most one pending request/invitation per team
//
// The WHERE clause syntax is shared by PostgreSQL and SQLite.
func createMembershipIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_requests_one_accepted_per_player
			ON membership_requests (player_id) WHERE status = 'accepted' AND deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_requests_one_pending_per_team
			ON membership_requests (player_id, team_id) WHERE status = 'pending' AND deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_invitations_one_pending_per_team
			ON invitations (player_id, team_id) WHERE status = 'pending' AND deleted_at IS NULL`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// EnsureAdminUser seeds the bootstrap admin account if it does not exist yet.
func EnsureAdminUser(db *gorm.DB, handle, passwordHash string) error {
	if handle == "" || passwordHash == "" {
		return nil
	}
	admin := User{
		Handle:       handle,
		PasswordHash: passwordHash,
		IsActive:     true,
		IsAdmin:      true,
	}
	return db.Where("handle = ?", handle).FirstOrCreate(&admin).Error
}
