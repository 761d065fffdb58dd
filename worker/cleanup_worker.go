package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"squadup/models"
)

// retention windows for rows nobody will look at again
const (
	tokenRetention    = 24 * time.Hour
	declinedRetention = 30 * 24 * time.Hour
)

// CleanupWorker periodically prunes expired or revoked refresh tokens and
// declined queue rows past their retention window, keeping the request and
// invitation queues bounded.
type CleanupWorker struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewCleanupWorker(db *gorm.DB, logger *log.Logger) *CleanupWorker {
	return &CleanupWorker{
		db:     db,
		logger: logger,
	}
}

func (cw *CleanupWorker) Start(ctx context.Context) {
	cw.logger.Println("Starting cleanup worker...")
	ticker := time.NewTicker(1 * time.Hour)

	for {
		select {
		case <-ticker.C:
			cw.RunOnce()
		case <-ctx.Done():
			cw.logger.Println("Stopping cleanup worker...")
			ticker.Stop()
			return
		}
	}
}

// RunOnce performs a single cleanup pass.
func (cw *CleanupWorker) RunOnce() {
	now := time.Now()

	res := cw.db.Where("expires_at < ? OR is_revoked = ?", now.Add(-tokenRetention), true).
		Delete(&models.RefreshToken{})
	if res.Error != nil {
		cw.logger.Printf("Failed to prune refresh tokens: %v", res.Error)
	} else if res.RowsAffected > 0 {
		cw.logger.Printf("Pruned %d refresh tokens", res.RowsAffected)
	}

	cutoff := now.Add(-declinedRetention)

	res = cw.db.Where("status = ? AND updated_at < ?", models.StatusDeclined, cutoff).
		Delete(&models.MembershipRequest{})
	if res.Error != nil {
		cw.logger.Printf("Failed to prune declined requests: %v", res.Error)
	} else if res.RowsAffected > 0 {
		cw.logger.Printf("Pruned %d declined requests", res.RowsAffected)
	}

	res = cw.db.Where("status = ? AND updated_at < ?", models.StatusDeclined, cutoff).
		Delete(&models.Invitation{})
	if res.Error != nil {
		cw.logger.Printf("Failed to prune declined invitations: %v", res.Error)
	} else if res.RowsAffected > 0 {
		cw.logger.Printf("Pruned %d declined invitations", res.RowsAffected)
	}
}
