// File: internal/audit/recorder.go
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recorder emits audit entries. Record must never fail or delay the caller:
// implementations write off the request's critical path and swallow errors.
type Recorder interface {
	Record(entry Entry)
}

// GORMRecorder writes activity_logs rows on a detached goroutine with its own
// timeout, so a slow or broken store cannot sit on a response.
type GORMRecorder struct {
	db      *gorm.DB
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ Recorder = (*GORMRecorder)(nil)

// NewGORMRecorder creates a recorder backed by the profile store's database.
func NewGORMRecorder(db *gorm.DB, logger *zap.Logger) *GORMRecorder {
	return &GORMRecorder{
		db:      db,
		logger:  logger.Named("AuditRecorder"),
		timeout: 5 * time.Second,
	}
}

func (r *GORMRecorder) Record(entry Entry) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		row := ActivityLog{
			ID:         uuid.New(),
			UserID:     entry.UserID,
			Action:     entry.Action,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Metadata:   entry.Metadata,
			CreatedAt:  time.Now(),
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			r.logger.Warn("Failed to write audit entry",
				zap.String("action", entry.Action),
				zap.String("userID", entry.UserID.String()),
				zap.Error(err))
		}
	}()
}

// Wait blocks until all in-flight writes finish. Used during shutdown and in
// tests that need deterministic ordering.
func (r *GORMRecorder) Wait() {
	r.wg.Wait()
}
