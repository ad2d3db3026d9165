package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/avelis/frontdesk/internal/dialog"
	"github.com/avelis/frontdesk/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists dialogue contexts as SupportSession rows and keeps
// a per-session transcript.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("session: gorm store: db is required")
	}
	return &GormStore{db: db}, nil
}

// Get loads the context for key, or returns a default context if no row
// exists yet.
func (g *GormStore) Get(key string) (dialog.Context, error) {
	var row models.SupportSession
	err := g.db.Where("session_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dialog.NewContext(), nil
	}
	if err != nil {
		return dialog.Context{}, fmt.Errorf("session: load %s: %w", key, err)
	}
	return dialog.Context{
		Flow:      dialog.Flow(row.Flow),
		Stage:     dialog.Stage(row.Stage),
		BookingID: row.BookingID,
		Reason:    row.Reason,
		TicketID:  row.TicketID,
	}, nil
}

// Save upserts the context row for key.
func (g *GormStore) Save(key string, sc dialog.Context) error {
	row := models.SupportSession{
		SessionKey: key,
		Flow:       string(sc.Flow),
		Stage:      string(sc.Stage),
		BookingID:  sc.BookingID,
		Reason:     sc.Reason,
		TicketID:   sc.TicketID,
	}
	err := g.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"flow", "stage", "booking_id", "reason", "ticket_id", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("session: save %s: %w", key, err)
	}
	return nil
}

// Reset deletes the session row for key; the transcript is kept for the
// agent queue. The next Get starts from a default context.
func (g *GormStore) Reset(key string) error {
	err := g.db.Where("session_key = ?", key).Delete(&models.SupportSession{}).Error
	if err != nil {
		return fmt.Errorf("session: reset %s: %w", key, err)
	}
	return nil
}

// SweepIdle marks every non-ended session older than the cutoff as
// ended.
func (g *GormStore) SweepIdle(cutoff time.Time) (int64, error) {
	result := g.db.Model(&models.SupportSession{}).
		Where("stage != ? AND updated_at < ?", string(dialog.StageEnded), cutoff).
		Update("stage", string(dialog.StageEnded))
	if result.Error != nil {
		return 0, fmt.Errorf("session: sweep idle: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// AppendTranscript records one message of a conversation. The session
// row must exist (Save runs before transcript recording in a turn).
func (g *GormStore) AppendTranscript(key, role, content string) error {
	var row models.SupportSession
	if err := g.db.Where("session_key = ?", key).First(&row).Error; err != nil {
		return fmt.Errorf("session: transcript %s: %w", key, err)
	}

	var maxSeq int
	g.db.Model(&models.TranscriptEntry{}).
		Where("session_id = ?", row.ID).
		Select("COALESCE(MAX(sequence), 0)").Scan(&maxSeq)

	entry := models.TranscriptEntry{
		SessionID: row.ID,
		Sequence:  maxSeq + 1,
		Role:      role,
		Content:   content,
	}
	if err := g.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("session: transcript %s: %w", key, err)
	}
	return nil
}

// RecordTicket stores an issued ticket for the agent queue.
func (g *GormStore) RecordTicket(t models.SupportTicket) error {
	if err := g.db.Create(&t).Error; err != nil {
		return fmt.Errorf("session: record ticket %s: %w", t.TicketID, err)
	}
	return nil
}
