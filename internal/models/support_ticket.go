package models

import "time"

// SupportTicket records an issued ticket for the human agent queue.
// Ticket IDs are random draws (SUP- plus six digits); uniqueness is
// probabilistic, so the ID is indexed but deliberately not unique.
type SupportTicket struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	TicketID   string `gorm:"size:16;not null;index"`
	SessionKey string `gorm:"size:128;not null;index"`
	Flow       string `gorm:"size:16;not null"`
	BookingID  string `gorm:"size:128"`
	Reason     string `gorm:"size:255"`
	// Escalated marks tickets that missed the return window and were
	// queued for manual review.
	Escalated bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}
