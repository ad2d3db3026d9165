// Package models defines the GORM models persisted by Frontdesk.
package models

import "time"

// SupportSession is the persisted dialogue context for one conversation,
// keyed by the transport-level session identity (cookie, chat user).
// Exactly one row exists per session key; the dialogue engine owns every
// mutation.
type SupportSession struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	SessionKey string `gorm:"size:128;not null;uniqueIndex"`
	Flow       string `gorm:"size:16;not null;default:''"`
	Stage      string `gorm:"size:32;not null;default:idle"`
	BookingID  string `gorm:"size:128"`
	Reason     string `gorm:"size:255"`
	TicketID   string `gorm:"size:16"`
	CreatedAt  time.Time
	UpdatedAt  time.Time `gorm:"index"`

	Transcript []TranscriptEntry `gorm:"foreignKey:SessionID"`
}

// TranscriptEntry stores a single turn of a support conversation: the
// user message and the reply that was returned for it.
type TranscriptEntry struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SessionID uint   `gorm:"not null;index"`
	Sequence  int    `gorm:"not null"`
	Role      string `gorm:"size:16;not null"` // "user" or "bot"
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time

	Session SupportSession `gorm:"foreignKey:SessionID"`
}
