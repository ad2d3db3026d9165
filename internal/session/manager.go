package session

import (
	"context"
	"fmt"
	"log"

	"github.com/avelis/frontdesk/internal/dialog"
	"github.com/avelis/frontdesk/internal/models"
)

// Engine is the slice of the dialogue state machine the manager needs.
// dialog.Engine satisfies it; tests inject stubs.
type Engine interface {
	Respond(ctx context.Context, sc dialog.Context, message string) (dialog.Context, string, error)
}

// Transcriber records conversation turns. GormStore satisfies it; the
// memory store does not keep transcripts.
type Transcriber interface {
	AppendTranscript(key, role, content string) error
}

// TicketRecorder stores issued tickets for the agent queue.
type TicketRecorder interface {
	RecordTicket(t models.SupportTicket) error
}

// Manager runs dialogue turns against the store with per-session mutual
// exclusion. A turn either commits the new context or leaves the stored
// one untouched; partial mutations are never written.
type Manager struct {
	store       Store
	engine      Engine
	transcriber Transcriber    // optional
	tickets     TicketRecorder // optional
	locks       *keyedMutex
}

// ManagerOpts holds parameters for creating a Manager.
type ManagerOpts struct {
	Store       Store  // required
	Engine      Engine // required
	Transcriber Transcriber
	Tickets     TicketRecorder
}

// NewManager creates a Manager.
func NewManager(opts ManagerOpts) (*Manager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session: manager: store is required")
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("session: manager: engine is required")
	}
	return &Manager{
		store:       opts.Store,
		engine:      opts.Engine,
		transcriber: opts.Transcriber,
		tickets:     opts.Tickets,
		locks:       newKeyedMutex(),
	}, nil
}

// Turn processes one message for the session and returns the reply.
// Turns for the same key are serialized; turns for different keys run
// concurrently.
func (m *Manager) Turn(ctx context.Context, key, message string) (string, error) {
	unlock := m.locks.lock(key)
	defer unlock()

	before, err := m.store.Get(key)
	if err != nil {
		return "", err
	}

	after, reply, err := m.engine.Respond(ctx, before, message)
	if err != nil {
		return "", err
	}

	if err := m.store.Save(key, after); err != nil {
		return "", err
	}

	m.record(key, message, reply, before, after)
	return reply, nil
}

// Reset reinitializes the session, e.g. when the user starts a new
// conversation.
func (m *Manager) Reset(key string) error {
	unlock := m.locks.lock(key)
	defer unlock()
	return m.store.Reset(key)
}

// record appends the turn transcript and, when this turn issued a new
// ticket, stores it for the agent queue. Both are best-effort: the reply
// has already been committed.
func (m *Manager) record(key, message, reply string, before, after dialog.Context) {
	if m.transcriber != nil {
		if err := m.transcriber.AppendTranscript(key, "user", message); err != nil {
			log.Printf("session: transcript user turn: %v", err)
		}
		if err := m.transcriber.AppendTranscript(key, "bot", reply); err != nil {
			log.Printf("session: transcript bot turn: %v", err)
		}
	}

	if m.tickets != nil && after.TicketID != "" && before.TicketID == "" {
		t := models.SupportTicket{
			TicketID:   after.TicketID,
			SessionKey: key,
			Flow:       string(after.Flow),
			BookingID:  after.BookingID,
			Reason:     after.Reason,
			Escalated:  after.Stage == dialog.StageAwaitingHandoff,
		}
		if err := m.tickets.RecordTicket(t); err != nil {
			log.Printf("session: record ticket %s: %v", after.TicketID, err)
		}
	}
}
