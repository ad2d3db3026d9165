// Package dialog implements the per-conversation dialogue state machine:
// the contract that decides, turn by turn, which slot is being filled,
// which rule short-circuits classification, when to consult the intent
// classifier, and when the conversation ends or hands off to a human.
package dialog

// Flow identifies the transaction type currently in progress.
type Flow string

// Flow values.
const (
	FlowNone     Flow = ""
	FlowRefund   Flow = "refund"
	FlowExchange Flow = "exchange"
	FlowTrack    Flow = "track"
)

// Stage identifies the slot-filling sub-state within a flow. A
// conversation is in exactly one stage at a time; the single enum field
// makes the mutual-exclusion invariant structural.
type Stage string

// Stage values.
const (
	StageIdle            Stage = "idle"
	StageAwaitingBooking Stage = "awaiting_booking_id"
	StageAwaitingReason  Stage = "awaiting_reason"
	StageAwaitingHandoff Stage = "awaiting_handoff_confirmation"
	StageAwaitingMore    Stage = "awaiting_anything_else"
	StageEnded           Stage = "ended"
)

// Context is the dialogue state for one conversation. It is a plain
// value: the engine mutates a working copy and the caller commits it to
// the session store only after a successful turn.
type Context struct {
	Flow      Flow
	Stage     Stage
	BookingID string
	Reason    string
	// TicketID is set once a support ticket is issued and never
	// overwritten afterward.
	TicketID string
}

// NewContext returns the default context for a fresh conversation.
func NewContext() Context {
	return Context{Flow: FlowNone, Stage: StageIdle}
}

// Ended reports whether the conversation has reached its terminal stage.
func (c Context) Ended() bool {
	return c.Stage == StageEnded
}

// slotOpen reports whether a slot-filling stage is currently awaiting
// input. Used by the frustration rule, which must not fire while a slot
// is open.
func (c Context) slotOpen() bool {
	switch c.Stage {
	case StageAwaitingBooking, StageAwaitingReason, StageAwaitingHandoff, StageAwaitingMore:
		return true
	}
	return false
}
