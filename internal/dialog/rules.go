package dialog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/avelis/frontdesk/internal/intent"
	"github.com/avelis/frontdesk/internal/policy"
)

// ruleFunc inspects one turn. handled=true means the rule produced the
// reply and evaluation stops; rules that pass leave the turn untouched.
type ruleFunc func(ctx context.Context, t *turn) (reply string, handled bool, err error)

// rule pairs a predicate/handler with a name for error reporting.
type rule struct {
	name string
	fn   ruleFunc
}

// ruleTable is the priority order of the state machine, highest first.
// First match wins; there is no fallthrough. The table is the single
// place precedence is defined.
func (e *Engine) ruleTable() []rule {
	return []rule{
		{"ended", e.ruleEnded},
		{"greeting", e.ruleGreeting},
		{"handoff_confirmation", e.ruleHandoff},
		{"anything_else", e.ruleAnythingElse},
		{"tracking_keyword", e.ruleTrackingKeyword},
		{"awaiting_booking_id", e.ruleAwaitingBooking},
		{"frustration", e.ruleFrustration},
		{"awaiting_reason", e.ruleAwaitingReason},
		{"flow_keyword", e.ruleFlowKeyword},
		{"classifier", e.ruleClassifier},
	}
}

// bookingIDPattern accepts at least 5 consecutive alphanumeric or '#'
// characters anywhere in the raw (non-lowercased) message.
var bookingIDPattern = regexp.MustCompile(`[A-Za-z0-9#]{5,}`)

// punctuation strips everything but word characters and spaces, for
// yes/no matching.
var punctuation = regexp.MustCompile(`[^\w\s]`)

// ruleEnded absorbs every message once the conversation is over.
func (e *Engine) ruleEnded(_ context.Context, t *turn) (string, bool, error) {
	if !t.sc.Ended() {
		return "", false, nil
	}
	return replyChatEnded, true, nil
}

// ruleGreeting answers exact greeting phrases. It runs before the
// flow-state rules, so a greeting surfaces even mid-flow without
// clearing the open slot. That is intentional: saying "hi" while a
// booking ID is pending should not lose the flow.
func (e *Engine) ruleGreeting(_ context.Context, t *turn) (string, bool, error) {
	for _, g := range greetings {
		if t.msg == g {
			return e.pick(greetingReplies), true, nil
		}
	}
	return "", false, nil
}

// ruleHandoff handles the yes/no gate before escalating to a human
// agent. Only "1" and "2" are accepted.
func (e *Engine) ruleHandoff(_ context.Context, t *turn) (string, bool, error) {
	if t.sc.Stage != StageAwaitingHandoff {
		return "", false, nil
	}
	switch t.msg {
	case "1":
		t.sc.Stage = StageEnded
		ticketID := t.sc.TicketID
		if ticketID == "" {
			ticketID = "N/A"
		}
		return fmt.Sprintf(replyHandoffAccepted, ticketID), true, nil
	case "2":
		t.sc.Stage = StageIdle
		return replyHandoffDeclined, true, nil
	}
	return replyHandoffReprompt, true, nil
}

// ruleAnythingElse handles the "can I help you with anything else?"
// follow-up. Affirmative re-opens the conversation; negative ends it.
func (e *Engine) ruleAnythingElse(_ context.Context, t *turn) (string, bool, error) {
	if t.sc.Stage != StageAwaitingMore {
		return "", false, nil
	}
	clean := punctuation.ReplaceAllString(t.msg, "")
	words := strings.Fields(clean)

	if containsToken(words, affirmativeTokens) {
		t.sc.Stage = StageIdle
		return replyMoreHelp, true, nil
	}
	if containsToken(words, negativeTokens) || strings.Contains(clean, "thank you") {
		t.sc.Stage = StageEnded
		return replyGoodbye, true, nil
	}
	return replyYesNoReprompt, true, nil
}

// ruleTrackingKeyword opens the tracking flow on a trigger phrase.
func (e *Engine) ruleTrackingKeyword(_ context.Context, t *turn) (string, bool, error) {
	if !containsPhrase(t.msg, trackingKeywords) {
		return "", false, nil
	}
	t.sc.Flow = FlowTrack
	t.sc.Stage = StageAwaitingBooking
	return replyTrackingIntro, true, nil
}

// ruleAwaitingBooking validates and captures the booking/order ID, then
// branches by flow.
func (e *Engine) ruleAwaitingBooking(_ context.Context, t *turn) (string, bool, error) {
	if t.sc.Stage != StageAwaitingBooking {
		return "", false, nil
	}
	if !bookingIDPattern.MatchString(t.raw) {
		return replyInvalidBookingID, true, nil
	}
	t.sc.BookingID = t.raw

	switch t.sc.Flow {
	case FlowTrack:
		status, note := e.pickStatus()
		t.sc.Stage = StageAwaitingMore
		return fmt.Sprintf(replyOrderStatus, t.raw, status, note, trackingURL(t.raw)), true, nil

	case FlowRefund:
		t.sc.Stage = StageAwaitingReason
		return fmt.Sprintf(replyBookingAccepted, t.raw) + "\n\n" +
			formatReasons(headerRefundReasons, refundReasons), true, nil

	case FlowExchange:
		t.sc.Stage = StageAwaitingReason
		return fmt.Sprintf(replyBookingAccepted, t.raw) + "\n\n" +
			formatReasons(headerExchangeReasons, exchangeReasons), true, nil
	}

	// Awaiting a booking ID with no flow set is a corrupt context.
	// Recover by starting over instead of faulting.
	*t.sc = NewContext()
	return replyIntegrityReset, true, nil
}

// ruleFrustration is a soft redirect: an empathetic nudge toward the
// booking-ID prompt. It sets no flow and only fires when no slot is
// open, so it never clobbers in-progress slot filling.
func (e *Engine) ruleFrustration(_ context.Context, t *turn) (string, bool, error) {
	if t.sc.slotOpen() {
		return "", false, nil
	}
	if !containsPhrase(t.msg, frustrationWords) {
		return "", false, nil
	}
	return replyFrustration, true, nil
}

// ruleAwaitingReason validates the 1-based reason selection, evaluates
// the return window, and issues a ticket.
func (e *Engine) ruleAwaitingReason(_ context.Context, t *turn) (string, bool, error) {
	if t.sc.Stage != StageAwaitingReason {
		return "", false, nil
	}
	reasons := reasonsFor(t.sc.Flow)
	if reasons == nil {
		// Corrupt context: a reason is pending but no refund or
		// exchange flow is set.
		*t.sc = NewContext()
		return replyIntegrityReset, true, nil
	}

	choice, err := strconv.Atoi(t.msg)
	if err != nil {
		return fmt.Sprintf(replyReasonNotNumeric, len(reasons)), true, nil
	}
	if choice < 1 || choice > len(reasons) {
		return fmt.Sprintf(replyReasonOutOfRange, len(reasons)), true, nil
	}

	t.sc.Reason = reasons[choice-1]

	deliveredAt := e.deliveredAt(t.sc.BookingID)
	eligible := policy.Eligible(deliveredAt, e.now(), e.windowDays)

	// TicketID is immutable once set; a second flow in the same
	// conversation surfaces the original ticket.
	if t.sc.TicketID == "" {
		t.sc.TicketID = e.issuer.Issue()
	}

	if eligible {
		t.sc.Stage = StageAwaitingMore
		if t.sc.Flow == FlowExchange {
			return fmt.Sprintf(replyExchangeInitiated, t.sc.TicketID, t.sc.Reason), true, nil
		}
		return fmt.Sprintf(replyRefundInitiated, t.sc.TicketID, t.sc.Reason), true, nil
	}

	t.sc.Stage = StageAwaitingHandoff
	return fmt.Sprintf(replyWindowMissed, e.windowDays, string(t.sc.Flow),
		t.sc.TicketID, t.sc.Reason), true, nil
}

// ruleFlowKeyword opens the refund or exchange flow on trigger keywords.
func (e *Engine) ruleFlowKeyword(_ context.Context, t *turn) (string, bool, error) {
	if containsPhrase(t.msg, refundKeywords) {
		t.sc.Flow = FlowRefund
		t.sc.Stage = StageAwaitingBooking
		return replyRefundIntro, true, nil
	}
	if containsPhrase(t.msg, exchangeKeywords) {
		t.sc.Flow = FlowExchange
		t.sc.Stage = StageAwaitingBooking
		return replyExchangeIntro, true, nil
	}
	return "", false, nil
}

// ruleClassifier is the terminal rule: consult the statistical model.
// Below-threshold predictions get the clarification menu; a refund label
// enters the refund flow; anything else gets a catalog response.
func (e *Engine) ruleClassifier(ctx context.Context, t *turn) (string, bool, error) {
	res, err := e.classifier.Classify(ctx, intent.Normalize(t.raw))
	if err != nil {
		return "", false, err
	}
	// The threshold is inclusive: exactly threshold is trusted.
	if res.Confidence < e.threshold {
		return replyMenu, true, nil
	}
	if strings.Contains(res.Label, "refund") {
		t.sc.Flow = FlowRefund
		t.sc.Stage = StageAwaitingBooking
		return replyRefundIntro, true, nil
	}
	return e.responder.Respond(res.Label), true, nil
}

// containsToken reports whether any word equals one of the tokens.
func containsToken(words, tokens []string) bool {
	for _, w := range words {
		for _, tok := range tokens {
			if w == tok {
				return true
			}
		}
	}
	return false
}

// containsPhrase reports whether the message contains any of the
// phrases as a substring.
func containsPhrase(msg string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
