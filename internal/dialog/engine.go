package dialog

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/avelis/frontdesk/internal/intent"
	"github.com/avelis/frontdesk/internal/policy"
)

// Issuer mints support ticket identifiers.
type Issuer interface {
	Issue() string
}

// Responder turns an accepted intent label into a canned reply.
type Responder interface {
	Respond(label string) string
}

// Engine is the dialogue state machine. Respond is a deterministic
// function of (context, message) given the injected clock and random
// source, which makes every branch testable with exact outputs.
//
// An Engine is safe for concurrent use across sessions; callers are
// responsible for serializing turns of the same session (see
// session.Manager).
type Engine struct {
	classifier  intent.Classifier
	responder   Responder
	issuer      Issuer
	windowDays  int
	threshold   float64
	now         func() time.Time
	deliveredAt func(bookingID string) time.Time
	rules       []rule

	mu  sync.Mutex
	rng *rand.Rand
}

// EngineOpts holds parameters for creating an Engine.
type EngineOpts struct {
	Classifier intent.Classifier // required
	Responder  Responder         // required
	Issuer     Issuer            // required
	WindowDays int               // defaults to policy.DefaultWindowDays
	Threshold  float64           // defaults to intent.DefaultThreshold
	Now        func() time.Time  // defaults to time.Now
	Rand       *rand.Rand        // defaults to a wall-clock seeded source
	// DeliveredAt supplies the delivery timestamp for a booking. It
	// stands in for the order-lookup collaborator; the default
	// synthesizes one since no real order database exists here.
	DeliveredAt func(bookingID string) time.Time
}

// NewEngine creates an Engine.
func NewEngine(opts EngineOpts) (*Engine, error) {
	if opts.Classifier == nil {
		return nil, fmt.Errorf("dialog: engine: classifier is required")
	}
	if opts.Responder == nil {
		return nil, fmt.Errorf("dialog: engine: responder is required")
	}
	if opts.Issuer == nil {
		return nil, fmt.Errorf("dialog: engine: issuer is required")
	}
	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = policy.DefaultWindowDays
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = intent.DefaultThreshold
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &Engine{
		classifier:  opts.Classifier,
		responder:   opts.Responder,
		issuer:      opts.Issuer,
		windowDays:  windowDays,
		threshold:   threshold,
		now:         now,
		deliveredAt: opts.DeliveredAt,
		rng:         rng,
	}
	if e.deliveredAt == nil {
		e.deliveredAt = func(string) time.Time { return e.synthesizeDeliveredAt() }
	}
	e.rules = e.ruleTable()
	return e, nil
}

// turn carries one message through the rule table. sc is the working
// copy of the session context; mutations commit only if the whole turn
// succeeds.
type turn struct {
	sc  *Context
	raw string // original message, used for booking-ID capture
	msg string // trimmed, lowercased
}

// Respond processes one message against the session context and returns
// the updated context with the reply. Malformed input never produces an
// error; only collaborator failures (classifier) do, and then the input
// context is returned unchanged.
func (e *Engine) Respond(ctx context.Context, sc Context, message string) (Context, string, error) {
	t := &turn{
		sc:  &sc,
		raw: strings.TrimSpace(message),
		msg: strings.ToLower(strings.TrimSpace(message)),
	}
	for _, r := range e.rules {
		reply, handled, err := r.fn(ctx, t)
		if err != nil {
			return sc, "", fmt.Errorf("dialog: rule %s: %w", r.name, err)
		}
		if handled {
			return *t.sc, reply, nil
		}
	}
	// The classifier fallback always handles; reaching here is a
	// programming error in the rule table.
	return sc, "", fmt.Errorf("dialog: no rule handled message")
}

// pick returns a uniformly random element of list.
func (e *Engine) pick(list []string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return list[e.rng.Intn(len(list))]
}

// pickStatus returns a synthesized (status, note) pair for a tracking
// request. No real order database exists here; a production deployment
// would ask the order-lookup service instead.
func (e *Engine) pickStatus() (string, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := orderStatuses[e.rng.Intn(len(orderStatuses))]
	return s[0], s[1]
}

// synthesizeDeliveredAt fabricates a delivery timestamp between 1 and 14
// days ago, standing in for the order-lookup collaborator.
func (e *Engine) synthesizeDeliveredAt() time.Time {
	e.mu.Lock()
	days := 1 + e.rng.Intn(14)
	e.mu.Unlock()
	return e.now().AddDate(0, 0, -days)
}
