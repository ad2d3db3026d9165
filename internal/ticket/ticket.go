// Package ticket issues support ticket identifiers.
package ticket

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Issuer generates ticket IDs of the form SUP-nnnnnn. IDs are drawn at
// random from a 900,000-value space; uniqueness is probabilistic, not
// guaranteed. Callers that need globally unique tickets must get them
// from an external allocation authority.
type Issuer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewIssuer creates an Issuer. A nil source seeds from the wall clock.
func NewIssuer(src rand.Source) *Issuer {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Issuer{rng: rand.New(src)}
}

// Issue returns a fresh ticket ID matching SUP-\d{6}.
func (i *Issuer) Issue() string {
	i.mu.Lock()
	n := 100000 + i.rng.Intn(900000)
	i.mu.Unlock()
	return fmt.Sprintf("SUP-%06d", n)
}
