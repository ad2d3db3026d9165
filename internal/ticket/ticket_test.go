package ticket

import (
	"math/rand"
	"regexp"
	"testing"
)

var ticketPattern = regexp.MustCompile(`^SUP-\d{6}$`)

func TestIssueFormat(t *testing.T) {
	iss := NewIssuer(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		id := iss.Issue()
		if !ticketPattern.MatchString(id) {
			t.Fatalf("ticket %q does not match SUP- followed by six digits", id)
		}
	}
}

func TestIssueDeterministicForSeed(t *testing.T) {
	a := NewIssuer(rand.NewSource(7))
	b := NewIssuer(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		if ida, idb := a.Issue(), b.Issue(); ida != idb {
			t.Fatalf("same seed diverged at draw %d: %q vs %q", i, ida, idb)
		}
	}
}

func TestIssueConcurrent(t *testing.T) {
	iss := NewIssuer(nil)
	done := make(chan string, 50)
	for i := 0; i < 50; i++ {
		go func() { done <- iss.Issue() }()
	}
	for i := 0; i < 50; i++ {
		if id := <-done; !ticketPattern.MatchString(id) {
			t.Fatalf("ticket %q malformed", id)
		}
	}
}
