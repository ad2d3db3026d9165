package intent

import (
	"embed"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed responses.yaml
var defaultResponsesFS embed.FS

// genericFallback is returned for labels with no catalog entry.
const genericFallback = "How can I assist you further?"

// Responder maps an intent label to a reply drawn uniformly at random
// from its canned response catalog.
type Responder struct {
	catalog map[string][]string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewResponder creates a Responder over a catalog. A nil catalog uses
// the embedded default; a nil source seeds from the wall clock.
func NewResponder(catalog map[string][]string, src rand.Source) *Responder {
	if catalog == nil {
		catalog = DefaultResponses()
	}
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Responder{catalog: catalog, rng: rand.New(src)}
}

// Respond returns a reply for the label, or the generic fallback when
// the label has no catalog entry.
func (r *Responder) Respond(label string) string {
	candidates := r.catalog[label]
	if len(candidates) == 0 {
		return genericFallback
	}
	r.mu.Lock()
	i := r.rng.Intn(len(candidates))
	r.mu.Unlock()
	return candidates[i]
}

// LoadResponses reads a label-to-replies catalog from a YAML file.
// Every entry must be nonempty.
func LoadResponses(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("intent: read responses %s: %w", path, err)
	}
	return parseResponses(data)
}

// DefaultResponses returns the catalog bundled with the binary.
func DefaultResponses() map[string][]string {
	data, err := defaultResponsesFS.ReadFile("responses.yaml")
	if err != nil {
		panic(fmt.Sprintf("intent: embedded responses missing: %v", err))
	}
	catalog, err := parseResponses(data)
	if err != nil {
		panic(fmt.Sprintf("intent: embedded responses invalid: %v", err))
	}
	return catalog
}

func parseResponses(data []byte) (map[string][]string, error) {
	var catalog map[string][]string
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("intent: parse responses: %w", err)
	}
	for label, replies := range catalog {
		if len(replies) == 0 {
			return nil, fmt.Errorf("intent: responses: label %q has no replies", label)
		}
	}
	return catalog, nil
}
