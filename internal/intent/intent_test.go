package intent

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"ORD-12345 please", []string{"ord", "12345", "please"}},
		{"   ", nil},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"policies", "policy"},
		{"addresses", "address"},
		{"refunds", "refund"},
		{"process", "process"}, // double-s is not a plural
		{"gas", "gas"},         // too short to strip
		{"refund", "refund"},
	}
	for _, tt := range tests {
		if got := stem(tt.in); got != tt.want {
			t.Errorf("stem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("What are your Policies??"); got != "what are your policy" {
		t.Errorf("Normalize = %q", got)
	}
	if got := Normalize("Refunds, please!"); got != "refund please" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestLocalClassifierFirstLabelWinsTies(t *testing.T) {
	m := &Model{Labels: []string{"first", "second"}}
	lc := NewLocalClassifier(m)

	res, err := lc.Classify(context.Background(), "anything at all")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Label != "first" {
		t.Errorf("tie broke to %q, want first label", res.Label)
	}
	if res.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", res.Confidence)
	}
}

func TestLocalClassifierWeightedToken(t *testing.T) {
	m := &Model{
		Labels:  []string{"x", "y"},
		Weights: map[string]map[string]float64{"hello": {"x": 2}},
	}
	lc := NewLocalClassifier(m)

	res, err := lc.Classify(context.Background(), "Hello!")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Label != "x" {
		t.Errorf("label = %q, want x", res.Label)
	}
	if res.Confidence <= 0.5 || res.Confidence >= 1 {
		t.Errorf("confidence = %v, want in (0.5, 1)", res.Confidence)
	}
}

func TestDefaultModelClassifies(t *testing.T) {
	lc := NewLocalClassifier(nil)

	tests := []struct {
		text string
		want string
	}{
		{"hello there", "greeting"},
		{"thanks for the help", "thanks"},
		{"I want a refund", "refund_request"},
		{"can I exchange this", "exchange_request"},
		{"where is my order, has it shipped", "order_status"},
		{"what is your warranty policy", "policy_question"},
	}
	for _, tt := range tests {
		res, err := lc.Classify(context.Background(), tt.text)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tt.text, err)
		}
		if res.Label != tt.want {
			t.Errorf("Classify(%q) = %q (%.2f), want %q", tt.text, res.Label, res.Confidence, tt.want)
		}
		if res.Confidence < DefaultThreshold {
			t.Errorf("Classify(%q) confidence %.2f below threshold", tt.text, res.Confidence)
		}
	}
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte(`{"labels":["a"],"bias":{"a":0.1}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if len(m.Labels) != 1 || m.Labels[0] != "a" {
		t.Errorf("labels = %v", m.Labels)
	}

	if _, err := LoadModel(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"labels":[]}`), 0o644)
	if _, err := LoadModel(bad); err == nil {
		t.Error("expected error for model without labels")
	}

	garbage := filepath.Join(dir, "garbage.json")
	os.WriteFile(garbage, []byte(`not json`), 0o644)
	if _, err := LoadModel(garbage); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestResponder(t *testing.T) {
	catalog := map[string][]string{
		"thanks": {"You're welcome!"},
	}
	r := NewResponder(catalog, rand.NewSource(1))

	if got := r.Respond("thanks"); got != "You're welcome!" {
		t.Errorf("Respond(thanks) = %q", got)
	}
	if got := r.Respond("no_such_label"); got != genericFallback {
		t.Errorf("Respond(unknown) = %q, want generic fallback", got)
	}
}

func TestResponderDefaultCatalog(t *testing.T) {
	r := NewResponder(nil, rand.NewSource(1))
	catalog := DefaultResponses()

	for _, label := range []string{"greeting", "thanks", "order_status", "exchange_request", "policy_question"} {
		reply := r.Respond(label)
		found := false
		for _, c := range catalog[label] {
			if reply == c {
				found = true
			}
		}
		if !found {
			t.Errorf("Respond(%q) = %q not in catalog", label, reply)
		}
	}
}

func TestLoadResponses(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "responses.yaml")
	os.WriteFile(path, []byte("greeting:\n  - hi there\n"), 0o644)
	catalog, err := LoadResponses(path)
	if err != nil {
		t.Fatalf("LoadResponses: %v", err)
	}
	if len(catalog["greeting"]) != 1 {
		t.Errorf("catalog = %v", catalog)
	}

	empty := filepath.Join(dir, "empty.yaml")
	os.WriteFile(empty, []byte("greeting: []\n"), 0o644)
	if _, err := LoadResponses(empty); err == nil {
		t.Error("expected error for label with no replies")
	}

	if _, err := LoadResponses(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
