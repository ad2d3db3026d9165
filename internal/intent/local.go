package intent

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

//go:embed model.json
var defaultModelFS embed.FS

// Model is the serialized bag-of-words intent model: per-label biases
// plus per-token, per-label weights. It is the deployable stand-in for
// the TF-IDF artifact produced by the training pipeline (training itself
// is out of scope here).
type Model struct {
	Labels  []string                      `json:"labels"`
	Bias    map[string]float64            `json:"bias"`
	Weights map[string]map[string]float64 `json:"weights"`
}

// LoadModel reads a Model from a JSON file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("intent: read model %s: %w", path, err)
	}
	return parseModel(data)
}

// DefaultModel returns the model bundled with the binary.
func DefaultModel() *Model {
	data, err := defaultModelFS.ReadFile("model.json")
	if err != nil {
		panic(fmt.Sprintf("intent: embedded model missing: %v", err))
	}
	m, err := parseModel(data)
	if err != nil {
		panic(fmt.Sprintf("intent: embedded model invalid: %v", err))
	}
	return m
}

func parseModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("intent: parse model: %w", err)
	}
	if len(m.Labels) == 0 {
		return nil, fmt.Errorf("intent: model has no labels")
	}
	return &m, nil
}

// LocalClassifier scores messages against an in-process Model. It is
// deterministic and never fails, so it is also the test stand-in of
// choice.
type LocalClassifier struct {
	model *Model
}

// NewLocalClassifier creates a LocalClassifier. A nil model uses the
// embedded default.
func NewLocalClassifier(model *Model) *LocalClassifier {
	if model == nil {
		model = DefaultModel()
	}
	return &LocalClassifier{model: model}
}

// Classify scores the normalized text against every label and returns
// the argmax with its softmax probability. When two labels tie at the
// maximum, the first in model label order wins; that matches the
// training-side argmax and keeps the adapter deterministic.
func (lc *LocalClassifier) Classify(_ context.Context, text string) (Result, error) {
	scores := make([]float64, len(lc.model.Labels))
	for i, label := range lc.model.Labels {
		scores[i] = lc.model.Bias[label]
	}
	for _, tok := range Tokenize(text) {
		tok = stem(tok)
		weights, ok := lc.model.Weights[tok]
		if !ok {
			continue
		}
		for i, label := range lc.model.Labels {
			scores[i] += weights[label]
		}
	}

	probs := softmax(scores)
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return Result{Label: lc.model.Labels[best], Confidence: probs[best]}, nil
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var sum float64
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
