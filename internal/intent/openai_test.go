package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type mockCompleter struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (m *mockCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: m.content}},
		},
	}, nil
}

func newOpenAIClassifier(t *testing.T, mock *mockCompleter) *OpenAIClassifier {
	t.Helper()
	oc, err := NewOpenAIClassifier(OpenAIClassifierOpts{Client: mock})
	if err != nil {
		t.Fatalf("NewOpenAIClassifier: %v", err)
	}
	return oc
}

func TestNewOpenAIClassifierRequiresKeyOrClient(t *testing.T) {
	if _, err := NewOpenAIClassifier(OpenAIClassifierOpts{}); err == nil {
		t.Fatal("expected error without api key or client")
	}
	if _, err := NewOpenAIClassifier(OpenAIClassifierOpts{APIKey: "sk-test"}); err != nil {
		t.Fatalf("unexpected error with api key: %v", err)
	}
}

func TestOpenAIClassify(t *testing.T) {
	mock := &mockCompleter{content: `{"label": "refund_request", "confidence": 0.92}`}
	oc := newOpenAIClassifier(t, mock)

	res, err := oc.Classify(context.Background(), "i want my money back")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Label != "refund_request" || res.Confidence != 0.92 {
		t.Errorf("result = %+v", res)
	}

	if mock.lastReq.Model != openai.GPT4oMini {
		t.Errorf("model = %q, want default", mock.lastReq.Model)
	}
	if len(mock.lastReq.Messages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(mock.lastReq.Messages))
	}
	if !strings.Contains(mock.lastReq.Messages[0].Content, "refund_request") {
		t.Errorf("system prompt missing label set: %q", mock.lastReq.Messages[0].Content)
	}
	if mock.lastReq.Messages[1].Content != "i want my money back" {
		t.Errorf("user message = %q", mock.lastReq.Messages[1].Content)
	}
}

func TestOpenAIClassifyStripsCodeFence(t *testing.T) {
	mock := &mockCompleter{content: "```json\n{\"label\": \"greeting\", \"confidence\": 0.8}\n```"}
	oc := newOpenAIClassifier(t, mock)

	res, err := oc.Classify(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Label != "greeting" {
		t.Errorf("label = %q", res.Label)
	}
}

func TestOpenAIClassifyClampsConfidence(t *testing.T) {
	mock := &mockCompleter{content: `{"label": "greeting", "confidence": 1.7}`}
	oc := newOpenAIClassifier(t, mock)

	res, err := oc.Classify(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Confidence != 1 {
		t.Errorf("confidence = %v, want clamped to 1", res.Confidence)
	}
}

func TestOpenAIClassifyErrors(t *testing.T) {
	apiErr := errors.New("rate limited")
	tests := []struct {
		name string
		mock *mockCompleter
	}{
		{"api error", &mockCompleter{err: apiErr}},
		{"unparseable content", &mockCompleter{content: "I think it's a refund"}},
		{"unknown label", &mockCompleter{content: `{"label": "smalltalk", "confidence": 0.9}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oc := newOpenAIClassifier(t, tt.mock)
			if _, err := oc.Classify(context.Background(), "hm"); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	oc := newOpenAIClassifier(t, &mockCompleter{err: apiErr})
	_, err := oc.Classify(context.Background(), "hm")
	if !errors.Is(err, apiErr) {
		t.Errorf("err = %v, want wrapped api error", err)
	}
}
