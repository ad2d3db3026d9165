package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// chatCompleter abstracts the OpenAI API method we use, enabling test
// mocks.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClassifier classifies messages by asking a chat model to pick
// one label from the fixed label set. It is a drop-in alternative to the
// local bag-of-words model for deployments that already hold an API key.
type OpenAIClassifier struct {
	client chatCompleter
	model  string
	labels []string
}

// OpenAIClassifierOpts holds parameters for creating an OpenAIClassifier.
type OpenAIClassifierOpts struct {
	APIKey string
	Model  string   // defaults to gpt-4o-mini
	Labels []string // defaults to the embedded model's label set
	// For testing: inject a mock client instead of the real API.
	Client chatCompleter
}

// NewOpenAIClassifier creates an OpenAIClassifier.
func NewOpenAIClassifier(opts OpenAIClassifierOpts) (*OpenAIClassifier, error) {
	if opts.Client == nil && opts.APIKey == "" {
		return nil, fmt.Errorf("intent: openai: api key is required")
	}
	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	labels := opts.Labels
	if len(labels) == 0 {
		labels = DefaultModel().Labels
	}
	client := opts.Client
	if client == nil {
		client = openai.NewClient(opts.APIKey)
	}
	return &OpenAIClassifier{client: client, model: model, labels: labels}, nil
}

// classifyPayload is the JSON object the model is instructed to return.
type classifyPayload struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classify asks the chat model for a label and confidence. API and
// parse failures are returned as errors, never disguised as a reply.
func (oc *OpenAIClassifier) Classify(ctx context.Context, text string) (Result, error) {
	system := fmt.Sprintf(
		"You are an intent classifier for a customer support desk. "+
			"Classify the user message into exactly one of these labels: %s. "+
			`Respond with JSON only: {"label": "<label>", "confidence": <0..1>}.`,
		strings.Join(oc.labels, ", "))

	resp, err := oc.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       oc.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("intent: openai classify: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("intent: openai classify: empty response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.Trim(content, "`\n ")

	var payload classifyPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return Result{}, fmt.Errorf("intent: openai classify: parse %q: %w", content, err)
	}
	if !oc.knownLabel(payload.Label) {
		return Result{}, fmt.Errorf("intent: openai classify: unknown label %q", payload.Label)
	}
	if payload.Confidence < 0 {
		payload.Confidence = 0
	}
	if payload.Confidence > 1 {
		payload.Confidence = 1
	}
	return Result{Label: payload.Label, Confidence: payload.Confidence}, nil
}

func (oc *OpenAIClassifier) knownLabel(label string) bool {
	for _, l := range oc.labels {
		if l == label {
			return true
		}
	}
	return false
}
