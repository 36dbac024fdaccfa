package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina/glow-platform/internal/config"
	"github.com/lumina/glow-platform/internal/domain"
)

type stubInvoker struct {
	response anthropicResponse
	err      error
	lastBody []byte
}

func (s *stubInvoker) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	s.lastBody = params.Body
	if s.err != nil {
		return nil, s.err
	}
	body, err := json.Marshal(s.response)
	if err != nil {
		return nil, err
	}
	return &bedrockruntime.InvokeModelOutput{Body: body}, nil
}

func testConfig() config.AdvisorConfig {
	return config.AdvisorConfig{
		ModelID:     "anthropic.claude-3-sonnet-20240229-v1:0",
		MaxTokens:   1024,
		Temperature: 0.7,
		TopK:        40,
		TopP:        0.95,
	}
}

func textResponse(text string) anthropicResponse {
	var r anthropicResponse
	r.Content = []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{{Type: "text", Text: text}}
	return r
}

func TestChat_ReturnsModelReply(t *testing.T) {
	invoker := &stubInvoker{response: textResponse("Start with a gentle cleanser.")}
	a := NewWithInvoker(invoker, testConfig())

	reply := a.Chat(context.Background(), domain.UserPreferences{}, nil, "Help me build a routine")
	assert.Equal(t, "Start with a gentle cleanser.", reply.Text)
	assert.False(t, reply.Fallback)
	assert.NotEmpty(t, reply.Suggestions)
	assert.LessOrEqual(t, len(reply.Suggestions), 3)
}

func TestChat_FixedGenerationParams(t *testing.T) {
	invoker := &stubInvoker{response: textResponse("ok")}
	a := NewWithInvoker(invoker, testConfig())

	a.Chat(context.Background(), domain.UserPreferences{}, nil, "hello")

	var req anthropicRequest
	require.NoError(t, json.Unmarshal(invoker.lastBody, &req))
	assert.Equal(t, 1024, req.MaxTokens)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 40, req.TopK)
	assert.Equal(t, 0.95, req.TopP)
	assert.Equal(t, "bedrock-2023-05-31", req.AnthropicVersion)
}

func TestChat_PreferencesLandInSystemPrompt(t *testing.T) {
	invoker := &stubInvoker{response: textResponse("ok")}
	a := NewWithInvoker(invoker, testConfig())

	prefs := domain.UserPreferences{
		SkinType:     domain.SkinTypeSensitive,
		SkinConcerns: []string{"redness"},
		BudgetTier:   domain.BudgetMid,
		EcoFriendly:  true,
		AllergyTags:  []string{"fragrance"},
	}
	a.Chat(context.Background(), prefs, nil, "hello")

	var req anthropicRequest
	require.NoError(t, json.Unmarshal(invoker.lastBody, &req))
	assert.Contains(t, req.System, "sensitive")
	assert.Contains(t, req.System, "redness")
	assert.Contains(t, req.System, "mid-range")
	assert.Contains(t, req.System, "eco-friendly")
	assert.Contains(t, req.System, "fragrance")
}

func TestChat_HistoryPrecedesNewMessage(t *testing.T) {
	invoker := &stubInvoker{response: textResponse("ok")}
	a := NewWithInvoker(invoker, testConfig())

	history := []Message{
		{Role: "user", Content: "Is retinol safe?"},
		{Role: "assistant", Content: "Yes, start slowly."},
	}
	a.Chat(context.Background(), domain.UserPreferences{}, history, "How often?")

	var req anthropicRequest
	require.NoError(t, json.Unmarshal(invoker.lastBody, &req))
	require.Len(t, req.Messages, 3)
	assert.Equal(t, "Is retinol safe?", req.Messages[0].Content)
	assert.Equal(t, "assistant", req.Messages[1].Role)
	assert.Equal(t, "How often?", req.Messages[2].Content)
}

func TestChat_FallbackOnModelError(t *testing.T) {
	invoker := &stubInvoker{err: errors.New("throttled")}
	a := NewWithInvoker(invoker, testConfig())

	reply := a.Chat(context.Background(), domain.UserPreferences{}, nil, "hello")
	assert.Equal(t, FallbackReply, reply.Text)
	assert.True(t, reply.Fallback)
	assert.NotEmpty(t, reply.Suggestions)
}

func TestChat_FallbackOnEmptyResponse(t *testing.T) {
	invoker := &stubInvoker{response: anthropicResponse{}}
	a := NewWithInvoker(invoker, testConfig())

	reply := a.Chat(context.Background(), domain.UserPreferences{}, nil, "hello")
	assert.True(t, reply.Fallback)
}

func TestSuggestions_KeyedToTopics(t *testing.T) {
	got := suggestions("my retinol stings", "")
	assert.Contains(t, got, "Can I layer these actives together?")

	got = suggestions("I keep breaking out", "")
	assert.Contains(t, got, "Which ingredients help with breakouts?")

	// Unrecognized topics fall back to general suggestions.
	got = suggestions("hello there", "")
	assert.Len(t, got, 3)
}
