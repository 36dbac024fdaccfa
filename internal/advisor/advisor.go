// Package advisor is the AI beauty-advisor chat, backed by a hosted Claude
// model on AWS Bedrock.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/lumina/glow-platform/internal/config"
	"github.com/lumina/glow-platform/internal/domain"
	"github.com/lumina/glow-platform/internal/pkg/logger"
)

// FallbackReply is returned whenever the model call fails. Chat never
// surfaces an error to the end user.
const FallbackReply = "I'm having a little trouble reaching my beauty knowledge right now. " +
	"Please try again in a moment, and in the meantime remember: hydration and SPF are never a bad idea!"

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Reply is the advisor's answer plus suggested follow-up questions.
type Reply struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions"`
	Fallback    bool     `json:"fallback"`
}

// ModelInvoker is the raw model call. Satisfied by the Bedrock runtime
// client; stubbed in tests.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Advisor turns user questions plus preference context into model calls.
// Generation parameters are fixed from config; there is no per-request
// tuning surface.
type Advisor struct {
	client ModelInvoker
	cfg    config.AdvisorConfig
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      float64            `json:"temperature,omitempty"`
	TopK             int                `json:"top_k,omitempty"`
	TopP             float64            `json:"top_p,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// New loads AWS config and builds the advisor.
func New(ctx context.Context, cfg config.AdvisorConfig) (*Advisor, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &Advisor{client: bedrockruntime.NewFromConfig(awsCfg), cfg: cfg}, nil
}

// NewWithInvoker wraps an existing invoker. Used in tests.
func NewWithInvoker(client ModelInvoker, cfg config.AdvisorConfig) *Advisor {
	return &Advisor{client: client, cfg: cfg}
}

// Chat answers one user message. The model gets a single attempt; any
// failure produces the on-brand fallback reply instead of an error.
func (a *Advisor) Chat(ctx context.Context, prefs domain.UserPreferences, history []Message, userMessage string) Reply {
	messages := make([]anthropicMessage, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, anthropicMessage{Role: "user", Content: userMessage})

	request := anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        a.cfg.MaxTokens,
		System:           buildSystemPrompt(prefs),
		Messages:         messages,
		Temperature:      a.cfg.Temperature,
		TopK:             a.cfg.TopK,
		TopP:             a.cfg.TopP,
	}

	body, err := json.Marshal(request)
	if err != nil {
		logger.Error("Failed to marshal advisor request", "error", err.Error())
		return fallbackReply(userMessage)
	}

	output, err := a.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(a.cfg.ModelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		logger.Warn("Advisor model call failed", "model_id", a.cfg.ModelID, "error", err.Error())
		return fallbackReply(userMessage)
	}

	var response anthropicResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		logger.Warn("Failed to parse advisor response", "error", err.Error())
		return fallbackReply(userMessage)
	}

	var text strings.Builder
	for _, c := range response.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	if text.Len() == 0 {
		return fallbackReply(userMessage)
	}

	logger.Debug("Advisor reply generated",
		"input_tokens", response.Usage.InputTokens,
		"output_tokens", response.Usage.OutputTokens,
	)

	return Reply{
		Text:        text.String(),
		Suggestions: suggestions(userMessage, text.String()),
	}
}

func fallbackReply(userMessage string) Reply {
	return Reply{
		Text:        FallbackReply,
		Suggestions: suggestions(userMessage, ""),
		Fallback:    true,
	}
}

func buildSystemPrompt(prefs domain.UserPreferences) string {
	prompt := `You are Glow's resident beauty advisor: a warm, knowledgeable skincare and style expert.

## Your Expertise
- Skincare routines for every skin type
- Ingredient compatibility and layering order
- Makeup and color matching
- Budget-conscious product alternatives
- Sustainable and eco-friendly beauty

## Response Guidelines
1. Be encouraging and never judgmental about anyone's skin or style
2. Give specific, actionable steps rather than vague advice
3. Flag ingredients that commonly irritate sensitive skin
4. Recommend patch testing for new active ingredients
5. Never give medical advice; suggest a dermatologist for persistent conditions`

	var facts []string
	if prefs.SkinType != domain.SkinTypeUnset {
		facts = append(facts, fmt.Sprintf("- Skin type: %s", prefs.SkinType))
	}
	if len(prefs.SkinConcerns) > 0 {
		facts = append(facts, fmt.Sprintf("- Concerns: %s", strings.Join(prefs.SkinConcerns, ", ")))
	}
	if prefs.BudgetTier != domain.BudgetUnset {
		facts = append(facts, fmt.Sprintf("- Budget: %s", prefs.BudgetTier))
	}
	if prefs.EcoFriendly {
		facts = append(facts, "- Prefers eco-friendly products")
	}
	if len(prefs.AllergyTags) > 0 {
		facts = append(facts, fmt.Sprintf("- Allergies/avoid: %s", strings.Join(prefs.AllergyTags, ", ")))
	}

	if len(facts) > 0 {
		prompt += "\n\n## About This User\n" + strings.Join(facts, "\n")
	}
	return prompt
}

// suggestions proposes up to three follow-up questions keyed off the
// conversation topics.
func suggestions(userMessage, response string) []string {
	lower := strings.ToLower(userMessage + " " + response)
	var out []string

	if strings.Contains(lower, "routine") || strings.Contains(lower, "morning") || strings.Contains(lower, "night") {
		out = append(out, "What order should I apply my products in?")
		out = append(out, "How do I adjust my routine for the season?")
	}
	if strings.Contains(lower, "acne") || strings.Contains(lower, "breakout") {
		out = append(out, "Which ingredients help with breakouts?")
		out = append(out, "Is my moisturizer clogging my pores?")
	}
	if strings.Contains(lower, "retinol") || strings.Contains(lower, "acid") || strings.Contains(lower, "vitamin c") {
		out = append(out, "Can I layer these actives together?")
		out = append(out, "How often should I use this ingredient?")
	}
	if strings.Contains(lower, "spf") || strings.Contains(lower, "sunscreen") {
		out = append(out, "How much sunscreen should I apply?")
	}
	if strings.Contains(lower, "budget") || strings.Contains(lower, "cheap") || strings.Contains(lower, "afford") {
		out = append(out, "What are the best drugstore alternatives?")
	}

	if len(out) == 0 {
		out = []string{
			"What should my daily routine look like?",
			"Which products suit my skin type?",
			"What's one change with the biggest impact?",
		}
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}
