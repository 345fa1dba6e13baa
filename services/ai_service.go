// File: /services/ai_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"socialpulse-api/models"
)

const MaxPromptLength = 1000

var ErrAINotConfigured = errors.New("AI service is not configured")

// GenerationType selects what the AI endpoint produces.
type GenerationType string

const (
	GenerationText  GenerationType = "text"
	GenerationImage GenerationType = "image"
)

type platformGuideline struct {
	maxLength int
	style     string
	tips      string
}

var platformGuidelines = map[string]platformGuideline{
	string(models.PlatformTwitter): {
		maxLength: 280,
		style:     "concise, engaging, with hashtags",
		tips:      "Use emojis, keep it short, add 2-3 relevant hashtags",
	},
	string(models.PlatformLinkedIn): {
		maxLength: 3000,
		style:     "professional, insightful, value-driven",
		tips:      "Share insights, use professional tone, add call-to-action",
	},
	string(models.PlatformInstagram): {
		maxLength: 2200,
		style:     "visual, storytelling, engaging",
		tips:      "Focus on visuals, tell a story, use relevant hashtags (5-10)",
	},
	"general": {
		maxLength: 1000,
		style:     "engaging and platform-appropriate",
		tips:      "Keep it relevant and engaging",
	},
}

// GenerateInput is the payload of POST /ai/generate.
type GenerateInput struct {
	Prompt   string         `json:"prompt" binding:"required"`
	Type     GenerationType `json:"type" binding:"required"`
	Platform string         `json:"platform"`
}

// GenerateResult is returned by POST /ai/generate.
type GenerateResult struct {
	Content  string         `json:"content"`
	Type     GenerationType `json:"type"`
	Metadata GenerateMeta   `json:"metadata"`
}

type GenerateMeta struct {
	GeneratedAt time.Time `json:"generated_at"`
	Platform    string    `json:"platform"`
	Model       string    `json:"model"`
}

// ChatCompleter is the part of the OpenAI client the service uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client ChatCompleter
	model  string
	now    func() time.Time
}

// NewAIService returns a service backed by OpenAI. An empty apiKey yields a
// service whose Generate reports ErrAINotConfigured.
func NewAIService(apiKey, model, baseURL string) *AIService {
	var client ChatCompleter
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		client = openai.NewClientWithConfig(cfg)
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &AIService{client: client, model: model, now: func() time.Time { return time.Now().UTC() }}
}

func (s *AIService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, invalid("prompt", "is required")
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return nil, invalid("prompt", fmt.Sprintf("cannot be more than %d characters", MaxPromptLength))
	}
	platform := in.Platform
	if platform == "" {
		platform = "general"
	}

	var req openai.ChatCompletionRequest
	switch in.Type {
	case GenerationText:
		req = s.textRequest(prompt, platform)
	case GenerationImage:
		req = s.imagePromptRequest(prompt)
	default:
		return nil, invalid("type", "must be either text or image")
	}

	if s.client == nil {
		return nil, ErrAINotConfigured
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate %s content: %w", in.Type, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("generate %s content: empty response", in.Type)
	}

	return &GenerateResult{
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Type:    in.Type,
		Metadata: GenerateMeta{
			GeneratedAt: s.now(),
			Platform:    platform,
			Model:       s.model,
		},
	}, nil
}

func (s *AIService) textRequest(prompt, platform string) openai.ChatCompletionRequest {
	g, ok := platformGuidelines[platform]
	if !ok {
		g = platformGuidelines["general"]
	}

	system := fmt.Sprintf(`You are an expert social media content creator specializing in %s.

Guidelines:
- Maximum length: %d characters
- Style: %s
- Tips: %s

Create engaging, authentic content that doesn't sound too AI-generated. Make it conversational and relatable.`,
		platform, g.maxLength, g.style, g.tips)

	return openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   500,
		Temperature: 0.8,
	}
}

func (s *AIService) imagePromptRequest(prompt string) openai.ChatCompletionRequest {
	enhanced := fmt.Sprintf(`Create a detailed, creative image generation prompt for the following concept: %q

The prompt should:
- Be highly descriptive and visual
- Include artistic style suggestions
- Specify colors, lighting, and mood
- Be optimized for AI image generation tools
- Be between 50-100 words

Provide only the image prompt, nothing else.`, prompt)

	return openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: enhanced},
		},
		MaxTokens:   300,
		Temperature: 0.9,
	}
}
