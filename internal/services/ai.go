package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/idea-tracker/internal/constants"
)

// ChatCompleter is the part of the OpenAI client used for drafting
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client ChatCompleter
}

// SuggestedIdea is a draft idea returned by the model. Nothing is stored until
// the user submits it through the normal idea form.
type SuggestedIdea struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	TargetCustomer      string   `json:"target_customer"`
	MarketingStrategies []string `json:"marketing_strategies"`
	Timeline            string   `json:"timeline"`
	EstimatedCost       *float64 `json:"estimated_cost"`
	Potential           *int     `json:"potential"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// NewAIServiceWithClient creates an AIService around any chat client
func NewAIServiceWithClient(client ChatCompleter) *AIService {
	return &AIService{client: client}
}

// SuggestIdeas drafts business ideas from a free-text brief using OpenAI GPT
func (s *AIService) SuggestIdeas(ctx context.Context, brief string) ([]SuggestedIdea, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}

	prompt := fmt.Sprintf(`You help founders brainstorm business ideas. Draft at most %d ideas from the brief below.

Brief:
%s

Return a JSON array in this shape:
[
  {
    "name": "short idea name",
    "description": "two or three sentences",
    "target_customer": "who buys it",
    "marketing_strategies": ["social_media", "seo"],
    "timeline": "rough time to launch",
    "estimated_cost": 5000,
    "potential": 7
  }
]

Rules:
- potential is a whole number from 1 to 10
- estimated_cost is a non-negative number or null
- return only JSON, no prose`, constants.MaxAISuggestedIdeas, brief)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.7,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var drafts []SuggestedIdea
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	ideas := make([]SuggestedIdea, 0, len(drafts))
	for _, d := range drafts {
		d.Name = strings.TrimSpace(d.Name)
		d.Description = strings.TrimSpace(d.Description)
		if d.Name == "" || d.Description == "" {
			continue
		}
		if d.EstimatedCost != nil && *d.EstimatedCost < 0 {
			d.EstimatedCost = nil
		}
		d.MarketingStrategies, _ = NormalizeStrategies(d.MarketingStrategies)
		ideas = append(ideas, d)
		if len(ideas) == constants.MaxAISuggestedIdeas {
			break
		}
	}

	if len(ideas) == 0 {
		return nil, ErrAINoValidIdeas
	}

	return ideas, nil
}

// stripCodeFence removes a surrounding ``` block the model sometimes adds
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if i := strings.Index(content, "\n"); i >= 0 {
		content = content[i+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
