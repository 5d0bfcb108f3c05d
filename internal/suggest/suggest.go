// Package suggest drafts bookmark summaries through an LLM provider. The
// draft is shown as a starting point during interactive annotation; the
// user's own text is what gets stored.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/openai/openai-go"
	ooption "github.com/openai/openai-go/option"
)

// Suggester drafts a one-sentence summary for a bookmark.
type Suggester interface {
	Suggest(ctx context.Context, title, url string) (string, error)
}

const (
	defaultAnthropicModel = "claude-haiku-4-5"
	defaultOpenAIModel    = "gpt-4o-mini"

	maxDraftTokens = 256
)

const draftPrompt = `Write a one-sentence summary (max 200 characters) of what this bookmarked page is likely about, judging from its title and URL. Respond with ONLY the sentence, nothing else.

Title: %s
URL: %s`

// New builds a Suggester for the given provider ("anthropic" or "openai").
func New(provider, model, apiKey string) (Suggester, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing API key")
	}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "anthropic":
		if model == "" {
			model = defaultAnthropicModel
		}
		return &anthropicSuggester{
			client: anthropic.NewClient(aoption.WithAPIKey(strings.TrimSpace(apiKey))),
			model:  model,
		}, nil
	case "openai":
		if model == "" {
			model = defaultOpenAIModel
		}
		return &openaiSuggester{
			client: openai.NewClient(ooption.WithAPIKey(strings.TrimSpace(apiKey))),
			model:  model,
		}, nil
	default:
		return nil, fmt.Errorf("unknown suggestion provider: %q (valid: anthropic, openai)", provider)
	}
}

func buildPrompt(title, url string) string {
	return fmt.Sprintf(draftPrompt, title, url)
}

type anthropicSuggester struct {
	client anthropic.Client
	model  string
}

func (s *anthropicSuggester) Suggest(ctx context.Context, title, url string) (string, error) {
	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: maxDraftTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(title, url))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic suggestion: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("empty anthropic response")
	}
	return strings.TrimSpace(sb.String()), nil
}

type openaiSuggester struct {
	client openai.Client
	model  string
}

func (s *openaiSuggester) Suggest(ctx context.Context, title, url string) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(title, url)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai suggestion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty openai response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
