package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"advocateasy-backend/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
)

const geminiModelName = "gemini-2.5-flash"

var (
	// ErrModelOverloaded signals the upstream 503 condition so callers can
	// surface a distinct wait-and-retry message.
	ErrModelOverloaded = errors.New("model overloaded")
	ErrEmptyResponse   = errors.New("model returned no content")
)

// GenerationRequest parameterizes one text-completion round trip
type GenerationRequest struct {
	SystemInstruction string
	History           []models.ConversationTurn
	Prompt            string
	Temperature       float32
	MaxOutputTokens   int32
}

// GenerationResult carries the generated text and the real usage count
type GenerationResult struct {
	Text       string
	TokensUsed int
}

// TextGenerator is the AI collaborator seam. Exactly one attempt is made
// per call; retry policy belongs to the user, not this layer.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}

// GeminiGenerator implements TextGenerator over the Gemini API
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a generator backed by an initialized client
func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

func blockMediumAndAbove() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockMediumAndAbove,
		})
	}
	return settings
}

// Generate runs a single chat turn against Gemini with the request's
// system instruction and prior-turn history.
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	if g.client == nil {
		return nil, errors.New("gemini client not set")
	}

	model := g.client.GenerativeModel(geminiModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.SystemInstruction)},
	}
	model.SetTemperature(req.Temperature)
	model.SetTopK(1)
	model.SetTopP(1)
	model.SetMaxOutputTokens(req.MaxOutputTokens)
	model.SafetySettings = blockMediumAndAbove()

	chat := model.StartChat()
	chat.History = make([]*genai.Content, 0, len(req.History))
	for _, turn := range req.History {
		chat.History = append(chat.History, &genai.Content{
			Role:  string(turn.Speaker),
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}

	resp, err := chat.SendMessage(ctx, genai.Text(req.Prompt))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusServiceUnavailable {
			return nil, fmt.Errorf("%w: %v", ErrModelOverloaded, err)
		}
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	return &GenerationResult{
		Text:       text,
		TokensUsed: tokensUsed(resp.UsageMetadata),
	}, nil
}

// collectText concatenates the text parts of every returned candidate
func collectText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}
	return builder.String()
}

// tokensUsed reads the usage count, summing prompt and candidate counts
// when a total is absent.
func tokensUsed(usage *genai.UsageMetadata) int {
	if usage == nil {
		return 0
	}
	if usage.TotalTokenCount > 0 {
		return int(usage.TotalTokenCount)
	}
	return int(usage.PromptTokenCount) + int(usage.CandidatesTokenCount)
}
