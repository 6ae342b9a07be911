package service

import (
	"context"
	"errors"
	"fmt"

	"advocateasy-backend/models"
)

// Flattened single-string instruction; structured/nested instructions have
// triggered 400s from the API in the past.
const chatSystemInstruction = `You are "Advocat-Easy," an educational legal guide for non-criminal civil issues. Style: Clear, empowering. Use **bold headings** and - bullets for steps. CRITICAL: Civil issues ONLY. Decline all criminal law queries. Always end with "Educational only—consult certified lawyer." PROCESS: 1. Identify right. 2. Cite 1-2 law sections. 3. Connect law to issue. 4. Give bulleted next steps. LINKS: Use when relevant: National (NALSA [https://nalsa.gov.in]), Delhi (e-District [https://edistrict.delhigovt.nic.in]), Mumbai (MahRERA [https://maharera.mahaonline.gov.in]). MODES: 'Quick mode' is concise (under 150 words). 'Deep mode' is detailed with templates/pitfalls (under 400 words).`

// ChatService answers general legal-education queries with conversation
// history and a quick/deep response mode.
type ChatService struct {
	generator TextGenerator
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

// ChatWithGenerator sets the AI collaborator
func ChatWithGenerator(g TextGenerator) ChatServiceOption {
	return func(s *ChatService) {
		s.generator = g
	}
}

// NewChatService creates a new chat service
func NewChatService(opts ...ChatServiceOption) *ChatService {
	s := &ChatService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChatRequest represents one general-query turn
type ChatRequest struct {
	Prompt  string
	Mode    ChatMode
	History []models.ConversationTurn
}

// ChatResult carries the response text and real usage count
type ChatResult struct {
	Text       string
	TokensUsed int
}

func modePrompt(prompt string, mode ChatMode) string {
	if mode == ModeDeep {
		return fmt.Sprintf("Deep mode: %s. Full structure + template/pitfalls/links. Use - bullets. Under 400 words.", prompt)
	}
	return fmt.Sprintf("Quick mode: %s. Concise structure + 1 section/steps (- bullets, basic link, no template). Under 150 words.", prompt)
}

// Ask sends the prompt with prior history to the collaborator. A single
// attempt is made; failures propagate so the caller can apply the pity
// policy.
func (s *ChatService) Ask(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if s.generator == nil {
		return nil, errors.New("generator not set")
	}
	if req.Mode == "" {
		req.Mode = ModeQuick
	}

	genReq := GenerationRequest{
		SystemInstruction: chatSystemInstruction,
		History:           req.History,
		Prompt:            modePrompt(req.Prompt, req.Mode),
		Temperature:       0.9,
		MaxOutputTokens:   2048,
	}

	result, err := s.generator.Generate(ctx, genReq)
	if err != nil {
		return nil, err
	}

	return &ChatResult{Text: result.Text, TokensUsed: result.TokensUsed}, nil
}
