package handlers

import (
	"errors"
	"log"
	"net/http"

	"advocateasy-backend/models"
	"advocateasy-backend/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles HTTP requests for general legal-education queries
type ChatHandler struct {
	chatService *service.ChatService
	caseService *service.CaseService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, caseService *service.CaseService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		caseService: caseService,
	}
}

// ChatRequest represents the request body for a chat turn
type ChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Mode   string `json:"mode"`
	CaseID string `json:"case_id"`
}

// Chat handles POST /api/chat.
//
// With a case_id the turn is appended to the case: the user turn first,
// then the model turn annotated with usage, estimated saved tokens, and
// extracted citations. Without one the turn is stateless. On a generic
// collaborator failure the query is preserved in the case and pity tokens
// are banked; the overloaded condition gets its own message and no award.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	mode := service.ChatMode(req.Mode)
	if mode != service.ModeDeep {
		mode = service.ModeQuick
	}

	email := sessionEmail(c)
	ctx := c.Request.Context()

	// History is the case's stored turns before this prompt
	var history []models.ConversationTurn
	if req.CaseID != "" {
		if err := h.caseService.BeginExchange(email, req.CaseID); err != nil {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RESPONSE_IN_PROGRESS",
					"message": "A response for this case is already in progress",
				},
			})
			return
		}
		defer h.caseService.EndExchange(email, req.CaseID)

		stored, err := h.caseService.GetCase(ctx, email, req.CaseID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CASE_NOT_FOUND",
					"message": "Case not found",
				},
			})
			return
		}
		history = stored.Turns

		if err := h.caseService.AppendUserTurn(ctx, email, req.CaseID, req.Prompt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SAVE_FAILED",
					"message": err.Error(),
				},
			})
			return
		}
	}

	result, err := h.chatService.Ask(ctx, service.ChatRequest{
		Prompt:  req.Prompt,
		Mode:    mode,
		History: history,
	})
	if err != nil {
		h.handleChatError(c, err, email, req.CaseID, mode)
		return
	}

	savedTokens := service.EstimateSavedTokens(result.TokensUsed, len(req.Prompt), mode)
	if req.CaseID != "" {
		// A persistence failure keeps the computed estimate in the
		// response; the user still sees their reward.
		if banked, persistErr := h.caseService.AppendAssistantTurn(ctx, email, req.CaseID, result.Text, result.TokensUsed, len(req.Prompt), mode); persistErr != nil {
			log.Printf("Warning: failed to persist assistant turn: %v", persistErr)
		} else {
			savedTokens = banked
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"text":        result.Text,
		"tokensUsed":  result.TokensUsed,
		"savedTokens": savedTokens,
	})
}

func (h *ChatHandler) handleChatError(c *gin.Context, err error, email, caseID string, mode service.ChatMode) {
	log.Printf("Chat error: %v", err)

	if errors.Is(err, service.ErrModelOverloaded) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MODEL_OVERLOADED",
				"message": "The AI model is currently overloaded. Please wait 10 seconds and try submitting again.",
			},
		})
		return
	}

	// Generic failure: the user's query stays in the case and pity
	// tokens are banked.
	pity := service.PityTokens(mode)
	if caseID != "" {
		if banked, bankErr := h.caseService.AppendFailedTurn(c.Request.Context(), email, caseID, mode); bankErr == nil {
			pity = banked
		} else {
			log.Printf("Warning: failed to bank pity tokens: %v", bankErr)
		}
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success":     false,
		"tokensUsed":  0,
		"savedTokens": pity,
		"error": gin.H{
			"code":    "AI_ERROR",
			"message": "An unknown error occurred with the AI. Please try again.",
		},
	})
}
