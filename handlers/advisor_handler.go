package handlers

import (
	"errors"
	"log"
	"net/http"

	"advocateasy-backend/models"
	"advocateasy-backend/service"

	"github.com/gin-gonic/gin"
)

// AdvisorHandler handles HTTP requests for intake-based case analysis
type AdvisorHandler struct {
	advisorService *service.AdvisorService
}

// NewAdvisorHandler creates a new advisor handler
func NewAdvisorHandler(advisorService *service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{advisorService: advisorService}
}

// AdvisorRequest is the full intake record submitted for analysis
type AdvisorRequest struct {
	CaseTitle     string `json:"caseTitle"`
	PlaintiffName string `json:"plaintiffName"`
	DefendantName string `json:"defendantName"`
	CaseType      string `json:"caseType"`
	State         string `json:"state"`
	City          string `json:"city"`

	CauseDate    string `json:"causeDate"`
	Description  string `json:"description"`
	ReliefSought string `json:"reliefSought"`
	SuitValue    string `json:"suitValue"`
	PriorActions string `json:"priorActions"`

	Witnesses []models.Witness      `json:"witnesses"`
	Evidence  []models.EvidenceItem `json:"evidence"`
}

// Analyze handles POST /api/case-advisor.
//
// The submitted record is replayed through the intake session so every
// stage guard runs server-side; a record that would not have passed the
// form is rejected with its field errors.
func (h *AdvisorHandler) Analyze(c *gin.Context) {
	var req AdvisorRequest
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

	session := service.NewIntakeSession(h.advisorService)
	session.SetBasics(req.CaseTitle, req.PlaintiffName, req.DefendantName, req.CaseType, req.State, req.City)
	session.SetFacts(req.Description, req.CauseDate, req.ReliefSought, req.SuitValue, req.PriorActions)

	ctx := c.Request.Context()

	// Basics and Facts guards
	for session.Stage() < service.StageEvidence {
		if fieldErrs, err := session.Advance(ctx); err != nil {
			h.rejectValidation(c, session, fieldErrs, err)
			return
		}
	}

	for _, w := range req.Witnesses {
		if err := session.AddWitness(w); err != nil {
			h.rejectValidation(c, session, nil, err)
			return
		}
	}
	for _, e := range req.Evidence {
		if err := session.AddEvidence(e); err != nil {
			h.rejectValidation(c, session, nil, err)
			return
		}
	}

	// Evidence guard + the single advisor round trip
	fieldErrs, err := session.Advance(ctx)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.rejectValidation(c, session, fieldErrs, err)
			return
		}
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
		log.Printf("Case advisor error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AI_ERROR",
				"message": "An unknown error occurred with the AI. Please try again.",
			},
		})
		return
	}

	result := session.Result()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"text":       result.Text,
		"tokensUsed": result.TokensUsed,
		"citations":  result.Citations,
	})
}

func (h *AdvisorHandler) rejectValidation(c *gin.Context, session *service.IntakeSession, fieldErrs service.FieldErrors, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"stage":   session.Stage().String(),
		"fields":  fieldErrs,
		"error": gin.H{
			"code":    "VALIDATION_FAILED",
			"message": err.Error(),
		},
	})
}
