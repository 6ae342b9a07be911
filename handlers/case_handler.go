package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"advocateasy-backend/service"

	"github.com/gin-gonic/gin"
)

// CaseHandler handles HTTP requests for the per-user case collection
type CaseHandler struct {
	caseService *service.CaseService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService *service.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

// CreateCase handles POST /api/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	created, err := h.caseService.CreateCase(c.Request.Context(), sessionEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": created})
}

// ListCases handles GET /api/cases
func (h *CaseHandler) ListCases(c *gin.Context) {
	cases, err := h.caseService.ListCases(c.Request.Context(), sessionEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LOAD_FAILED",
				"message": "Error loading cases",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cases": cases})
}

// GetCase handles GET /api/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	found, err := h.caseService.GetCase(c.Request.Context(), sessionEmail(c), c.Param("id"))
	if err != nil {
		h.caseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": found})
}

// RenameCaseRequest represents the request body for renaming a case
type RenameCaseRequest struct {
	Title string `json:"title" binding:"required"`
}

// RenameCase handles PUT /api/cases/:id/rename
func (h *CaseHandler) RenameCase(c *gin.Context) {
	var req RenameCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Title is required",
			},
		})
		return
	}

	if err := h.caseService.RenameCase(c.Request.Context(), sessionEmail(c), c.Param("id"), req.Title); err != nil {
		h.caseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteCase handles DELETE /api/cases/:id
func (h *CaseHandler) DeleteCase(c *gin.Context) {
	if err := h.caseService.DeleteCase(c.Request.Context(), sessionEmail(c), c.Param("id")); err != nil {
		h.caseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ExportCase handles GET /api/cases/:id/export, returning the rendered
// plain-text brief as a download.
func (h *CaseHandler) ExportCase(c *gin.Context) {
	found, err := h.caseService.GetCase(c.Request.Context(), sessionEmail(c), c.Param("id"))
	if err != nil {
		h.caseError(c, err)
		return
	}

	content := service.BuildCaseExport(found)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.txt"`, c.Param("id")))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

func (h *CaseHandler) caseError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrCaseNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CASE_NOT_FOUND",
				"message": "Case not found",
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "CASE_OPERATION_FAILED",
			"message": err.Error(),
		},
	})
}
