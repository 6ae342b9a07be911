package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"advocateasy-backend/models"
	"advocateasy-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttachmentStore persists evidence attachment metadata
type AttachmentStore interface {
	Create(ctx context.Context, attachment *models.Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error)
	ListByEmail(ctx context.Context, email string) ([]*models.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AttachmentHandler handles evidence file uploads referenced by intake
// forms via their attached file name. Every stored blob has a metadata
// record tying it to the uploading user.
type AttachmentHandler struct {
	attachments AttachmentStore
	storage     storage.Storage
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(attachments AttachmentStore, store storage.Storage) *AttachmentHandler {
	return &AttachmentHandler{
		attachments: attachments,
		storage:     store,
	}
}

// Upload handles POST /api/attachments
func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "No file provided",
			},
		})
		return
	}

	mimeType, err := storage.ValidateEvidenceFile(fileHeader.Filename, fileHeader.Size)
	if err != nil {
		code := "UNSUPPORTED_TYPE"
		if errors.Is(err, storage.ErrFileTooLarge) {
			code = "FILE_TOO_LARGE"
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	attachmentID := uuid.New()
	storagePath, err := h.storage.Upload(c.Request.Context(), attachmentID, fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	attachment := &models.Attachment{
		ID:          attachmentID,
		Email:       sessionEmail(c),
		FileName:    fileHeader.Filename,
		MimeType:    mimeType,
		Size:        fileHeader.Size,
		StoragePath: storagePath,
	}
	if err := h.attachments.Create(c.Request.Context(), attachment); err != nil {
		// Remove the orphaned blob so storage and metadata stay in sync
		_ = h.storage.Delete(c.Request.Context(), storagePath)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SAVE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"attachment_id": attachment.ID,
			"file_name":     attachment.FileName,
			"mime_type":     attachment.MimeType,
			"size":          attachment.Size,
			"created_at":    attachment.CreatedAt,
		},
	})
}

// List handles GET /api/attachments
func (h *AttachmentHandler) List(c *gin.Context) {
	attachments, err := h.attachments.ListByEmail(c.Request.Context(), sessionEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if attachments == nil {
		attachments = []*models.Attachment{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    attachments,
	})
}

// Download handles GET /api/attachments/:id
func (h *AttachmentHandler) Download(c *gin.Context) {
	attachment, ok := h.ownedAttachment(c)
	if !ok {
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), attachment.StoragePath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ATTACHMENT_NOT_FOUND",
				"message": "Attachment not found",
			},
		})
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+attachment.FileName+`"`)
	c.Header("Content-Type", attachment.MimeType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

// Delete handles DELETE /api/attachments/:id
func (h *AttachmentHandler) Delete(c *gin.Context) {
	attachment, ok := h.ownedAttachment(c)
	if !ok {
		return
	}

	if err := h.storage.Delete(c.Request.Context(), attachment.StoragePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	if err := h.attachments.Delete(c.Request.Context(), attachment.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ownedAttachment resolves :id and enforces that the record belongs to
// the session user. Foreign records read as not found.
func (h *AttachmentHandler) ownedAttachment(c *gin.Context) (*models.Attachment, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid attachment ID format",
			},
		})
		return nil, false
	}

	attachment, err := h.attachments.GetByID(c.Request.Context(), id)
	if err != nil || attachment.Email != sessionEmail(c) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ATTACHMENT_NOT_FOUND",
				"message": "Attachment not found",
			},
		})
		return nil, false
	}

	return attachment, true
}
