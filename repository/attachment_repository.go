package repository

import (
	"context"

	"advocateasy-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttachmentRepository handles database operations for evidence attachments
type AttachmentRepository struct {
	db *pgxpool.Pool
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create creates a new attachment record
func (r *AttachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	query := `
		INSERT INTO attachments (
			id, email, file_name, mime_type, size, storage_path
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		attachment.ID,
		attachment.Email,
		attachment.FileName,
		attachment.MimeType,
		attachment.Size,
		attachment.StoragePath,
	).Scan(&attachment.CreatedAt)
}

// GetByID retrieves an attachment by ID
func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	attachment := &models.Attachment{}
	query := `
		SELECT id, email, file_name, mime_type, size, storage_path, created_at
		FROM attachments
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&attachment.ID,
		&attachment.Email,
		&attachment.FileName,
		&attachment.MimeType,
		&attachment.Size,
		&attachment.StoragePath,
		&attachment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return attachment, nil
}

// ListByEmail retrieves all attachments for a user, newest first
func (r *AttachmentRepository) ListByEmail(ctx context.Context, email string) ([]*models.Attachment, error) {
	query := `
		SELECT id, email, file_name, mime_type, size, storage_path, created_at
		FROM attachments
		WHERE email = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []*models.Attachment
	for rows.Next() {
		attachment := &models.Attachment{}
		err := rows.Scan(
			&attachment.ID,
			&attachment.Email,
			&attachment.FileName,
			&attachment.MimeType,
			&attachment.Size,
			&attachment.StoragePath,
			&attachment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}

	return attachments, rows.Err()
}

// Delete deletes an attachment record
func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM attachments WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
