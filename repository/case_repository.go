package repository

import (
	"context"
	"errors"

	"advocateasy-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseRepository stores each user's full case map as one JSONB document
// keyed by email. Whole-document upsert, last writer wins.
type CaseRepository struct {
	db *pgxpool.Pool
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{db: db}
}

// Load retrieves the user's case map, empty when none exists yet
func (r *CaseRepository) Load(ctx context.Context, email string) (models.CaseMap, error) {
	cases := make(models.CaseMap)
	query := `SELECT cases FROM user_cases WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(&cases)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return make(models.CaseMap), nil
		}
		return nil, err
	}

	return cases, nil
}

// Save upserts the full case map for a user
func (r *CaseRepository) Save(ctx context.Context, email string, cases models.CaseMap) error {
	query := `
		INSERT INTO user_cases (email, cases, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (email) DO UPDATE SET
			cases = EXCLUDED.cases,
			updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, email, cases)
	return err
}
