package analysis

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Analysis is a saved AI prompt and, once the user pastes it back, the
// assistant's response. Purely a log of the manual workflow.
type Analysis struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id"`
	AnalysisType string    `json:"analysis_type"`
	PromptUsed   string    `json:"prompt_used"`
	Result       string    `json:"result"`
	CreatedAt    time.Time `json:"created_at"`
}

type AnalysisRepository interface {
	Create(ctx context.Context, analysis *Analysis) error
	UpdateResult(ctx context.Context, analysisID uuid.UUID, userID, result string) (int64, error)
	FindByUserID(ctx context.Context, userID string) ([]Analysis, error)
}

type analysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, analysis *Analysis) error {
	query := `INSERT INTO analyses (id, user_id, analysis_type, prompt_used, result, created_at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, analysis.ID, analysis.UserID, analysis.AnalysisType,
		analysis.PromptUsed, analysis.Result, analysis.CreatedAt)
	return err
}

func (r *analysisRepository) UpdateResult(ctx context.Context, analysisID uuid.UUID, userID, result string) (int64, error) {
	query := `UPDATE analyses SET result = $1 WHERE id = $2 AND user_id = $3`
	res, err := r.db.ExecContext(ctx, query, result, analysisID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *analysisRepository) FindByUserID(ctx context.Context, userID string) ([]Analysis, error) {
	query := `SELECT id, user_id, analysis_type, prompt_used, result, created_at
              FROM analyses WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		err := rows.Scan(&a.ID, &a.UserID, &a.AnalysisType, &a.PromptUsed, &a.Result, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}
