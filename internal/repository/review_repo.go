package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pr-review-dashboard/internal/domain"
)

// ReviewRepository реализует взаимодействие с данными AI-ревью в PostgreSQL.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository создает новый экземпляр ReviewRepository.
func NewReviewRepository(db *sql.DB) domain.ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, pull_request_id, overall_rating, code_quality_score, test_coverage,
	security_issues, performance_issues, summary, created_at`

// Create сохраняет новое ревью. Записи иммутабельны.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.AiReview) (*domain.AiReview, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO ai_reviews (pull_request_id, overall_rating, code_quality_score,
			test_coverage, security_issues, performance_issues, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+reviewColumns,
		review.PullRequestID, review.OverallRating, review.CodeQualityScore,
		review.TestCoverage, review.SecurityIssues, review.PerformanceIssues, review.Summary,
	)

	created, err := scanReview(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return created, nil
}

// GetByID возвращает ревью по ID.
func (r *ReviewRepository) GetByID(ctx context.Context, reviewID string) (*domain.AiReview, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM ai_reviews WHERE id = $1`, reviewID)

	review, err := scanReview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

// GetLatestByPullRequest возвращает актуальное (последнее) ревью PR.
func (r *ReviewRepository) GetLatestByPullRequest(ctx context.Context, prID string) (*domain.AiReview, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+reviewColumns+` FROM ai_reviews
		WHERE pull_request_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, prID)

	review, err := scanReview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get latest review: %w", err)
	}
	return review, nil
}

// GetAllByPullRequest возвращает все ревью PR (для пересчета агрегата).
func (r *ReviewRepository) GetAllByPullRequest(ctx context.Context, prID string) ([]*domain.AiReview, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reviewColumns+` FROM ai_reviews
		WHERE pull_request_id = $1
		ORDER BY created_at`, prID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*domain.AiReview, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func scanReview(row scanner) (*domain.AiReview, error) {
	var review domain.AiReview
	var summary sql.NullString

	err := row.Scan(
		&review.ID, &review.PullRequestID, &review.OverallRating,
		&review.CodeQualityScore, &review.TestCoverage,
		&review.SecurityIssues, &review.PerformanceIssues, &summary, &review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if summary.Valid {
		review.Summary = summary.String
	}
	return &review, nil
}
