package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"pr-review-dashboard/internal/domain"
)

// InsightRepository реализует хранение вспомогательных записей ревью.
type InsightRepository struct {
	db *sql.DB
}

// NewInsightRepository создает новый экземпляр InsightRepository.
func NewInsightRepository(db *sql.DB) domain.InsightRepository {
	return &InsightRepository{db: db}
}

// CreateInsight сохраняет сводную оценку изменения.
func (r *InsightRepository) CreateInsight(ctx context.Context, insight *domain.ReviewInsight) (*domain.ReviewInsight, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO review_insights (pull_request_id, category, risk_level, change_type,
			impact_score, review_time, educational_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, pull_request_id, category, risk_level, change_type,
			impact_score, review_time, educational_value, created_at`,
		insight.PullRequestID, insight.Category, insight.RiskLevel, insight.ChangeType,
		insight.ImpactScore, insight.ReviewTime, insight.EducationalValue,
	)

	var created domain.ReviewInsight
	err := row.Scan(
		&created.ID, &created.PullRequestID, &created.Category, &created.RiskLevel,
		&created.ChangeType, &created.ImpactScore, &created.ReviewTime,
		&created.EducationalValue, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create insight: %w", err)
	}
	return &created, nil
}

// GetInsightsByPullRequest возвращает сводные оценки PR.
func (r *InsightRepository) GetInsightsByPullRequest(ctx context.Context, prID string) ([]*domain.ReviewInsight, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pull_request_id, category, risk_level, change_type,
			impact_score, review_time, educational_value, created_at
		FROM review_insights WHERE pull_request_id = $1 ORDER BY created_at DESC`, prID)
	if err != nil {
		return nil, fmt.Errorf("failed to get insights: %w", err)
	}
	defer rows.Close()

	insights := make([]*domain.ReviewInsight, 0)
	for rows.Next() {
		var insight domain.ReviewInsight
		err := rows.Scan(
			&insight.ID, &insight.PullRequestID, &insight.Category, &insight.RiskLevel,
			&insight.ChangeType, &insight.ImpactScore, &insight.ReviewTime,
			&insight.EducationalValue, &insight.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, &insight)
	}
	return insights, rows.Err()
}

// CreateCodeContext сохраняет контекстный анализ файла.
func (r *InsightRepository) CreateCodeContext(ctx context.Context, codeCtx *domain.CodeContext) (*domain.CodeContext, error) {
	deps, err := json.Marshal(codeCtx.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dependencies: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO code_context (pull_request_id, file_id, dependencies, complexity,
			maintainability_index, tech_debt)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, pull_request_id, file_id, dependencies, complexity,
			maintainability_index, tech_debt, created_at`,
		codeCtx.PullRequestID, codeCtx.FileID, deps, codeCtx.Complexity,
		codeCtx.MaintainabilityIndex, codeCtx.TechDebt,
	)

	return scanCodeContext(row)
}

// GetCodeContextByPullRequest возвращает контекстный анализ файлов PR.
func (r *InsightRepository) GetCodeContextByPullRequest(ctx context.Context, prID string) ([]*domain.CodeContext, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pull_request_id, file_id, dependencies, complexity,
			maintainability_index, tech_debt, created_at
		FROM code_context WHERE pull_request_id = $1`, prID)
	if err != nil {
		return nil, fmt.Errorf("failed to get code context: %w", err)
	}
	defer rows.Close()

	contexts := make([]*domain.CodeContext, 0)
	for rows.Next() {
		codeCtx, err := scanCodeContext(rows)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, codeCtx)
	}
	return contexts, rows.Err()
}

func scanCodeContext(row scanner) (*domain.CodeContext, error) {
	var codeCtx domain.CodeContext
	var deps []byte

	err := row.Scan(
		&codeCtx.ID, &codeCtx.PullRequestID, &codeCtx.FileID, &deps,
		&codeCtx.Complexity, &codeCtx.MaintainabilityIndex, &codeCtx.TechDebt,
		&codeCtx.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan code context: %w", err)
	}

	if err := json.Unmarshal(deps, &codeCtx.Dependencies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dependencies: %w", err)
	}
	return &codeCtx, nil
}

// CreateLearningPattern сохраняет выученный паттерн репозитория.
func (r *InsightRepository) CreateLearningPattern(ctx context.Context, pattern *domain.LearningPattern) (*domain.LearningPattern, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO learning_patterns (repository_id, pattern_type, pattern, confidence)
		VALUES ($1, $2, $3, $4)
		RETURNING id, repository_id, pattern_type, pattern, confidence, occurrences, last_seen, created_at`,
		pattern.RepositoryID, pattern.PatternType, pattern.Pattern, pattern.Confidence,
	)

	var created domain.LearningPattern
	err := row.Scan(
		&created.ID, &created.RepositoryID, &created.PatternType, &created.Pattern,
		&created.Confidence, &created.Occurrences, &created.LastSeen, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create learning pattern: %w", err)
	}
	return &created, nil
}

// GetLearningPatternsByRepository возвращает паттерны репозитория по убыванию уверенности.
func (r *InsightRepository) GetLearningPatternsByRepository(ctx context.Context, repositoryID string) ([]*domain.LearningPattern, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, repository_id, pattern_type, pattern, confidence, occurrences, last_seen, created_at
		FROM learning_patterns WHERE repository_id = $1 ORDER BY confidence DESC`, repositoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get learning patterns: %w", err)
	}
	defer rows.Close()

	patterns := make([]*domain.LearningPattern, 0)
	for rows.Next() {
		var pattern domain.LearningPattern
		err := rows.Scan(
			&pattern.ID, &pattern.RepositoryID, &pattern.PatternType, &pattern.Pattern,
			&pattern.Confidence, &pattern.Occurrences, &pattern.LastSeen, &pattern.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan learning pattern: %w", err)
		}
		patterns = append(patterns, &pattern)
	}
	return patterns, rows.Err()
}
