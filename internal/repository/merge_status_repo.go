package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pr-review-dashboard/internal/domain"
)

// MergeStatusRepository реализует хранение агрегата merge-статуса в PostgreSQL.
type MergeStatusRepository struct {
	db *sql.DB
}

// NewMergeStatusRepository создает новый экземпляр MergeStatusRepository.
func NewMergeStatusRepository(db *sql.DB) domain.MergeStatusRepository {
	return &MergeStatusRepository{db: db}
}

const mergeStatusColumns = `id, pull_request_id, can_merge, blocked_reason,
	total_comments, resolved_comments, critical_issues, last_checked, updated_at`

// GetByPullRequest возвращает агрегат для пул-реквеста.
// Отсутствие строки означает "PR еще не оценивался", а не "можно мержить".
func (r *MergeStatusRepository) GetByPullRequest(ctx context.Context, prID string) (*domain.MergeStatus, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+mergeStatusColumns+` FROM pr_merge_status WHERE pull_request_id = $1`, prID)

	status, err := scanMergeStatus(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMergeStatusNotFound
		}
		return nil, fmt.Errorf("failed to get merge status: %w", err)
	}
	return status, nil
}

// Upsert создает агрегат или перезаписывает существующий.
// Уникальный индекс по pull_request_id гарантирует единственность строки;
// конкурирующие вставки схлопываются в обновление.
func (r *MergeStatusRepository) Upsert(ctx context.Context, status *domain.MergeStatus) (*domain.MergeStatus, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO pr_merge_status (pull_request_id, can_merge, blocked_reason,
			total_comments, resolved_comments, critical_issues, last_checked, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (pull_request_id) DO UPDATE SET
			can_merge = EXCLUDED.can_merge,
			blocked_reason = EXCLUDED.blocked_reason,
			total_comments = EXCLUDED.total_comments,
			resolved_comments = EXCLUDED.resolved_comments,
			critical_issues = EXCLUDED.critical_issues,
			last_checked = NOW(),
			updated_at = NOW()
		RETURNING `+mergeStatusColumns,
		status.PullRequestID, status.CanMerge, nullString(status.BlockedReason),
		status.TotalComments, status.ResolvedComments, status.CriticalIssues,
	)

	saved, err := scanMergeStatus(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert merge status: %w", err)
	}
	return saved, nil
}

func scanMergeStatus(row scanner) (*domain.MergeStatus, error) {
	var status domain.MergeStatus
	var blockedReason sql.NullString

	err := row.Scan(
		&status.ID, &status.PullRequestID, &status.CanMerge, &blockedReason,
		&status.TotalComments, &status.ResolvedComments, &status.CriticalIssues,
		&status.LastChecked, &status.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	status.BlockedReason = fromNullString(blockedReason)
	return &status, nil
}
