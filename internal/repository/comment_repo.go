package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pr-review-dashboard/internal/domain"
)

// CommentRepository реализует взаимодействие с комментариями ревью в PostgreSQL.
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository создает новый экземпляр CommentRepository.
func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `id, ai_review_id, file_id, line_number, position, comment_type, severity,
	message, suggestion, status, resolved_by, resolved_at, resolution_note, created_at`

// Create сохраняет комментарий ревью. Position — индекс в батче вставки,
// стабильный ключ порядка при равных line_number.
func (r *CommentRepository) Create(ctx context.Context, comment *domain.ReviewComment) (*domain.ReviewComment, error) {
	severity := comment.Severity
	if severity == "" {
		severity = domain.SeverityLow
	}
	status := comment.Status
	if status == "" {
		status = domain.CommentStatusOpen
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO review_comments (ai_review_id, file_id, line_number, position,
			comment_type, severity, message, suggestion, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+commentColumns,
		comment.AiReviewID, nullString(comment.FileID), nullInt32(comment.LineNumber),
		comment.Position, comment.CommentType, severity, comment.Message,
		nullString(comment.Suggestion), status,
	)

	created, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return created, nil
}

// GetByID возвращает комментарий по ID.
func (r *CommentRepository) GetByID(ctx context.Context, commentID string) (*domain.ReviewComment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM review_comments WHERE id = $1`, commentID)

	comment, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// GetByReview возвращает комментарии одного ревью в стабильном порядке.
func (r *CommentRepository) GetByReview(ctx context.Context, reviewID string) ([]*domain.ReviewComment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+commentColumns+` FROM review_comments
		WHERE ai_review_id = $1
		ORDER BY line_number NULLS LAST, position`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review comments: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

// GetByPullRequest возвращает комментарии всех ревью пул-реквеста.
// Именно этот набор является источником истины для агрегата merge-статуса.
func (r *CommentRepository) GetByPullRequest(ctx context.Context, prID string) ([]*domain.ReviewComment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.ai_review_id, c.file_id, c.line_number, c.position, c.comment_type, c.severity,
			c.message, c.suggestion, c.status, c.resolved_by, c.resolved_at, c.resolution_note, c.created_at
		FROM review_comments c
		JOIN ai_reviews r ON r.id = c.ai_review_id
		WHERE r.pull_request_id = $1
		ORDER BY c.created_at, c.position`, prID)
	if err != nil {
		return nil, fmt.Errorf("failed to get PR comments: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

// GetUnresolvedByPullRequest возвращает open-комментарии всех ревью PR.
func (r *CommentRepository) GetUnresolvedByPullRequest(ctx context.Context, prID string) ([]*domain.ReviewComment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.ai_review_id, c.file_id, c.line_number, c.position, c.comment_type, c.severity,
			c.message, c.suggestion, c.status, c.resolved_by, c.resolved_at, c.resolution_note, c.created_at
		FROM review_comments c
		JOIN ai_reviews r ON r.id = c.ai_review_id
		WHERE r.pull_request_id = $1 AND c.status = 'open'
		ORDER BY c.created_at, c.position`, prID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unresolved comments: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

// MarkTerminal переводит комментарий из open в терминальный статус.
// Guard по status = 'open' делает переход однократным даже при гонке:
// проигравший вызов получает false.
func (r *CommentRepository) MarkTerminal(ctx context.Context, commentID, status, resolvedBy string, note *string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE review_comments
		SET status = $2, resolved_by = $3, resolved_at = $4, resolution_note = $5
		WHERE id = $1 AND status = 'open'`,
		commentID, status, resolvedBy, at, nullString(note),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark comment %s: %w", status, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check update result: %w", err)
	}
	return affected > 0, nil
}

func collectComments(rows *sql.Rows) ([]*domain.ReviewComment, error) {
	comments := make([]*domain.ReviewComment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func scanComment(row scanner) (*domain.ReviewComment, error) {
	var comment domain.ReviewComment
	var fileID, suggestion, resolvedBy, resolutionNote sql.NullString
	var lineNumber sql.NullInt32
	var resolvedAt sql.NullTime

	err := row.Scan(
		&comment.ID, &comment.AiReviewID, &fileID, &lineNumber, &comment.Position,
		&comment.CommentType, &comment.Severity, &comment.Message, &suggestion,
		&comment.Status, &resolvedBy, &resolvedAt, &resolutionNote, &comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	comment.FileID = fromNullString(fileID)
	comment.LineNumber = fromNullInt32(lineNumber)
	comment.Suggestion = fromNullString(suggestion)
	comment.ResolvedBy = fromNullString(resolvedBy)
	comment.ResolvedAt = fromNullTime(resolvedAt)
	comment.ResolutionNote = fromNullString(resolutionNote)
	return &comment, nil
}
