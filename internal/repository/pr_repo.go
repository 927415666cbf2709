package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pr-review-dashboard/internal/domain"
)

// PRRepository реализует взаимодействие с данными пул-реквестов в PostgreSQL.
type PRRepository struct {
	db *sql.DB
}

// NewPRRepository создает новый экземпляр PRRepository.
func NewPRRepository(db *sql.DB) domain.PRRepository {
	return &PRRepository{db: db}
}

const prColumns = `id, repository_id, number, title, description, author, base_branch, head_branch,
	status, review_status, additions, deletions, changed_files, github_id, created_at, updated_at`

// Create сохраняет новый пул-реквест.
func (r *PRRepository) Create(ctx context.Context, pr *domain.PullRequest) (*domain.PullRequest, error) {
	status := pr.Status
	if status == "" {
		status = "open"
	}
	reviewStatus := pr.ReviewStatus
	if reviewStatus == "" {
		reviewStatus = "pending"
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO pull_requests (repository_id, number, title, description, author,
			base_branch, head_branch, status, review_status, additions, deletions, changed_files, github_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+prColumns,
		pr.RepositoryID, pr.Number, pr.Title, nullString(pr.Description), pr.Author,
		pr.BaseBranch, pr.HeadBranch, status, reviewStatus,
		pr.Additions, pr.Deletions, pr.ChangedFiles, nullInt64(pr.GithubID),
	)

	created, err := scanPullRequest(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create PR: %w", err)
	}
	return created, nil
}

// GetByID возвращает пул-реквест по ID.
func (r *PRRepository) GetByID(ctx context.Context, prID string) (*domain.PullRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+prColumns+` FROM pull_requests WHERE id = $1`, prID)

	pr, err := scanPullRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPRNotFound
		}
		return nil, fmt.Errorf("failed to get PR: %w", err)
	}
	return pr, nil
}

// GetAll возвращает пул-реквесты, опционально отфильтрованные по репозиторию.
func (r *PRRepository) GetAll(ctx context.Context, repositoryID string) ([]*domain.PullRequest, error) {
	query := `SELECT ` + prColumns + ` FROM pull_requests`
	args := []any{}
	if repositoryID != "" {
		query += ` WHERE repository_id = $1`
		args = append(args, repositoryID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get PRs: %w", err)
	}
	defer rows.Close()

	prs := make([]*domain.PullRequest, 0)
	for rows.Next() {
		pr, err := scanPullRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan PR: %w", err)
		}
		prs = append(prs, pr)
	}
	return prs, rows.Err()
}

// UpdateReviewStatus обновляет кэшированную проекцию статуса ревью.
func (r *PRRepository) UpdateReviewStatus(ctx context.Context, prID, reviewStatus string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pull_requests SET review_status = $2, updated_at = NOW() WHERE id = $1`,
		prID, reviewStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update PR review status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrPRNotFound
	}
	return nil
}

func scanPullRequest(row scanner) (*domain.PullRequest, error) {
	var pr domain.PullRequest
	var description sql.NullString
	var githubID sql.NullInt64

	err := row.Scan(
		&pr.ID, &pr.RepositoryID, &pr.Number, &pr.Title, &description, &pr.Author,
		&pr.BaseBranch, &pr.HeadBranch, &pr.Status, &pr.ReviewStatus,
		&pr.Additions, &pr.Deletions, &pr.ChangedFiles, &githubID,
		&pr.CreatedAt, &pr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	pr.Description = fromNullString(description)
	pr.GithubID = fromNullInt64(githubID)
	return &pr, nil
}

// PRFileRepository реализует взаимодействие с файлами пул-реквестов.
type PRFileRepository struct {
	db *sql.DB
}

// NewPRFileRepository создает новый экземпляр PRFileRepository.
func NewPRFileRepository(db *sql.DB) domain.PRFileRepository {
	return &PRFileRepository{db: db}
}

const prFileColumns = `id, pull_request_id, filename, status, additions, deletions, patch, previous_filename, created_at`

// Create сохраняет файл пул-реквеста.
func (r *PRFileRepository) Create(ctx context.Context, file *domain.PrFile) (*domain.PrFile, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO pr_files (pull_request_id, filename, status, additions, deletions, patch, previous_filename)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+prFileColumns,
		file.PullRequestID, file.Filename, file.Status, file.Additions, file.Deletions,
		nullString(file.Patch), nullString(file.PreviousFilename),
	)

	created, err := scanPrFile(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create PR file: %w", err)
	}
	return created, nil
}

// GetByPullRequest возвращает файлы пул-реквеста.
func (r *PRFileRepository) GetByPullRequest(ctx context.Context, prID string) ([]*domain.PrFile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+prFileColumns+` FROM pr_files WHERE pull_request_id = $1 ORDER BY filename`, prID)
	if err != nil {
		return nil, fmt.Errorf("failed to get PR files: %w", err)
	}
	defer rows.Close()

	files := make([]*domain.PrFile, 0)
	for rows.Next() {
		file, err := scanPrFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan PR file: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func scanPrFile(row scanner) (*domain.PrFile, error) {
	var file domain.PrFile
	var patch, previousFilename sql.NullString

	err := row.Scan(
		&file.ID, &file.PullRequestID, &file.Filename, &file.Status,
		&file.Additions, &file.Deletions, &patch, &previousFilename, &file.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	file.Patch = fromNullString(patch)
	file.PreviousFilename = fromNullString(previousFilename)
	return &file, nil
}
