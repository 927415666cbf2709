package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pr-review-dashboard/internal/domain"
)

// RepositoryRepo реализует взаимодействие с данными репозиториев в PostgreSQL.
type RepositoryRepo struct {
	db *sql.DB
}

// NewRepositoryRepo создает новый экземпляр RepositoryRepo.
func NewRepositoryRepo(db *sql.DB) domain.RepositoryStore {
	return &RepositoryRepo{db: db}
}

const repositoryColumns = `id, full_name, name, owner, description, default_branch, github_id, is_private, created_at, updated_at`

// Create сохраняет новый репозиторий.
func (r *RepositoryRepo) Create(ctx context.Context, repo *domain.Repository) (*domain.Repository, error) {
	defaultBranch := repo.DefaultBranch
	if defaultBranch == "" {
		defaultBranch = "main"
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO repositories (full_name, name, owner, description, default_branch, github_id, is_private)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+repositoryColumns,
		repo.FullName, repo.Name, repo.Owner, nullString(repo.Description),
		defaultBranch, nullInt64(repo.GithubID), repo.IsPrivate,
	)

	created, err := scanRepository(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	return created, nil
}

// GetByID возвращает репозиторий по ID.
func (r *RepositoryRepo) GetByID(ctx context.Context, repoID string) (*domain.Repository, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+repositoryColumns+` FROM repositories WHERE id = $1`, repoID)

	repo, err := scanRepository(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRepositoryNotFound
		}
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return repo, nil
}

// GetAll возвращает все репозитории, новые первыми.
func (r *RepositoryRepo) GetAll(ctx context.Context) ([]*domain.Repository, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+repositoryColumns+` FROM repositories ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get repositories: %w", err)
	}
	defer rows.Close()

	repos := make([]*domain.Repository, 0)
	for rows.Next() {
		repo, err := scanRepository(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repository: %w", err)
		}
		repos = append(repos, repo)
	}
	return repos, rows.Err()
}

func scanRepository(row scanner) (*domain.Repository, error) {
	var repo domain.Repository
	var description sql.NullString
	var githubID sql.NullInt64

	err := row.Scan(
		&repo.ID, &repo.FullName, &repo.Name, &repo.Owner, &description,
		&repo.DefaultBranch, &githubID, &repo.IsPrivate, &repo.CreatedAt, &repo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	repo.Description = fromNullString(description)
	repo.GithubID = fromNullInt64(githubID)
	return &repo, nil
}
