package domain

import (
	"context"
	"time"
)

// Repository представляет подключенный git-репозиторий.
type Repository struct {
	ID            string
	FullName      string
	Name          string
	Owner         string
	Description   *string
	DefaultBranch string
	GithubID      *int64
	IsPrivate     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PullRequest представляет сущность пул-реквеста в системе.
// ReviewStatus — денормализованная проекция рейтинга последнего AI-ревью
// (для списков), не источник истины для merge-гейтинга.
type PullRequest struct {
	ID           string
	RepositoryID string
	Number       int
	Title        string
	Description  *string
	Author       string
	BaseBranch   string
	HeadBranch   string
	Status       string
	ReviewStatus string
	Additions    int
	Deletions    int
	ChangedFiles int
	GithubID     *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PrFile представляет один измененный файл пул-реквеста.
type PrFile struct {
	ID               string
	PullRequestID    string
	Filename         string
	Status           string
	Additions        int
	Deletions        int
	Patch            *string
	PreviousFilename *string
	CreatedAt        time.Time
}

// RepositoryStore определяет контракт для работы с хранилищем репозиториев.
type RepositoryStore interface {
	Create(ctx context.Context, repo *Repository) (*Repository, error)
	GetByID(ctx context.Context, repoID string) (*Repository, error)
	GetAll(ctx context.Context) ([]*Repository, error)
}

// PRRepository определяет контракт для работы с хранилищем пул-реквестов.
type PRRepository interface {
	Create(ctx context.Context, pr *PullRequest) (*PullRequest, error)
	GetByID(ctx context.Context, prID string) (*PullRequest, error)
	GetAll(ctx context.Context, repositoryID string) ([]*PullRequest, error)
	UpdateReviewStatus(ctx context.Context, prID, reviewStatus string) error
}

// PRFileRepository определяет контракт для работы с файлами пул-реквеста.
type PRFileRepository interface {
	Create(ctx context.Context, file *PrFile) (*PrFile, error)
	GetByPullRequest(ctx context.Context, prID string) ([]*PrFile, error)
}
