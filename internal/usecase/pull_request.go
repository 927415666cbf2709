package usecase

import (
	"context"

	"pr-review-dashboard/internal/domain"
)

// PRUseCase реализует CRUD-обвязку вокруг движка ревью.
type PRUseCase struct {
	repoStore   domain.RepositoryStore
	prRepo      domain.PRRepository
	fileRepo    domain.PRFileRepository
	insightRepo domain.InsightRepository
}

// NewPRUseCase создает новый экземпляр PRUseCase.
func NewPRUseCase(
	repoStore domain.RepositoryStore,
	prRepo domain.PRRepository,
	fileRepo domain.PRFileRepository,
	insightRepo domain.InsightRepository,
) domain.PRUseCase {
	return &PRUseCase{
		repoStore:   repoStore,
		prRepo:      prRepo,
		fileRepo:    fileRepo,
		insightRepo: insightRepo,
	}
}

// CreateRepository подключает репозиторий.
func (uc *PRUseCase) CreateRepository(ctx context.Context, repo *domain.Repository) (*domain.Repository, error) {
	if repo.FullName == "" || repo.Name == "" || repo.Owner == "" {
		return nil, domain.ErrInvalidRepositoryID
	}
	return uc.repoStore.Create(ctx, repo)
}

// GetRepository возвращает репозиторий по ID.
func (uc *PRUseCase) GetRepository(ctx context.Context, repoID string) (*domain.Repository, error) {
	if repoID == "" {
		return nil, domain.ErrInvalidRepositoryID
	}
	return uc.repoStore.GetByID(ctx, repoID)
}

// GetRepositories возвращает все подключенные репозитории.
func (uc *PRUseCase) GetRepositories(ctx context.Context) ([]*domain.Repository, error) {
	return uc.repoStore.GetAll(ctx)
}

// CreatePR регистрирует пул-реквест.
func (uc *PRUseCase) CreatePR(ctx context.Context, pr *domain.PullRequest) (*domain.PullRequest, error) {
	if pr.RepositoryID == "" {
		return nil, domain.ErrInvalidRepositoryID
	}
	if pr.Title == "" || pr.Author == "" {
		return nil, domain.ErrInvalidPRID
	}

	// Репозиторий должен существовать
	if _, err := uc.repoStore.GetByID(ctx, pr.RepositoryID); err != nil {
		return nil, err
	}

	return uc.prRepo.Create(ctx, pr)
}

// GetPR возвращает пул-реквест по ID.
func (uc *PRUseCase) GetPR(ctx context.Context, prID string) (*domain.PullRequest, error) {
	if prID == "" {
		return nil, domain.ErrInvalidPRID
	}
	return uc.prRepo.GetByID(ctx, prID)
}

// GetPRs возвращает пул-реквесты с опциональным фильтром по репозиторию.
func (uc *PRUseCase) GetPRs(ctx context.Context, repositoryID string) ([]*domain.PullRequest, error) {
	return uc.prRepo.GetAll(ctx, repositoryID)
}

// AddPRFile добавляет измененный файл к пул-реквесту.
func (uc *PRUseCase) AddPRFile(ctx context.Context, file *domain.PrFile) (*domain.PrFile, error) {
	if file.PullRequestID == "" {
		return nil, domain.ErrInvalidPRID
	}

	if _, err := uc.prRepo.GetByID(ctx, file.PullRequestID); err != nil {
		return nil, err
	}

	return uc.fileRepo.Create(ctx, file)
}

// GetPRFiles возвращает файлы пул-реквеста.
func (uc *PRUseCase) GetPRFiles(ctx context.Context, prID string) ([]*domain.PrFile, error) {
	if prID == "" {
		return nil, domain.ErrInvalidPRID
	}
	return uc.fileRepo.GetByPullRequest(ctx, prID)
}

// GetInsights возвращает сводные оценки ревью PR.
func (uc *PRUseCase) GetInsights(ctx context.Context, prID string) ([]*domain.ReviewInsight, error) {
	if prID == "" {
		return nil, domain.ErrInvalidPRID
	}
	return uc.insightRepo.GetInsightsByPullRequest(ctx, prID)
}

// GetCodeContext возвращает контекстный анализ файлов PR.
func (uc *PRUseCase) GetCodeContext(ctx context.Context, prID string) ([]*domain.CodeContext, error) {
	if prID == "" {
		return nil, domain.ErrInvalidPRID
	}
	return uc.insightRepo.GetCodeContextByPullRequest(ctx, prID)
}

// GetLearningPatterns возвращает выученные паттерны репозитория.
func (uc *PRUseCase) GetLearningPatterns(ctx context.Context, repositoryID string) ([]*domain.LearningPattern, error) {
	if repositoryID == "" {
		return nil, domain.ErrInvalidRepositoryID
	}
	return uc.insightRepo.GetLearningPatternsByRepository(ctx, repositoryID)
}
