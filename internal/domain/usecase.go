package domain

import "context"

// ReviewResult — результат прогона Ingestion Pipeline.
type ReviewResult struct {
	Review      *AiReview
	Comments    []*ReviewComment
	MergeStatus *MergeStatus
}

// ReviewUseCase определяет бизнес-логику генерации и чтения AI-ревью.
type ReviewUseCase interface {
	// GenerateReview запускает анализ PR и сохраняет ревью, комментарии,
	// вспомогательные записи и начальный merge-статус.
	GenerateReview(ctx context.Context, prID string) (*ReviewResult, error)
	// GetLatestReview возвращает актуальное ревью PR вместе с его комментариями.
	GetLatestReview(ctx context.Context, prID string) (*AiReview, []*ReviewComment, error)
}

// CommentUseCase определяет бизнес-логику резолюции комментариев.
type CommentUseCase interface {
	ResolveComment(ctx context.Context, commentID, userID string, note *string) (*MergeStatus, error)
	DismissComment(ctx context.Context, commentID, userID string, note *string) (*MergeStatus, error)
	GetUnresolvedComments(ctx context.Context, prID string) ([]*ReviewComment, error)
}

// MergeStatusUseCase определяет бизнес-логику агрегата merge-статуса.
type MergeStatusUseCase interface {
	GetMergeStatus(ctx context.Context, prID string) (*MergeStatus, error)
	// Recompute пересчитывает агрегат с нуля по всем комментариям PR и
	// сохраняет его. Операция идемпотентна.
	Recompute(ctx context.Context, prID string) (*MergeStatus, error)
	CheckMergeEligibility(ctx context.Context, prID string) (bool, error)
}

// PRUseCase определяет бизнес-логику CRUD-обвязки вокруг движка.
type PRUseCase interface {
	CreateRepository(ctx context.Context, repo *Repository) (*Repository, error)
	GetRepository(ctx context.Context, repoID string) (*Repository, error)
	GetRepositories(ctx context.Context) ([]*Repository, error)
	CreatePR(ctx context.Context, pr *PullRequest) (*PullRequest, error)
	GetPR(ctx context.Context, prID string) (*PullRequest, error)
	GetPRs(ctx context.Context, repositoryID string) ([]*PullRequest, error)
	AddPRFile(ctx context.Context, file *PrFile) (*PrFile, error)
	GetPRFiles(ctx context.Context, prID string) ([]*PrFile, error)
	GetInsights(ctx context.Context, prID string) ([]*ReviewInsight, error)
	GetCodeContext(ctx context.Context, prID string) ([]*CodeContext, error)
	GetLearningPatterns(ctx context.Context, repositoryID string) ([]*LearningPattern, error)
}
