// Package mocks содержит testify-моки контрактов domain для unit-тестов.
package mocks

import (
	"context"
	"time"

	"pr-review-dashboard/internal/domain"

	"github.com/stretchr/testify/mock"
)

// RepositoryStore мок domain.RepositoryStore
type RepositoryStore struct {
	mock.Mock
}

func (m *RepositoryStore) Create(ctx context.Context, repo *domain.Repository) (*domain.Repository, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repository), args.Error(1)
}

func (m *RepositoryStore) GetByID(ctx context.Context, repoID string) (*domain.Repository, error) {
	args := m.Called(ctx, repoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repository), args.Error(1)
}

func (m *RepositoryStore) GetAll(ctx context.Context) ([]*domain.Repository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Repository), args.Error(1)
}

// PRRepository мок domain.PRRepository
type PRRepository struct {
	mock.Mock
}

func (m *PRRepository) Create(ctx context.Context, pr *domain.PullRequest) (*domain.PullRequest, error) {
	args := m.Called(ctx, pr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PullRequest), args.Error(1)
}

func (m *PRRepository) GetByID(ctx context.Context, prID string) (*domain.PullRequest, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PullRequest), args.Error(1)
}

func (m *PRRepository) GetAll(ctx context.Context, repositoryID string) ([]*domain.PullRequest, error) {
	args := m.Called(ctx, repositoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PullRequest), args.Error(1)
}

func (m *PRRepository) UpdateReviewStatus(ctx context.Context, prID, reviewStatus string) error {
	args := m.Called(ctx, prID, reviewStatus)
	return args.Error(0)
}

// PRFileRepository мок domain.PRFileRepository
type PRFileRepository struct {
	mock.Mock
}

func (m *PRFileRepository) Create(ctx context.Context, file *domain.PrFile) (*domain.PrFile, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PrFile), args.Error(1)
}

func (m *PRFileRepository) GetByPullRequest(ctx context.Context, prID string) ([]*domain.PrFile, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PrFile), args.Error(1)
}

// ReviewRepository мок domain.ReviewRepository
type ReviewRepository struct {
	mock.Mock
}

func (m *ReviewRepository) Create(ctx context.Context, review *domain.AiReview) (*domain.AiReview, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AiReview), args.Error(1)
}

func (m *ReviewRepository) GetByID(ctx context.Context, reviewID string) (*domain.AiReview, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AiReview), args.Error(1)
}

func (m *ReviewRepository) GetLatestByPullRequest(ctx context.Context, prID string) (*domain.AiReview, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AiReview), args.Error(1)
}

func (m *ReviewRepository) GetAllByPullRequest(ctx context.Context, prID string) ([]*domain.AiReview, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AiReview), args.Error(1)
}

// CommentRepository мок domain.CommentRepository
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Create(ctx context.Context, comment *domain.ReviewComment) (*domain.ReviewComment, error) {
	args := m.Called(ctx, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewComment), args.Error(1)
}

func (m *CommentRepository) GetByID(ctx context.Context, commentID string) (*domain.ReviewComment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewComment), args.Error(1)
}

func (m *CommentRepository) GetByReview(ctx context.Context, reviewID string) ([]*domain.ReviewComment, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewComment), args.Error(1)
}

func (m *CommentRepository) GetByPullRequest(ctx context.Context, prID string) ([]*domain.ReviewComment, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewComment), args.Error(1)
}

func (m *CommentRepository) GetUnresolvedByPullRequest(ctx context.Context, prID string) ([]*domain.ReviewComment, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewComment), args.Error(1)
}

func (m *CommentRepository) MarkTerminal(ctx context.Context, commentID, status, resolvedBy string, note *string, at time.Time) (bool, error) {
	args := m.Called(ctx, commentID, status, resolvedBy, note, at)
	return args.Bool(0), args.Error(1)
}

// MergeStatusRepository мок domain.MergeStatusRepository
type MergeStatusRepository struct {
	mock.Mock
}

func (m *MergeStatusRepository) GetByPullRequest(ctx context.Context, prID string) (*domain.MergeStatus, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MergeStatus), args.Error(1)
}

func (m *MergeStatusRepository) Upsert(ctx context.Context, status *domain.MergeStatus) (*domain.MergeStatus, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MergeStatus), args.Error(1)
}

// InsightRepository мок domain.InsightRepository
type InsightRepository struct {
	mock.Mock
}

func (m *InsightRepository) CreateInsight(ctx context.Context, insight *domain.ReviewInsight) (*domain.ReviewInsight, error) {
	args := m.Called(ctx, insight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewInsight), args.Error(1)
}

func (m *InsightRepository) GetInsightsByPullRequest(ctx context.Context, prID string) ([]*domain.ReviewInsight, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewInsight), args.Error(1)
}

func (m *InsightRepository) CreateCodeContext(ctx context.Context, codeCtx *domain.CodeContext) (*domain.CodeContext, error) {
	args := m.Called(ctx, codeCtx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CodeContext), args.Error(1)
}

func (m *InsightRepository) GetCodeContextByPullRequest(ctx context.Context, prID string) ([]*domain.CodeContext, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CodeContext), args.Error(1)
}

func (m *InsightRepository) CreateLearningPattern(ctx context.Context, pattern *domain.LearningPattern) (*domain.LearningPattern, error) {
	args := m.Called(ctx, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearningPattern), args.Error(1)
}

func (m *InsightRepository) GetLearningPatternsByRepository(ctx context.Context, repositoryID string) ([]*domain.LearningPattern, error) {
	args := m.Called(ctx, repositoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LearningPattern), args.Error(1)
}

// ReviewAnalyzer мок domain.ReviewAnalyzer
type ReviewAnalyzer struct {
	mock.Mock
}

func (m *ReviewAnalyzer) Analyze(ctx context.Context, title, description string, files []*domain.PrFile) (*domain.CodeReviewAnalysis, error) {
	args := m.Called(ctx, title, description, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CodeReviewAnalysis), args.Error(1)
}

// MergeStatusUseCase мок domain.MergeStatusUseCase
type MergeStatusUseCase struct {
	mock.Mock
}

func (m *MergeStatusUseCase) GetMergeStatus(ctx context.Context, prID string) (*domain.MergeStatus, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MergeStatus), args.Error(1)
}

func (m *MergeStatusUseCase) Recompute(ctx context.Context, prID string) (*domain.MergeStatus, error) {
	args := m.Called(ctx, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MergeStatus), args.Error(1)
}

func (m *MergeStatusUseCase) CheckMergeEligibility(ctx context.Context, prID string) (bool, error) {
	args := m.Called(ctx, prID)
	return args.Bool(0), args.Error(1)
}
