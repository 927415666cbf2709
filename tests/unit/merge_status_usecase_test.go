package usecase_test

import (
	"context"
	"errors"
	"testing"

	"pr-review-dashboard/internal/domain"
	"pr-review-dashboard/internal/usecase"
	"pr-review-dashboard/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func openComment(id, severity string) *domain.ReviewComment {
	return &domain.ReviewComment{ID: id, Severity: severity, Status: domain.CommentStatusOpen}
}

func terminalComment(id, severity, status string) *domain.ReviewComment {
	return &domain.ReviewComment{ID: id, Severity: severity, Status: status}
}

func TestComputeMergeStatus_NoComments(t *testing.T) {
	status := usecase.ComputeMergeStatus("pr-1", nil)

	assert.True(t, status.CanMerge)
	assert.Nil(t, status.BlockedReason)
	assert.Equal(t, 0, status.TotalComments)
	assert.Equal(t, 0, status.ResolvedComments)
	assert.Equal(t, 0, status.CriticalIssues)
}

// Scenario A: три open-комментария (low, medium, high) после ингеста.
func TestComputeMergeStatus_FreshReview(t *testing.T) {
	comments := []*domain.ReviewComment{
		openComment("c1", domain.SeverityLow),
		openComment("c2", domain.SeverityMedium),
		openComment("c3", domain.SeverityHigh),
	}

	status := usecase.ComputeMergeStatus("pr-1", comments)

	assert.False(t, status.CanMerge)
	assert.Equal(t, 3, status.TotalComments)
	assert.Equal(t, 0, status.ResolvedComments)
	assert.Equal(t, 1, status.CriticalIssues)
	assert.NotNil(t, status.BlockedReason)
	assert.Equal(t, "1 critical/high severity issues must be resolved", *status.BlockedReason)
}

// Scenario B: high-комментарий зарезолвлен, два open остаются.
// Строгое правило: canMerge остается false.
func TestComputeMergeStatus_StrictRuleAfterCriticalResolved(t *testing.T) {
	comments := []*domain.ReviewComment{
		openComment("c1", domain.SeverityLow),
		openComment("c2", domain.SeverityMedium),
		terminalComment("c3", domain.SeverityHigh, domain.CommentStatusResolved),
	}

	status := usecase.ComputeMergeStatus("pr-1", comments)

	assert.False(t, status.CanMerge)
	assert.Equal(t, 3, status.TotalComments)
	assert.Equal(t, 1, status.ResolvedComments)
	assert.Equal(t, 0, status.CriticalIssues)
	assert.NotNil(t, status.BlockedReason)
	assert.Equal(t, "2 unresolved comments need to be addressed", *status.BlockedReason)
}

// Scenario C: все комментарии терминальны.
func TestComputeMergeStatus_AllResolved(t *testing.T) {
	comments := []*domain.ReviewComment{
		terminalComment("c1", domain.SeverityLow, domain.CommentStatusDismissed),
		terminalComment("c2", domain.SeverityMedium, domain.CommentStatusDismissed),
		terminalComment("c3", domain.SeverityHigh, domain.CommentStatusResolved),
	}

	status := usecase.ComputeMergeStatus("pr-1", comments)

	assert.True(t, status.CanMerge)
	assert.Nil(t, status.BlockedReason)
	assert.Equal(t, 3, status.TotalComments)
	assert.Equal(t, 3, status.ResolvedComments)
	assert.Equal(t, 0, status.CriticalIssues)
}

// Scenario D: второе ревью добавило два open-комментария; агрегат считается
// по объединению комментариев обоих ревью.
func TestComputeMergeStatus_UnionAcrossReviews(t *testing.T) {
	comments := []*domain.ReviewComment{
		terminalComment("c1", domain.SeverityLow, domain.CommentStatusDismissed),
		terminalComment("c2", domain.SeverityMedium, domain.CommentStatusDismissed),
		terminalComment("c3", domain.SeverityHigh, domain.CommentStatusResolved),
		openComment("c4", domain.SeverityLow),
		openComment("c5", domain.SeverityCritical),
	}

	status := usecase.ComputeMergeStatus("pr-1", comments)

	assert.False(t, status.CanMerge)
	assert.Equal(t, 5, status.TotalComments)
	assert.Equal(t, 3, status.ResolvedComments)
	assert.Equal(t, 1, status.CriticalIssues)
}

// resolvedComments + open == totalComments для любого набора.
func TestComputeMergeStatus_CountsConsistent(t *testing.T) {
	testCases := []struct {
		name     string
		comments []*domain.ReviewComment
	}{
		{"Empty", nil},
		{"AllOpen", []*domain.ReviewComment{openComment("c1", domain.SeverityLow), openComment("c2", domain.SeverityCritical)}},
		{"Mixed", []*domain.ReviewComment{
			openComment("c1", domain.SeverityHigh),
			terminalComment("c2", domain.SeverityLow, domain.CommentStatusResolved),
			terminalComment("c3", domain.SeverityCritical, domain.CommentStatusDismissed),
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status := usecase.ComputeMergeStatus("pr-1", tc.comments)

			open := 0
			for _, c := range tc.comments {
				if c.Status == domain.CommentStatusOpen {
					open++
				}
			}
			assert.Equal(t, status.TotalComments, status.ResolvedComments+open)
		})
	}
}

// Только open high/critical попадают в criticalIssues: терминальные
// критичные комментарии и open medium/low не считаются.
func TestComputeMergeStatus_CriticalBucket(t *testing.T) {
	comments := []*domain.ReviewComment{
		openComment("c1", domain.SeverityMedium),
		openComment("c2", domain.SeverityCritical),
		terminalComment("c3", domain.SeverityCritical, domain.CommentStatusResolved),
	}

	status := usecase.ComputeMergeStatus("pr-1", comments)

	assert.Equal(t, 1, status.CriticalIssues)
}

// Идемпотентность: два прогона без изменений дают идентичный агрегат.
func TestComputeMergeStatus_Idempotent(t *testing.T) {
	comments := []*domain.ReviewComment{
		openComment("c1", domain.SeverityHigh),
		terminalComment("c2", domain.SeverityLow, domain.CommentStatusResolved),
	}

	first := usecase.ComputeMergeStatus("pr-1", comments)
	second := usecase.ComputeMergeStatus("pr-1", comments)

	assert.Equal(t, first, second)
}

func TestMergeStatusUseCase_Recompute_Success(t *testing.T) {
	ctx := context.Background()
	commentRepo := &mocks.CommentRepository{}
	mergeStatusRepo := &mocks.MergeStatusRepository{}
	uc := usecase.NewMergeStatusUseCase(commentRepo, mergeStatusRepo)

	comments := []*domain.ReviewComment{openComment("c1", domain.SeverityLow)}
	commentRepo.On("GetByPullRequest", mock.Anything, "pr-1").Return(comments, nil)

	mergeStatusRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.MergeStatus) bool {
		return s.PullRequestID == "pr-1" && !s.CanMerge && s.TotalComments == 1 && s.ResolvedComments == 0
	})).Return(&domain.MergeStatus{PullRequestID: "pr-1", CanMerge: false, TotalComments: 1}, nil)

	status, err := uc.Recompute(ctx, "pr-1")

	assert.NoError(t, err)
	assert.False(t, status.CanMerge)
	commentRepo.AssertExpectations(t)
	mergeStatusRepo.AssertExpectations(t)
}

func TestMergeStatusUseCase_Recompute_RetriesTransientFailure(t *testing.T) {
	ctx := context.Background()
	commentRepo := &mocks.CommentRepository{}
	mergeStatusRepo := &mocks.MergeStatusRepository{}
	uc := usecase.NewMergeStatusUseCase(commentRepo, mergeStatusRepo)

	comments := []*domain.ReviewComment{}
	commentRepo.On("GetByPullRequest", mock.Anything, "pr-1").Return(nil, errors.New("connection reset")).Once()
	commentRepo.On("GetByPullRequest", mock.Anything, "pr-1").Return(comments, nil)

	mergeStatusRepo.On("Upsert", mock.Anything, mock.Anything).
		Return(&domain.MergeStatus{PullRequestID: "pr-1", CanMerge: true}, nil)

	status, err := uc.Recompute(ctx, "pr-1")

	assert.NoError(t, err)
	assert.True(t, status.CanMerge)
	commentRepo.AssertExpectations(t)
}

func TestMergeStatusUseCase_Recompute_PersistentFailure(t *testing.T) {
	ctx := context.Background()
	commentRepo := &mocks.CommentRepository{}
	mergeStatusRepo := &mocks.MergeStatusRepository{}
	uc := usecase.NewMergeStatusUseCase(commentRepo, mergeStatusRepo)

	commentRepo.On("GetByPullRequest", mock.Anything, "pr-1").Return(nil, errors.New("db down"))

	status, err := uc.Recompute(ctx, "pr-1")

	assert.ErrorIs(t, err, domain.ErrMergeStatusRecompute)
	assert.Nil(t, status)
}

func TestMergeStatusUseCase_GetMergeStatus_NotAssessed(t *testing.T) {
	ctx := context.Background()
	commentRepo := &mocks.CommentRepository{}
	mergeStatusRepo := &mocks.MergeStatusRepository{}
	uc := usecase.NewMergeStatusUseCase(commentRepo, mergeStatusRepo)

	// Отсутствие агрегата — NotFound, а не canMerge=true
	mergeStatusRepo.On("GetByPullRequest", mock.Anything, "pr-1").Return(nil, domain.ErrMergeStatusNotFound)

	status, err := uc.GetMergeStatus(ctx, "pr-1")

	assert.ErrorIs(t, err, domain.ErrMergeStatusNotFound)
	assert.Nil(t, status)
}

func TestMergeStatusUseCase_CheckMergeEligibility_DoesNotPersist(t *testing.T) {
	ctx := context.Background()
	commentRepo := &mocks.CommentRepository{}
	mergeStatusRepo := &mocks.MergeStatusRepository{}
	uc := usecase.NewMergeStatusUseCase(commentRepo, mergeStatusRepo)

	commentRepo.On("GetByPullRequest", mock.Anything, "pr-1").Return([]*domain.ReviewComment{}, nil)

	canMerge, err := uc.CheckMergeEligibility(ctx, "pr-1")

	assert.NoError(t, err)
	assert.True(t, canMerge)
	mergeStatusRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
