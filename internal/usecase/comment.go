package usecase

import (
	"context"
	"strings"
	"time"

	"pr-review-dashboard/internal/domain"
)

// CommentUseCase реализует бизнес-логику резолюции комментариев.
type CommentUseCase struct {
	commentRepo   domain.CommentRepository
	reviewRepo    domain.ReviewRepository
	mergeStatusUC domain.MergeStatusUseCase
}

// NewCommentUseCase создает новый экземпляр CommentUseCase.
func NewCommentUseCase(
	commentRepo domain.CommentRepository,
	reviewRepo domain.ReviewRepository,
	mergeStatusUC domain.MergeStatusUseCase,
) domain.CommentUseCase {
	return &CommentUseCase{
		commentRepo:   commentRepo,
		reviewRepo:    reviewRepo,
		mergeStatusUC: mergeStatusUC,
	}
}

// ResolveComment переводит комментарий в resolved. Заметка опциональна.
func (uc *CommentUseCase) ResolveComment(ctx context.Context, commentID, userID string, note *string) (*domain.MergeStatus, error) {
	return uc.transition(ctx, commentID, userID, note, domain.CommentStatusResolved)
}

// DismissComment переводит комментарий в dismissed. Заметка обязательна.
func (uc *CommentUseCase) DismissComment(ctx context.Context, commentID, userID string, note *string) (*domain.MergeStatus, error) {
	if note == nil || strings.TrimSpace(*note) == "" {
		return nil, domain.ErrResolutionNoteRequired
	}
	return uc.transition(ctx, commentID, userID, note, domain.CommentStatusDismissed)
}

// GetUnresolvedComments возвращает open-комментарии всех ревью пул-реквеста.
func (uc *CommentUseCase) GetUnresolvedComments(ctx context.Context, prID string) ([]*domain.ReviewComment, error) {
	if prID == "" {
		return nil, domain.ErrInvalidPRID
	}
	return uc.commentRepo.GetUnresolvedByPullRequest(ctx, prID)
}

// transition выполняет единственный разрешенный переход open → terminal
// и пересчитывает агрегат merge-статуса владеющего PR.
func (uc *CommentUseCase) transition(ctx context.Context, commentID, userID string, note *string, status string) (*domain.MergeStatus, error) {
	// Валидация входных данных
	if commentID == "" {
		return nil, domain.ErrInvalidCommentID
	}
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	// 1. Проверяем существование и состояние комментария
	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.IsTerminal() {
		// Повторная резолюция — конфликт, не no-op: иначе поплыли бы
		// счетчики resolvedComments и аудит резолюций.
		return nil, domain.ErrCommentAlreadyResolved
	}

	// 2. Атомарный переход: статус, резолвер, метка времени и заметка
	// выставляются вместе, ровно один раз.
	ok, err := uc.commentRepo.MarkTerminal(ctx, commentID, status, userID, note, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Конкурирующий вызов успел раньше
		return nil, domain.ErrCommentAlreadyResolved
	}

	// 3. Находим пул-реквест комментария через родительское ревью
	review, err := uc.reviewRepo.GetByID(ctx, comment.AiReviewID)
	if err != nil {
		return nil, err
	}

	// 4. Пересчитываем агрегат по полному набору комментариев PR
	return uc.mergeStatusUC.Recompute(ctx, review.PullRequestID)
}
