package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pr-review-dashboard/internal/domain"

	"github.com/sethvargo/go-retry"
)

// MergeStatusUseCase реализует бизнес-логику агрегата merge-статуса.
//
// Правило мержабельности — строгое: canMerge тогда и только тогда, когда
// у пул-реквеста нет ни одного open-комментария по всем его ревью.
// Правило применяется единообразно во всех точках вызова.
type MergeStatusUseCase struct {
	commentRepo     domain.CommentRepository
	mergeStatusRepo domain.MergeStatusRepository

	// Точка сериализации пересчета на пул-реквест: без нее два
	// конкурентных resolve могли бы перезаписать агрегат устаревшими
	// значениями (lost update).
	mu      sync.Mutex
	prLocks map[string]*sync.Mutex
}

// NewMergeStatusUseCase создает новый экземпляр MergeStatusUseCase.
func NewMergeStatusUseCase(commentRepo domain.CommentRepository, mergeStatusRepo domain.MergeStatusRepository) domain.MergeStatusUseCase {
	return &MergeStatusUseCase{
		commentRepo:     commentRepo,
		mergeStatusRepo: mergeStatusRepo,
		prLocks:         make(map[string]*sync.Mutex),
	}
}

// ComputeMergeStatus — чистая функция пересчета агрегата по полному набору
// комментариев всех ревью пул-реквеста. Детерминирована и идемпотентна.
func ComputeMergeStatus(prID string, comments []*domain.ReviewComment) *domain.MergeStatus {
	total := len(comments)

	openCount := 0
	critical := 0
	for _, c := range comments {
		if c.Status != domain.CommentStatusOpen {
			continue
		}
		openCount++
		if domain.IsBlockingSeverity(c.Severity) {
			critical++
		}
	}

	canMerge := openCount == 0

	var blockedReason *string
	if !canMerge {
		var reason string
		if critical > 0 {
			reason = fmt.Sprintf("%d critical/high severity issues must be resolved", critical)
		} else {
			reason = fmt.Sprintf("%d unresolved comments need to be addressed", openCount)
		}
		blockedReason = &reason
	}

	return &domain.MergeStatus{
		PullRequestID:    prID,
		CanMerge:         canMerge,
		BlockedReason:    blockedReason,
		TotalComments:    total,
		ResolvedComments: total - openCount,
		CriticalIssues:   critical,
	}
}

// GetMergeStatus возвращает сохраненный агрегат пул-реквеста.
// Отсутствие агрегата — ErrMergeStatusNotFound, а не "можно мержить".
func (uc *MergeStatusUseCase) GetMergeStatus(ctx context.Context, prID string) (*domain.MergeStatus, error) {
	if prID == "" {
		return nil, domain.ErrInvalidPRID
	}
	return uc.mergeStatusRepo.GetByPullRequest(ctx, prID)
}

// Recompute пересчитывает агрегат с нуля и сохраняет его под блокировкой PR.
// Транзиентные ошибки хранилища повторяются ограниченно: пересчет
// идемпотентен, поэтому повторы безопасны.
func (uc *MergeStatusUseCase) Recompute(ctx context.Context, prID string) (*domain.MergeStatus, error) {
	if prID == "" {
		return nil, domain.ErrInvalidPRID
	}

	lock := uc.lockFor(prID)
	lock.Lock()
	defer lock.Unlock()

	var saved *domain.MergeStatus
	backoff := retry.WithMaxRetries(3, retry.NewExponential(100*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		comments, err := uc.commentRepo.GetByPullRequest(ctx, prID)
		if err != nil {
			return retry.RetryableError(err)
		}

		status := ComputeMergeStatus(prID, comments)
		saved, err = uc.mergeStatusRepo.Upsert(ctx, status)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, domain.ErrMergeStatusRecompute
	}

	return saved, nil
}

// CheckMergeEligibility вычисляет вердикт по текущему набору комментариев,
// ничего не сохраняя: запись агрегата для неоцененного PR создавала бы
// ложное "canMerge=true" там, где ревью еще не было.
func (uc *MergeStatusUseCase) CheckMergeEligibility(ctx context.Context, prID string) (bool, error) {
	if prID == "" {
		return false, domain.ErrInvalidPRID
	}

	comments, err := uc.commentRepo.GetByPullRequest(ctx, prID)
	if err != nil {
		return false, err
	}

	return ComputeMergeStatus(prID, comments).CanMerge, nil
}

func (uc *MergeStatusUseCase) lockFor(prID string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	lock, ok := uc.prLocks[prID]
	if !ok {
		lock = &sync.Mutex{}
		uc.prLocks[prID] = lock
	}
	return lock
}
