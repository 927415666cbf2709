package domain

import (
	"context"
	"time"
)

// MergeStatus — производный агрегат "можно ли мержить пул-реквест".
// На пул-реквест существует не более одной живой записи; агрегат всегда
// пересчитывается с нуля по полному набору комментариев всех ревью PR.
type MergeStatus struct {
	ID               string
	PullRequestID    string
	CanMerge         bool
	BlockedReason    *string
	TotalComments    int
	ResolvedComments int
	CriticalIssues   int
	LastChecked      time.Time
	UpdatedAt        time.Time
}

// MergeStatusRepository определяет контракт для работы с агрегатом merge-статуса.
type MergeStatusRepository interface {
	GetByPullRequest(ctx context.Context, prID string) (*MergeStatus, error)
	// Upsert создает запись или перезаписывает существующую по pull_request_id.
	// Уникальный индекс гарантирует единственность строки агрегата.
	Upsert(ctx context.Context, status *MergeStatus) (*MergeStatus, error)
}
