package domain

import (
	"context"
	"time"
)

// Рейтинги ревью, возвращаемые анализатором.
const (
	RatingApproved         = "approved"
	RatingChangesRequested = "changes_requested"
	RatingCommented        = "commented"
)

// Статусы резолюции комментария. Open — единственное нетерминальное состояние.
const (
	CommentStatusOpen      = "open"
	CommentStatusResolved  = "resolved"
	CommentStatusDismissed = "dismissed"
)

// Типы и severity комментариев.
const (
	CommentTypeSecurity    = "security"
	CommentTypeEnhancement = "enhancement"
	CommentTypeBug         = "bug"
	CommentTypeStyle       = "style"

	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// AiReview представляет один сгенерированный анализ пул-реквеста.
// Запись иммутабельна; актуальным считается ревью с последним CreatedAt.
type AiReview struct {
	ID                string
	PullRequestID     string
	OverallRating     string
	CodeQualityScore  int
	TestCoverage      float64
	SecurityIssues    int
	PerformanceIssues int
	Summary           string
	CreatedAt         time.Time
}

// ReviewComment представляет одно замечание ревью с жизненным циклом резолюции.
// Поля ResolvedBy/ResolvedAt/ResolutionNote выставляются атомарно вместе со
// статусом, ровно один раз за переход open → resolved|dismissed.
type ReviewComment struct {
	ID             string
	AiReviewID     string
	FileID         *string
	LineNumber     *int
	Position       int
	CommentType    string
	Severity       string
	Message        string
	Suggestion     *string
	Status         string
	ResolvedBy     *string
	ResolvedAt     *time.Time
	ResolutionNote *string
	CreatedAt      time.Time
}

// IsTerminal сообщает, находится ли комментарий в терминальном состоянии.
func (c *ReviewComment) IsTerminal() bool {
	return c.Status != CommentStatusOpen
}

// IsBlockingSeverity сообщает, попадает ли severity в критическую корзину.
// Только high и critical учитываются в criticalIssues; medium и low лишь
// инкрементируют счетчики open/resolved.
func IsBlockingSeverity(severity string) bool {
	return severity == SeverityHigh || severity == SeverityCritical
}

// ReviewRepository определяет контракт для работы с хранилищем AI-ревью.
type ReviewRepository interface {
	Create(ctx context.Context, review *AiReview) (*AiReview, error)
	GetByID(ctx context.Context, reviewID string) (*AiReview, error)
	GetLatestByPullRequest(ctx context.Context, prID string) (*AiReview, error)
	GetAllByPullRequest(ctx context.Context, prID string) ([]*AiReview, error)
}

// CommentRepository определяет контракт для работы с хранилищем комментариев.
type CommentRepository interface {
	Create(ctx context.Context, comment *ReviewComment) (*ReviewComment, error)
	GetByID(ctx context.Context, commentID string) (*ReviewComment, error)
	GetByReview(ctx context.Context, reviewID string) ([]*ReviewComment, error)
	// GetByPullRequest возвращает комментарии всех ревью пул-реквеста.
	GetByPullRequest(ctx context.Context, prID string) ([]*ReviewComment, error)
	GetUnresolvedByPullRequest(ctx context.Context, prID string) ([]*ReviewComment, error)
	// MarkTerminal переводит open-комментарий в терминальный статус.
	// Возвращает false, если комментарий уже не open (гонка или повтор).
	MarkTerminal(ctx context.Context, commentID, status, resolvedBy string, note *string, at time.Time) (bool, error)
}
