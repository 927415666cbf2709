package domain

import (
	"context"
	"time"
)

// Вспомогательные write-once записи, которые Ingestion Pipeline сохраняет
// вместе с ревью. В инварианте merge-гейтинга не участвуют.

// ReviewInsight представляет сводную оценку изменения (в духе CodeRabbit).
type ReviewInsight struct {
	ID               string
	PullRequestID    string
	Category         string
	RiskLevel        string
	ChangeType       string
	ImpactScore      int
	ReviewTime       int
	EducationalValue int
	CreatedAt        time.Time
}

// CodeContext представляет контекстный анализ одного файла.
type CodeContext struct {
	ID                   string
	PullRequestID        string
	FileID               string
	Dependencies         []string
	Complexity           int
	MaintainabilityIndex int
	TechDebt             int
	CreatedAt            time.Time
}

// LearningPattern представляет выученный паттерн кодовой базы репозитория.
type LearningPattern struct {
	ID           string
	RepositoryID string
	PatternType  string
	Pattern      string
	Confidence   float64
	Occurrences  int
	LastSeen     time.Time
	CreatedAt    time.Time
}

// InsightRepository определяет контракт для вспомогательных записей ревью.
type InsightRepository interface {
	CreateInsight(ctx context.Context, insight *ReviewInsight) (*ReviewInsight, error)
	GetInsightsByPullRequest(ctx context.Context, prID string) ([]*ReviewInsight, error)
	CreateCodeContext(ctx context.Context, codeCtx *CodeContext) (*CodeContext, error)
	GetCodeContextByPullRequest(ctx context.Context, prID string) ([]*CodeContext, error)
	CreateLearningPattern(ctx context.Context, pattern *LearningPattern) (*LearningPattern, error)
	GetLearningPatternsByRepository(ctx context.Context, repositoryID string) ([]*LearningPattern, error)
}
