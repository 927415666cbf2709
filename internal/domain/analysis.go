package domain

import "context"

// CodeReviewAnalysis — структурированный результат вызова модели.
// Движок не проверяет корректность вердиктов модели, только структурную
// валидность того, что сохраняет.
type CodeReviewAnalysis struct {
	OverallRating     string
	CodeQualityScore  int
	TestCoverage      float64
	SecurityIssues    int
	PerformanceIssues int
	Summary           string
	Comments          []AnalysisComment
	Insight           AnalysisInsight
	ContextAnalysis   []AnalysisFileContext
	LearningPatterns  []AnalysisPattern
}

// AnalysisComment — дескриптор одного замечания в порядке выдачи модели.
type AnalysisComment struct {
	Filename    string
	LineNumber  *int
	CommentType string
	Severity    string
	Message     string
	Suggestion  *string
}

// AnalysisInsight — сводная оценка изменения.
type AnalysisInsight struct {
	Category         string
	RiskLevel        string
	ChangeType       string
	ImpactScore      int
	ReviewTime       int
	EducationalValue int
}

// AnalysisFileContext — контекстный анализ одного файла.
type AnalysisFileContext struct {
	Filename             string
	Dependencies         []string
	Complexity           int
	MaintainabilityIndex int
	TechDebtScore        int
}

// AnalysisPattern — кандидат в выученные паттерны репозитория.
type AnalysisPattern struct {
	PatternType string
	Pattern     string
	Confidence  float64
}

// ReviewAnalyzer определяет контракт внешнего сервиса анализа кода.
type ReviewAnalyzer interface {
	Analyze(ctx context.Context, title, description string, files []*PrFile) (*CodeReviewAnalysis, error)
}
