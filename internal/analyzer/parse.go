package analyzer

import (
	"encoding/json"
	"fmt"

	"pr-review-dashboard/internal/domain"
)

// Сырой ответ модели: слабо типизированный JSON, нормализуется на границе.
type rawAnalysis struct {
	OverallRating     *string          `json:"overallRating"`
	CodeQualityScore  *float64         `json:"codeQualityScore"`
	TestCoverage      *float64         `json:"testCoverage"`
	SecurityIssues    *float64         `json:"securityIssues"`
	PerformanceIssues *float64         `json:"performanceIssues"`
	Summary           string           `json:"summary"`
	Comments          []rawComment     `json:"comments"`
	Insights          rawInsight       `json:"insights"`
	ContextAnalysis   []rawFileContext `json:"contextAnalysis"`
	LearningPatterns  []rawPattern     `json:"learningPatterns"`
}

type rawComment struct {
	Filename    string  `json:"filename"`
	LineNumber  *int    `json:"lineNumber"`
	CommentType string  `json:"commentType"`
	Severity    string  `json:"severity"`
	Message     string  `json:"message"`
	Suggestion  *string `json:"suggestion"`
}

type rawInsight struct {
	Category         string  `json:"category"`
	RiskLevel        string  `json:"riskLevel"`
	ChangeType       string  `json:"changeType"`
	ImpactScore      float64 `json:"impactScore"`
	ReviewTime       float64 `json:"reviewTime"`
	EducationalValue float64 `json:"educationalValue"`
}

type rawFileContext struct {
	Filename             string   `json:"filename"`
	Dependencies         []string `json:"dependencies"`
	Complexity           float64  `json:"complexity"`
	MaintainabilityIndex float64  `json:"maintainabilityIndex"`
	TechDebtScore        float64  `json:"techDebtScore"`
}

type rawPattern struct {
	PatternType string  `json:"patternType"`
	Pattern     string  `json:"pattern"`
	Confidence  float64 `json:"confidence"`
}

// ParseAnalysis валидирует и нормализует сырой JSON модели.
// Отсутствие обязательных полей (rating, score) — структурная ошибка;
// числовые поля зажимаются в документированные диапазоны.
func ParseAnalysis(data []byte) (*domain.CodeReviewAnalysis, error) {
	var raw rawAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAnalysis, err)
	}

	if raw.OverallRating == nil || !isValidRating(*raw.OverallRating) {
		return nil, fmt.Errorf("%w: missing or unknown overallRating", domain.ErrInvalidAnalysis)
	}
	if raw.CodeQualityScore == nil {
		return nil, fmt.Errorf("%w: missing codeQualityScore", domain.ErrInvalidAnalysis)
	}

	analysis := &domain.CodeReviewAnalysis{
		OverallRating:     *raw.OverallRating,
		CodeQualityScore:  clampInt(int(*raw.CodeQualityScore), 1, 100),
		TestCoverage:      clampFloat(floatOr(raw.TestCoverage, 0), 0, 100),
		SecurityIssues:    maxInt(0, int(floatOr(raw.SecurityIssues, 0))),
		PerformanceIssues: maxInt(0, int(floatOr(raw.PerformanceIssues, 0))),
		Summary:           raw.Summary,
	}
	if analysis.Summary == "" {
		analysis.Summary = "Code review completed."
	}

	for _, c := range raw.Comments {
		comment := domain.AnalysisComment{
			Filename:    c.Filename,
			LineNumber:  c.LineNumber,
			CommentType: c.CommentType,
			Severity:    c.Severity,
			Message:     c.Message,
			Suggestion:  c.Suggestion,
		}
		if !isValidCommentType(comment.CommentType) {
			comment.CommentType = domain.CommentTypeEnhancement
		}
		if !isValidSeverity(comment.Severity) {
			comment.Severity = domain.SeverityLow
		}
		if comment.Message == "" {
			comment.Message = "No specific comment"
		}
		analysis.Comments = append(analysis.Comments, comment)
	}

	analysis.Insight = domain.AnalysisInsight{
		Category:         stringOr(raw.Insights.Category, "general"),
		RiskLevel:        stringOr(raw.Insights.RiskLevel, "low"),
		ChangeType:       stringOr(raw.Insights.ChangeType, "modification"),
		ImpactScore:      clampInt(int(raw.Insights.ImpactScore), 1, 100),
		ReviewTime:       maxInt(0, int(raw.Insights.ReviewTime)),
		EducationalValue: clampInt(int(raw.Insights.EducationalValue), 1, 100),
	}

	for _, fc := range raw.ContextAnalysis {
		analysis.ContextAnalysis = append(analysis.ContextAnalysis, domain.AnalysisFileContext{
			Filename:             fc.Filename,
			Dependencies:         fc.Dependencies,
			Complexity:           clampInt(int(fc.Complexity), 1, 100),
			MaintainabilityIndex: clampInt(int(fc.MaintainabilityIndex), 1, 100),
			TechDebtScore:        clampInt(int(fc.TechDebtScore), 1, 100),
		})
	}

	for _, p := range raw.LearningPatterns {
		if p.Pattern == "" {
			continue
		}
		analysis.LearningPatterns = append(analysis.LearningPatterns, domain.AnalysisPattern{
			PatternType: stringOr(p.PatternType, "style"),
			Pattern:     p.Pattern,
			Confidence:  clampFloat(p.Confidence, 0, 1),
		})
	}

	return analysis, nil
}

func isValidRating(rating string) bool {
	switch rating {
	case domain.RatingApproved, domain.RatingChangesRequested, domain.RatingCommented:
		return true
	}
	return false
}

func isValidCommentType(commentType string) bool {
	switch commentType {
	case domain.CommentTypeSecurity, domain.CommentTypeEnhancement, domain.CommentTypeBug, domain.CommentTypeStyle:
		return true
	}
	return false
}

func isValidSeverity(severity string) bool {
	switch severity {
	case domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh, domain.SeverityCritical:
		return true
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
