package analyzer

import (
	"testing"

	"pr-review-dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseAnalysis_FullPayload(t *testing.T) {
	payload := []byte(`{
		"overallRating": "changes_requested",
		"codeQualityScore": 72,
		"testCoverage": 55.5,
		"securityIssues": 1,
		"performanceIssues": 0,
		"summary": "Needs work.",
		"comments": [
			{"filename": "cache.go", "lineNumber": 42, "commentType": "bug", "severity": "high", "message": "race on init", "suggestion": "use sync.Once"}
		],
		"insights": {"category": "backend", "riskLevel": "medium", "changeType": "feature", "impactScore": 6, "reviewTime": 20, "educationalValue": 5},
		"contextAnalysis": [
			{"filename": "cache.go", "dependencies": ["sync", "time"], "complexity": 40, "maintainabilityIndex": 70, "techDebtScore": 20}
		],
		"learningPatterns": [
			{"patternType": "concurrency", "pattern": "guard lazy init with sync.Once", "confidence": 0.8}
		]
	}`)

	analysis, err := ParseAnalysis(payload)

	assert.NoError(t, err)
	assert.Equal(t, domain.RatingChangesRequested, analysis.OverallRating)
	assert.Equal(t, 72, analysis.CodeQualityScore)
	assert.Equal(t, 55.5, analysis.TestCoverage)
	assert.Equal(t, 1, analysis.SecurityIssues)
	assert.Len(t, analysis.Comments, 1)
	assert.Equal(t, domain.SeverityHigh, analysis.Comments[0].Severity)
	assert.Equal(t, 42, *analysis.Comments[0].LineNumber)
	assert.Equal(t, "backend", analysis.Insight.Category)
	assert.Len(t, analysis.ContextAnalysis, 1)
	assert.Equal(t, []string{"sync", "time"}, analysis.ContextAnalysis[0].Dependencies)
	assert.Len(t, analysis.LearningPatterns, 1)
}

func TestParseAnalysis_StructuralErrors(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{"NotJSON", `model refused to answer`},
		{"MissingRating", `{"codeQualityScore": 50}`},
		{"UnknownRating", `{"overallRating": "looks_fine", "codeQualityScore": 50}`},
		{"MissingScore", `{"overallRating": "approved"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			analysis, err := ParseAnalysis([]byte(tc.payload))

			assert.ErrorIs(t, err, domain.ErrInvalidAnalysis)
			assert.Nil(t, analysis)
		})
	}
}

func TestParseAnalysis_ClampsRanges(t *testing.T) {
	payload := []byte(`{
		"overallRating": "approved",
		"codeQualityScore": 250,
		"testCoverage": -10,
		"securityIssues": -3,
		"learningPatterns": [
			{"patternType": "style", "pattern": "early returns", "confidence": 1.7}
		]
	}`)

	analysis, err := ParseAnalysis(payload)

	assert.NoError(t, err)
	assert.Equal(t, 100, analysis.CodeQualityScore)
	assert.Equal(t, float64(0), analysis.TestCoverage)
	assert.Equal(t, 0, analysis.SecurityIssues)
	assert.Equal(t, float64(1), analysis.LearningPatterns[0].Confidence)
}

func TestParseAnalysis_CommentDefaults(t *testing.T) {
	payload := []byte(`{
		"overallRating": "commented",
		"codeQualityScore": 80,
		"comments": [
			{"filename": "a.go", "commentType": "nitpick", "severity": "blocker", "message": ""}
		]
	}`)

	analysis, err := ParseAnalysis(payload)

	assert.NoError(t, err)
	assert.Len(t, analysis.Comments, 1)
	assert.Equal(t, domain.CommentTypeEnhancement, analysis.Comments[0].CommentType)
	assert.Equal(t, domain.SeverityLow, analysis.Comments[0].Severity)
	assert.Equal(t, "No specific comment", analysis.Comments[0].Message)
	assert.Equal(t, "Code review completed.", analysis.Summary)
}

func TestParseAnalysis_SkipsEmptyPatterns(t *testing.T) {
	payload := []byte(`{
		"overallRating": "approved",
		"codeQualityScore": 90,
		"learningPatterns": [
			{"patternType": "style", "pattern": "", "confidence": 0.9},
			{"patternType": "", "pattern": "table tests", "confidence": 0.5}
		]
	}`)

	analysis, err := ParseAnalysis(payload)

	assert.NoError(t, err)
	assert.Len(t, analysis.LearningPatterns, 1)
	assert.Equal(t, "style", analysis.LearningPatterns[0].PatternType)
	assert.Equal(t, "table tests", analysis.LearningPatterns[0].Pattern)
}
