package handler

import (
	"net/http"
	"time"

	"pr-review-dashboard/internal/domain"
)

// API-модели ответов и вспомогательные функции преобразования доменных моделей

type Repository struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Name          string    `json:"name"`
	Owner         string    `json:"owner"`
	Description   *string   `json:"description,omitempty"`
	DefaultBranch string    `json:"default_branch"`
	GithubID      *int64    `json:"github_id,omitempty"`
	IsPrivate     bool      `json:"is_private"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PullRequest struct {
	ID           string    `json:"id"`
	RepositoryID string    `json:"repository_id"`
	Number       int       `json:"number"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	Author       string    `json:"author"`
	BaseBranch   string    `json:"base_branch"`
	HeadBranch   string    `json:"head_branch"`
	Status       string    `json:"status"`
	ReviewStatus string    `json:"review_status"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	ChangedFiles int       `json:"changed_files"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PrFile struct {
	ID               string  `json:"id"`
	PullRequestID    string  `json:"pull_request_id"`
	Filename         string  `json:"filename"`
	Status           string  `json:"status"`
	Additions        int     `json:"additions"`
	Deletions        int     `json:"deletions"`
	Patch            *string `json:"patch,omitempty"`
	PreviousFilename *string `json:"previous_filename,omitempty"`
}

type AiReview struct {
	ID                string    `json:"id"`
	PullRequestID     string    `json:"pull_request_id"`
	OverallRating     string    `json:"overall_rating"`
	CodeQualityScore  int       `json:"code_quality_score"`
	TestCoverage      float64   `json:"test_coverage"`
	SecurityIssues    int       `json:"security_issues"`
	PerformanceIssues int       `json:"performance_issues"`
	Summary           string    `json:"summary"`
	CreatedAt         time.Time `json:"created_at"`
}

type ReviewComment struct {
	ID             string     `json:"id"`
	AiReviewID     string     `json:"ai_review_id"`
	FileID         *string    `json:"file_id,omitempty"`
	LineNumber     *int       `json:"line_number,omitempty"`
	CommentType    string     `json:"comment_type"`
	Severity       string     `json:"severity"`
	Message        string     `json:"message"`
	Suggestion     *string    `json:"suggestion,omitempty"`
	Status         string     `json:"status"`
	ResolvedBy     *string    `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolutionNote *string    `json:"resolution_note,omitempty"`
}

type MergeStatus struct {
	PullRequestID    string    `json:"pull_request_id"`
	CanMerge         bool      `json:"can_merge"`
	BlockedReason    *string   `json:"blocked_reason,omitempty"`
	TotalComments    int       `json:"total_comments"`
	ResolvedComments int       `json:"resolved_comments"`
	CriticalIssues   int       `json:"critical_issues"`
	LastChecked      time.Time `json:"last_checked"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ReviewInsight struct {
	ID               string `json:"id"`
	PullRequestID    string `json:"pull_request_id"`
	Category         string `json:"category"`
	RiskLevel        string `json:"risk_level"`
	ChangeType       string `json:"change_type"`
	ImpactScore      int    `json:"impact_score"`
	ReviewTime       int    `json:"review_time"`
	EducationalValue int    `json:"educational_value"`
}

type CodeContext struct {
	ID                   string   `json:"id"`
	PullRequestID        string   `json:"pull_request_id"`
	FileID               string   `json:"file_id"`
	Dependencies         []string `json:"dependencies"`
	Complexity           int      `json:"complexity"`
	MaintainabilityIndex int      `json:"maintainability_index"`
	TechDebt             int      `json:"tech_debt"`
}

type LearningPattern struct {
	ID           string  `json:"id"`
	RepositoryID string  `json:"repository_id"`
	PatternType  string  `json:"pattern_type"`
	Pattern      string  `json:"pattern"`
	Confidence   float64 `json:"confidence"`
	Occurrences  int     `json:"occurrences"`
}

func toAPIRepository(repo *domain.Repository) Repository {
	return Repository{
		ID:            repo.ID,
		FullName:      repo.FullName,
		Name:          repo.Name,
		Owner:         repo.Owner,
		Description:   repo.Description,
		DefaultBranch: repo.DefaultBranch,
		GithubID:      repo.GithubID,
		IsPrivate:     repo.IsPrivate,
		CreatedAt:     repo.CreatedAt,
		UpdatedAt:     repo.UpdatedAt,
	}
}

func toAPIPullRequest(pr *domain.PullRequest) PullRequest {
	return PullRequest{
		ID:           pr.ID,
		RepositoryID: pr.RepositoryID,
		Number:       pr.Number,
		Title:        pr.Title,
		Description:  pr.Description,
		Author:       pr.Author,
		BaseBranch:   pr.BaseBranch,
		HeadBranch:   pr.HeadBranch,
		Status:       pr.Status,
		ReviewStatus: pr.ReviewStatus,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
		ChangedFiles: pr.ChangedFiles,
		CreatedAt:    pr.CreatedAt,
		UpdatedAt:    pr.UpdatedAt,
	}
}

func toAPIPrFile(file *domain.PrFile) PrFile {
	return PrFile{
		ID:               file.ID,
		PullRequestID:    file.PullRequestID,
		Filename:         file.Filename,
		Status:           file.Status,
		Additions:        file.Additions,
		Deletions:        file.Deletions,
		Patch:            file.Patch,
		PreviousFilename: file.PreviousFilename,
	}
}

func toAPIReview(review *domain.AiReview) AiReview {
	return AiReview{
		ID:                review.ID,
		PullRequestID:     review.PullRequestID,
		OverallRating:     review.OverallRating,
		CodeQualityScore:  review.CodeQualityScore,
		TestCoverage:      review.TestCoverage,
		SecurityIssues:    review.SecurityIssues,
		PerformanceIssues: review.PerformanceIssues,
		Summary:           review.Summary,
		CreatedAt:         review.CreatedAt,
	}
}

func toAPIComment(comment *domain.ReviewComment) ReviewComment {
	return ReviewComment{
		ID:             comment.ID,
		AiReviewID:     comment.AiReviewID,
		FileID:         comment.FileID,
		LineNumber:     comment.LineNumber,
		CommentType:    comment.CommentType,
		Severity:       comment.Severity,
		Message:        comment.Message,
		Suggestion:     comment.Suggestion,
		Status:         comment.Status,
		ResolvedBy:     comment.ResolvedBy,
		ResolvedAt:     comment.ResolvedAt,
		ResolutionNote: comment.ResolutionNote,
	}
}

func toAPIComments(comments []*domain.ReviewComment) []ReviewComment {
	result := make([]ReviewComment, len(comments))
	for i, comment := range comments {
		result[i] = toAPIComment(comment)
	}
	return result
}

func toAPIMergeStatus(status *domain.MergeStatus) MergeStatus {
	return MergeStatus{
		PullRequestID:    status.PullRequestID,
		CanMerge:         status.CanMerge,
		BlockedReason:    status.BlockedReason,
		TotalComments:    status.TotalComments,
		ResolvedComments: status.ResolvedComments,
		CriticalIssues:   status.CriticalIssues,
		LastChecked:      status.LastChecked,
		UpdatedAt:        status.UpdatedAt,
	}
}

func toErrorResponse(code, message string) domain.ErrorResponse {
	return domain.ErrorResponse{
		Error: domain.HTTPError{Code: code, Message: message},
	}
}

func toAPIErrorResponse(httpErr domain.HTTPError) domain.ErrorResponse {
	return domain.ErrorResponse{Error: httpErr}
}

func getHTTPStatusCode(err error) int {
	switch err {
	// Conflict errors (409)
	case domain.ErrCommentAlreadyResolved:
		return http.StatusConflict

	// Not Found errors (404)
	case domain.ErrRepositoryNotFound, domain.ErrPRNotFound,
		domain.ErrReviewNotFound, domain.ErrCommentNotFound,
		domain.ErrMergeStatusNotFound:
		return http.StatusNotFound

	// Bad Request errors (400) - валидация
	case domain.ErrInvalidPRID, domain.ErrInvalidCommentID,
		domain.ErrInvalidUserID, domain.ErrInvalidRepositoryID,
		domain.ErrResolutionNoteRequired:
		return http.StatusBadRequest

	// Upstream errors (502)
	case domain.ErrAnalyzerUnavailable, domain.ErrInvalidAnalysis:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
