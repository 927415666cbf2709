package domain

import "errors"

// Domain errors (для бизнес-логики)
var (
	// Validation errors
	ErrInvalidPRID            = errors.New("invalid pull request id")
	ErrInvalidCommentID       = errors.New("invalid comment id")
	ErrInvalidUserID          = errors.New("invalid user id")
	ErrInvalidRepositoryID    = errors.New("invalid repository id")
	ErrResolutionNoteRequired = errors.New("resolution note is required for dismissal")

	// NotFound errors
	ErrRepositoryNotFound  = errors.New("repository not found")
	ErrPRNotFound          = errors.New("pull request not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrMergeStatusNotFound = errors.New("merge status not found")

	// Conflict errors
	ErrCommentAlreadyResolved = errors.New("comment already resolved or dismissed")

	// Upstream errors
	ErrInvalidAnalysis      = errors.New("analysis result is structurally invalid")
	ErrAnalyzerUnavailable  = errors.New("code analyzer is unavailable")
	ErrMergeStatusRecompute = errors.New("merge status recomputation failed")
)

// HTTPError для единообразных ответов об ошибках
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error HTTPError `json:"error"`
}

// Маппинг domain ошибок в HTTP ошибки
var ErrorMapping = map[error]HTTPError{
	ErrInvalidPRID:            {Code: "INVALID_REQUEST", Message: "pull request id is required"},
	ErrInvalidCommentID:       {Code: "INVALID_REQUEST", Message: "comment id is required"},
	ErrInvalidUserID:          {Code: "INVALID_REQUEST", Message: "user id is required"},
	ErrInvalidRepositoryID:    {Code: "INVALID_REQUEST", Message: "repository id is required"},
	ErrResolutionNoteRequired: {Code: "NOTE_REQUIRED", Message: "resolution note is required to dismiss a comment"},
	ErrRepositoryNotFound:     {Code: "NOT_FOUND", Message: "repository not found"},
	ErrPRNotFound:             {Code: "NOT_FOUND", Message: "pull request not found"},
	ErrReviewNotFound:         {Code: "NOT_FOUND", Message: "review not found"},
	ErrCommentNotFound:        {Code: "NOT_FOUND", Message: "comment not found"},
	ErrMergeStatusNotFound:    {Code: "NOT_FOUND", Message: "merge status not assessed yet"},
	ErrCommentAlreadyResolved: {Code: "COMMENT_TERMINAL", Message: "comment is already resolved or dismissed"},
	ErrInvalidAnalysis:        {Code: "INVALID_ANALYSIS", Message: "analyzer returned a structurally invalid result"},
	ErrAnalyzerUnavailable:    {Code: "ANALYZER_UNAVAILABLE", Message: "code analyzer is unavailable"},
	ErrMergeStatusRecompute:   {Code: "RECOMPUTE_FAILED", Message: "merge status recomputation failed"},
}

// ToHTTPError преобразует domain ошибку в HTTP ошибку
func ToHTTPError(err error) (HTTPError, bool) {
	httpErr, exists := ErrorMapping[err]
	return httpErr, exists
}
