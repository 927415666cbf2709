package handler

import (
	"pr-review-dashboard/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type APIHandler struct {
	*PRHandler
	*ReviewHandler
	*CommentHandler
}

func NewAPIHandler(
	prUseCase domain.PRUseCase,
	reviewUseCase domain.ReviewUseCase,
	commentUseCase domain.CommentUseCase,
	mergeStatusUseCase domain.MergeStatusUseCase,
	logger *logrus.Logger,
) *APIHandler {

	return &APIHandler{
		PRHandler:      NewPRHandler(prUseCase, logger),
		ReviewHandler:  NewReviewHandler(reviewUseCase, logger),
		CommentHandler: NewCommentHandler(commentUseCase, mergeStatusUseCase, logger),
	}
}

// RegisterRoutes регистрирует все маршруты API.
func RegisterRoutes(e *echo.Echo, h *APIHandler) {
	api := e.Group("/api")

	// Repositories
	api.GET("/repositories", h.GetRepositories)
	api.POST("/repositories", h.PostRepository)
	api.GET("/repositories/:id", h.GetRepository)
	api.GET("/repositories/:id/patterns", h.GetLearningPatterns)

	// Pull requests
	api.GET("/pull-requests", h.GetPullRequests)
	api.POST("/pull-requests", h.PostPullRequest)
	api.GET("/pull-requests/:id", h.GetPullRequest)
	api.GET("/pull-requests/:id/files", h.GetPullRequestFiles)
	api.POST("/pull-requests/:id/files", h.PostPullRequestFile)

	// AI reviews
	api.GET("/pull-requests/:id/review", h.GetLatestReview)
	api.POST("/pull-requests/:id/review", h.PostGenerateReview)
	api.GET("/pull-requests/:id/insights", h.GetInsights)
	api.GET("/pull-requests/:id/context", h.GetCodeContext)

	// Comment resolution
	api.POST("/comments/:id/resolve", h.PostResolveComment)
	api.POST("/comments/:id/dismiss", h.PostDismissComment)
	api.GET("/pull-requests/:id/unresolved-comments", h.GetUnresolvedComments)

	// Merge status
	api.GET("/pull-requests/:id/merge-status", h.GetMergeStatus)
	api.POST("/pull-requests/:id/check-merge-eligibility", h.PostCheckMergeEligibility)
}
