package handler

import (
	"net/http"

	"pr-review-dashboard/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ReviewHandler обрабатывает HTTP-запросы генерации и чтения AI-ревью
type ReviewHandler struct {
	*BaseHandler
	reviewUseCase domain.ReviewUseCase
}

// NewReviewHandler создает новый экземпляр ReviewHandler
func NewReviewHandler(reviewUseCase domain.ReviewUseCase, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   NewBaseHandler(logger),
		reviewUseCase: reviewUseCase,
	}
}

// PostGenerateReview запускает анализ пул-реквеста и сохраняет результат
func (h *ReviewHandler) PostGenerateReview(c echo.Context) error {
	prID := c.Param("id")

	logEntry := h.logRequest(c, "generate_review").WithField("pr_id", prID)
	logEntry.Info("Generating AI review")

	result, err := h.reviewUseCase.GenerateReview(c.Request().Context(), prID)
	if err != nil {
		logEntry.WithError(err).Error("Failed to generate review")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	logEntry.WithFields(logrus.Fields{
		"review_id":      result.Review.ID,
		"comments_count": len(result.Comments),
		"can_merge":      result.MergeStatus.CanMerge,
	}).Info("Review generated successfully")

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"review":       toAPIReview(result.Review),
		"comments":     toAPIComments(result.Comments),
		"merge_status": toAPIMergeStatus(result.MergeStatus),
	})
}

// GetLatestReview возвращает актуальное ревью PR вместе с комментариями
func (h *ReviewHandler) GetLatestReview(c echo.Context) error {
	prID := c.Param("id")

	review, comments, err := h.reviewUseCase.GetLatestReview(c.Request().Context(), prID)
	if err != nil {
		h.logRequest(c, "get_review").WithError(err).Warn("Failed to get review")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"review":   toAPIReview(review),
		"comments": toAPIComments(comments),
	})
}
