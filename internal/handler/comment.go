package handler

import (
	"context"
	"net/http"

	"pr-review-dashboard/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// CommentHandler обрабатывает HTTP-запросы резолюции комментариев и merge-статуса
type CommentHandler struct {
	*BaseHandler
	commentUseCase     domain.CommentUseCase
	mergeStatusUseCase domain.MergeStatusUseCase
}

// NewCommentHandler создает новый экземпляр CommentHandler
func NewCommentHandler(
	commentUseCase domain.CommentUseCase,
	mergeStatusUseCase domain.MergeStatusUseCase,
	logger *logrus.Logger,
) *CommentHandler {
	return &CommentHandler{
		BaseHandler:        NewBaseHandler(logger),
		commentUseCase:     commentUseCase,
		mergeStatusUseCase: mergeStatusUseCase,
	}
}

type resolveCommentRequest struct {
	UserID         string  `json:"user_id"`
	ResolutionNote *string `json:"resolution_note"`
}

// PostResolveComment обрабатывает резолюцию комментария
func (h *CommentHandler) PostResolveComment(c echo.Context) error {
	return h.transition(c, "resolve_comment", h.commentUseCase.ResolveComment)
}

// PostDismissComment обрабатывает отклонение комментария (заметка обязательна)
func (h *CommentHandler) PostDismissComment(c echo.Context) error {
	return h.transition(c, "dismiss_comment", h.commentUseCase.DismissComment)
}

func (h *CommentHandler) transition(
	c echo.Context,
	operation string,
	fn func(ctx context.Context, commentID, userID string, note *string) (*domain.MergeStatus, error),
) error {
	var req resolveCommentRequest
	if err := c.Bind(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to bind comment transition request")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	commentID := c.Param("id")
	logEntry := h.logRequest(c, operation).WithFields(logrus.Fields{
		"comment_id": commentID,
		"user_id":    req.UserID,
	})
	logEntry.Info("Transitioning comment")

	status, err := fn(c.Request().Context(), commentID, req.UserID, req.ResolutionNote)
	if err != nil {
		logEntry.WithError(err).Warn("Failed to transition comment")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	logEntry.WithField("can_merge", status.CanMerge).Info("Comment transitioned successfully")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"merge_status": toAPIMergeStatus(status),
	})
}

// GetUnresolvedComments возвращает open-комментарии всех ревью пул-реквеста
func (h *CommentHandler) GetUnresolvedComments(c echo.Context) error {
	prID := c.Param("id")

	comments, err := h.commentUseCase.GetUnresolvedComments(c.Request().Context(), prID)
	if err != nil {
		h.logRequest(c, "get_unresolved_comments").WithError(err).Warn("Failed to get unresolved comments")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, toAPIComments(comments))
}

// GetMergeStatus возвращает агрегат merge-статуса пул-реквеста
func (h *CommentHandler) GetMergeStatus(c echo.Context) error {
	prID := c.Param("id")

	status, err := h.mergeStatusUseCase.GetMergeStatus(c.Request().Context(), prID)
	if err != nil {
		h.logRequest(c, "get_merge_status").WithError(err).Warn("Failed to get merge status")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, toAPIMergeStatus(status))
}

// PostCheckMergeEligibility вычисляет вердикт мержабельности без сохранения
func (h *CommentHandler) PostCheckMergeEligibility(c echo.Context) error {
	prID := c.Param("id")

	canMerge, err := h.mergeStatusUseCase.CheckMergeEligibility(c.Request().Context(), prID)
	if err != nil {
		h.logRequest(c, "check_merge_eligibility").WithError(err).Warn("Failed to check merge eligibility")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]bool{"can_merge": canMerge})
}
