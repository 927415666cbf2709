package handler

import (
	"net/http"

	"pr-review-dashboard/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PRHandler обрабатывает HTTP-запросы CRUD-обвязки: репозитории, пул-реквесты,
// файлы и read-only вспомогательные записи
type PRHandler struct {
	*BaseHandler
	prUseCase domain.PRUseCase
}

// NewPRHandler создает новый экземпляр PRHandler
func NewPRHandler(prUseCase domain.PRUseCase, logger *logrus.Logger) *PRHandler {
	return &PRHandler{
		BaseHandler: NewBaseHandler(logger),
		prUseCase:   prUseCase,
	}
}

type createRepositoryRequest struct {
	FullName      string  `json:"full_name"`
	Name          string  `json:"name"`
	Owner         string  `json:"owner"`
	Description   *string `json:"description"`
	DefaultBranch string  `json:"default_branch"`
	GithubID      *int64  `json:"github_id"`
	IsPrivate     bool    `json:"is_private"`
}

type createPullRequestRequest struct {
	RepositoryID string  `json:"repository_id"`
	Number       int     `json:"number"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	Author       string  `json:"author"`
	BaseBranch   string  `json:"base_branch"`
	HeadBranch   string  `json:"head_branch"`
	Additions    int     `json:"additions"`
	Deletions    int     `json:"deletions"`
	ChangedFiles int     `json:"changed_files"`
	GithubID     *int64  `json:"github_id"`
}

type createPrFileRequest struct {
	Filename         string  `json:"filename"`
	Status           string  `json:"status"`
	Additions        int     `json:"additions"`
	Deletions        int     `json:"deletions"`
	Patch            *string `json:"patch"`
	PreviousFilename *string `json:"previous_filename"`
}

// PostRepository подключает репозиторий
func (h *PRHandler) PostRepository(c echo.Context) error {
	var req createRepositoryRequest
	if err := c.Bind(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to bind create repository request")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	logEntry := h.logRequest(c, "create_repository").WithField("full_name", req.FullName)

	repo, err := h.prUseCase.CreateRepository(c.Request().Context(), &domain.Repository{
		FullName:      req.FullName,
		Name:          req.Name,
		Owner:         req.Owner,
		Description:   req.Description,
		DefaultBranch: req.DefaultBranch,
		GithubID:      req.GithubID,
		IsPrivate:     req.IsPrivate,
	})
	if err != nil {
		logEntry.WithError(err).Error("Failed to create repository")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	logEntry.WithField("repository_id", repo.ID).Info("Repository created")
	return c.JSON(http.StatusCreated, toAPIRepository(repo))
}

// GetRepositories возвращает все подключенные репозитории
func (h *PRHandler) GetRepositories(c echo.Context) error {
	repos, err := h.prUseCase.GetRepositories(c.Request().Context())
	if err != nil {
		h.logRequest(c, "get_repositories").WithError(err).Error("Failed to get repositories")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	result := make([]Repository, len(repos))
	for i, repo := range repos {
		result[i] = toAPIRepository(repo)
	}
	return c.JSON(http.StatusOK, result)
}

// GetRepository возвращает репозиторий по ID
func (h *PRHandler) GetRepository(c echo.Context) error {
	repo, err := h.prUseCase.GetRepository(c.Request().Context(), c.Param("id"))
	if err != nil {
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}
	return c.JSON(http.StatusOK, toAPIRepository(repo))
}

// PostPullRequest регистрирует пул-реквест
func (h *PRHandler) PostPullRequest(c echo.Context) error {
	var req createPullRequestRequest
	if err := c.Bind(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to bind create PR request")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	logEntry := h.logRequest(c, "create_pr").WithFields(logrus.Fields{
		"repository_id": req.RepositoryID,
		"title":         req.Title,
	})

	pr, err := h.prUseCase.CreatePR(c.Request().Context(), &domain.PullRequest{
		RepositoryID: req.RepositoryID,
		Number:       req.Number,
		Title:        req.Title,
		Description:  req.Description,
		Author:       req.Author,
		BaseBranch:   req.BaseBranch,
		HeadBranch:   req.HeadBranch,
		Additions:    req.Additions,
		Deletions:    req.Deletions,
		ChangedFiles: req.ChangedFiles,
		GithubID:     req.GithubID,
	})
	if err != nil {
		logEntry.WithError(err).Error("Failed to create PR")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	logEntry.WithField("pr_id", pr.ID).Info("PR created")
	return c.JSON(http.StatusCreated, toAPIPullRequest(pr))
}

// GetPullRequests возвращает пул-реквесты с опциональным фильтром по репозиторию
func (h *PRHandler) GetPullRequests(c echo.Context) error {
	prs, err := h.prUseCase.GetPRs(c.Request().Context(), c.QueryParam("repository_id"))
	if err != nil {
		h.logRequest(c, "get_prs").WithError(err).Error("Failed to get PRs")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	result := make([]PullRequest, len(prs))
	for i, pr := range prs {
		result[i] = toAPIPullRequest(pr)
	}
	return c.JSON(http.StatusOK, result)
}

// GetPullRequest возвращает пул-реквест по ID
func (h *PRHandler) GetPullRequest(c echo.Context) error {
	pr, err := h.prUseCase.GetPR(c.Request().Context(), c.Param("id"))
	if err != nil {
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}
	return c.JSON(http.StatusOK, toAPIPullRequest(pr))
}

// PostPullRequestFile добавляет измененный файл к пул-реквесту
func (h *PRHandler) PostPullRequestFile(c echo.Context) error {
	var req createPrFileRequest
	if err := c.Bind(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to bind create PR file request")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	file, err := h.prUseCase.AddPRFile(c.Request().Context(), &domain.PrFile{
		PullRequestID:    c.Param("id"),
		Filename:         req.Filename,
		Status:           req.Status,
		Additions:        req.Additions,
		Deletions:        req.Deletions,
		Patch:            req.Patch,
		PreviousFilename: req.PreviousFilename,
	})
	if err != nil {
		h.logRequest(c, "add_pr_file").WithError(err).Error("Failed to add PR file")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusCreated, toAPIPrFile(file))
}

// GetPullRequestFiles возвращает файлы пул-реквеста
func (h *PRHandler) GetPullRequestFiles(c echo.Context) error {
	files, err := h.prUseCase.GetPRFiles(c.Request().Context(), c.Param("id"))
	if err != nil {
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	result := make([]PrFile, len(files))
	for i, file := range files {
		result[i] = toAPIPrFile(file)
	}
	return c.JSON(http.StatusOK, result)
}

// GetInsights возвращает сводные оценки ревью PR
func (h *PRHandler) GetInsights(c echo.Context) error {
	insights, err := h.prUseCase.GetInsights(c.Request().Context(), c.Param("id"))
	if err != nil {
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	result := make([]ReviewInsight, len(insights))
	for i, insight := range insights {
		result[i] = ReviewInsight{
			ID:               insight.ID,
			PullRequestID:    insight.PullRequestID,
			Category:         insight.Category,
			RiskLevel:        insight.RiskLevel,
			ChangeType:       insight.ChangeType,
			ImpactScore:      insight.ImpactScore,
			ReviewTime:       insight.ReviewTime,
			EducationalValue: insight.EducationalValue,
		}
	}
	return c.JSON(http.StatusOK, result)
}

// GetCodeContext возвращает контекстный анализ файлов PR
func (h *PRHandler) GetCodeContext(c echo.Context) error {
	contexts, err := h.prUseCase.GetCodeContext(c.Request().Context(), c.Param("id"))
	if err != nil {
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	result := make([]CodeContext, len(contexts))
	for i, codeCtx := range contexts {
		result[i] = CodeContext{
			ID:                   codeCtx.ID,
			PullRequestID:        codeCtx.PullRequestID,
			FileID:               codeCtx.FileID,
			Dependencies:         codeCtx.Dependencies,
			Complexity:           codeCtx.Complexity,
			MaintainabilityIndex: codeCtx.MaintainabilityIndex,
			TechDebt:             codeCtx.TechDebt,
		}
	}
	return c.JSON(http.StatusOK, result)
}

// GetLearningPatterns возвращает выученные паттерны репозитория
func (h *PRHandler) GetLearningPatterns(c echo.Context) error {
	patterns, err := h.prUseCase.GetLearningPatterns(c.Request().Context(), c.Param("id"))
	if err != nil {
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	result := make([]LearningPattern, len(patterns))
	for i, pattern := range patterns {
		result[i] = LearningPattern{
			ID:           pattern.ID,
			RepositoryID: pattern.RepositoryID,
			PatternType:  pattern.PatternType,
			Pattern:      pattern.Pattern,
			Confidence:   pattern.Confidence,
			Occurrences:  pattern.Occurrences,
		}
	}
	return c.JSON(http.StatusOK, result)
}
