package usecase

import (
	"context"
	"errors"

	"pr-review-dashboard/internal/domain"
)

// ReviewUseCase реализует Ingestion Pipeline: прогон анализа и durable-запись
// его результата вместе с начальным merge-статусом.
type ReviewUseCase struct {
	analyzer      domain.ReviewAnalyzer
	prRepo        domain.PRRepository
	fileRepo      domain.PRFileRepository
	reviewRepo    domain.ReviewRepository
	commentRepo   domain.CommentRepository
	insightRepo   domain.InsightRepository
	mergeStatusUC domain.MergeStatusUseCase
}

// NewReviewUseCase создает новый экземпляр ReviewUseCase.
func NewReviewUseCase(
	analyzer domain.ReviewAnalyzer,
	prRepo domain.PRRepository,
	fileRepo domain.PRFileRepository,
	reviewRepo domain.ReviewRepository,
	commentRepo domain.CommentRepository,
	insightRepo domain.InsightRepository,
	mergeStatusUC domain.MergeStatusUseCase,
) domain.ReviewUseCase {
	return &ReviewUseCase{
		analyzer:      analyzer,
		prRepo:        prRepo,
		fileRepo:      fileRepo,
		reviewRepo:    reviewRepo,
		commentRepo:   commentRepo,
		insightRepo:   insightRepo,
		mergeStatusUC: mergeStatusUC,
	}
}

// GenerateReview запускает анализ пул-реквеста и сохраняет ревью, комментарии,
// вспомогательные записи и merge-статус.
//
// Запись агрегата — строго последний шаг: пока строки merge-статуса нет,
// PR считается "не оцененным", а не мержабельным. Отката частично
// вставленных комментариев нет; агрегат пересчитывается по тому, что
// реально сохранилось, и не завышает мержабельность.
func (uc *ReviewUseCase) GenerateReview(ctx context.Context, prID string) (*domain.ReviewResult, error) {
	if prID == "" {
		return nil, domain.ErrInvalidPRID
	}

	// 1. Проверяем, что PR существует
	pr, err := uc.prRepo.GetByID(ctx, prID)
	if err != nil {
		return nil, err
	}

	// 2. Собираем диффы
	files, err := uc.fileRepo.GetByPullRequest(ctx, prID)
	if err != nil {
		return nil, err
	}

	// 3. Вызываем анализатор. До первой записи: таймаут или отказ модели
	// не оставляют в хранилище ни ревью, ни агрегата.
	description := ""
	if pr.Description != nil {
		description = *pr.Description
	}
	analysis, err := uc.analyzer.Analyze(ctx, pr.Title, description, files)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAnalysis) {
			return nil, domain.ErrInvalidAnalysis
		}
		return nil, domain.ErrAnalyzerUnavailable
	}

	// 4. Сохраняем ревью
	review, err := uc.reviewRepo.Create(ctx, &domain.AiReview{
		PullRequestID:     prID,
		OverallRating:     analysis.OverallRating,
		CodeQualityScore:  analysis.CodeQualityScore,
		TestCoverage:      analysis.TestCoverage,
		SecurityIssues:    analysis.SecurityIssues,
		PerformanceIssues: analysis.PerformanceIssues,
		Summary:           analysis.Summary,
	})
	if err != nil {
		return nil, err
	}

	fileIDs := make(map[string]string, len(files))
	for _, f := range files {
		fileIDs[f.Filename] = f.ID
	}

	// 5. Сохраняем комментарии в порядке выдачи модели. При частичном сбое
	// вставляем что можем, ошибку поднимаем после пересчета агрегата.
	var insertErr error
	comments := make([]*domain.ReviewComment, 0, len(analysis.Comments))
	for i, c := range analysis.Comments {
		var fileID *string
		if id, ok := fileIDs[c.Filename]; ok {
			fileID = &id
		}

		saved, err := uc.commentRepo.Create(ctx, &domain.ReviewComment{
			AiReviewID:  review.ID,
			FileID:      fileID,
			LineNumber:  c.LineNumber,
			Position:    i,
			CommentType: c.CommentType,
			Severity:    c.Severity,
			Message:     c.Message,
			Suggestion:  c.Suggestion,
			Status:      domain.CommentStatusOpen,
		})
		if err != nil {
			if insertErr == nil {
				insertErr = err
			}
			continue
		}
		comments = append(comments, saved)
	}

	// 6. Вспомогательные write-once записи
	if err := uc.persistAuxRecords(ctx, pr, fileIDs, analysis); err != nil && insertErr == nil {
		insertErr = err
	}

	// 7. Зеркалим рейтинг в кэшированный статус PR (денормализованная
	// проекция для списков)
	if err := uc.prRepo.UpdateReviewStatus(ctx, prID, analysis.OverallRating); err != nil && insertErr == nil {
		insertErr = err
	}

	// 8. Пересчитываем агрегат по объединению комментариев всех ревью PR —
	// последний шаг, делающий ревью видимым для merge-решения.
	mergeStatus, err := uc.mergeStatusUC.Recompute(ctx, prID)
	if err != nil {
		return nil, err
	}

	if insertErr != nil {
		return nil, insertErr
	}

	return &domain.ReviewResult{
		Review:      review,
		Comments:    comments,
		MergeStatus: mergeStatus,
	}, nil
}

// GetLatestReview возвращает актуальное ревью PR вместе с его комментариями.
func (uc *ReviewUseCase) GetLatestReview(ctx context.Context, prID string) (*domain.AiReview, []*domain.ReviewComment, error) {
	if prID == "" {
		return nil, nil, domain.ErrInvalidPRID
	}

	review, err := uc.reviewRepo.GetLatestByPullRequest(ctx, prID)
	if err != nil {
		return nil, nil, err
	}

	comments, err := uc.commentRepo.GetByReview(ctx, review.ID)
	if err != nil {
		return nil, nil, err
	}

	return review, comments, nil
}

func (uc *ReviewUseCase) persistAuxRecords(ctx context.Context, pr *domain.PullRequest, fileIDs map[string]string, analysis *domain.CodeReviewAnalysis) error {
	_, err := uc.insightRepo.CreateInsight(ctx, &domain.ReviewInsight{
		PullRequestID:    pr.ID,
		Category:         analysis.Insight.Category,
		RiskLevel:        analysis.Insight.RiskLevel,
		ChangeType:       analysis.Insight.ChangeType,
		ImpactScore:      analysis.Insight.ImpactScore,
		ReviewTime:       analysis.Insight.ReviewTime,
		EducationalValue: analysis.Insight.EducationalValue,
	})
	if err != nil {
		return err
	}

	for _, fc := range analysis.ContextAnalysis {
		fileID, ok := fileIDs[fc.Filename]
		if !ok {
			continue
		}
		_, err := uc.insightRepo.CreateCodeContext(ctx, &domain.CodeContext{
			PullRequestID:        pr.ID,
			FileID:               fileID,
			Dependencies:         fc.Dependencies,
			Complexity:           fc.Complexity,
			MaintainabilityIndex: fc.MaintainabilityIndex,
			TechDebt:             fc.TechDebtScore,
		})
		if err != nil {
			return err
		}
	}

	for _, p := range analysis.LearningPatterns {
		_, err := uc.insightRepo.CreateLearningPattern(ctx, &domain.LearningPattern{
			RepositoryID: pr.RepositoryID,
			PatternType:  p.PatternType,
			Pattern:      p.Pattern,
			Confidence:   p.Confidence,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
