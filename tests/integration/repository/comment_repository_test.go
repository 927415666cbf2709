package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"pr-review-dashboard/internal/database"
	"pr-review-dashboard/internal/domain"
	"pr-review-dashboard/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CommentRepositoryTestSuite struct {
	suite.Suite
	db          *sql.DB
	repo        domain.CommentRepository
	reviewRepo  domain.ReviewRepository
	ctx         context.Context
	prID        string
	secondPrID  string
	reviewID    string
	secondRevID string
}

func (suite *CommentRepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		"postgres", "password", "localhost", "5433", "pr_dashboard_test",
	)

	var err error
	suite.db, err = sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err = suite.db.Ping(); err != nil {
		log.Fatalf("Failed to ping test database: %v", err)
	}

	if err = database.MigrateDB(suite.db); err != nil {
		log.Fatalf("Failed to migrate test database: %v", err)
	}

	suite.repo = repository.NewCommentRepository(suite.db)
	suite.reviewRepo = repository.NewReviewRepository(suite.db)

	suite.cleanDatabase()
	suite.setupTestData()
}

func (suite *CommentRepositoryTestSuite) TearDownTest() {
	suite.cleanDatabase()
	suite.setupTestData()
}

func (suite *CommentRepositoryTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *CommentRepositoryTestSuite) cleanDatabase() {
	tables := []string{"review_comments", "pr_merge_status", "ai_reviews", "pr_files", "pull_requests", "repositories"}
	for _, table := range tables {
		_, err := suite.db.ExecContext(suite.ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			log.Printf("Failed to clean table %s: %v", table, err)
		}
	}
}

func (suite *CommentRepositoryTestSuite) setupTestData() {
	repoStore := repository.NewRepositoryRepo(suite.db)
	prRepo := repository.NewPRRepository(suite.db)

	repo, err := repoStore.Create(suite.ctx, &domain.Repository{
		FullName: "acme/payments",
		Name:     "payments",
		Owner:    "acme",
	})
	if err != nil {
		log.Fatalf("Failed to create test repository: %v", err)
	}

	pr, err := prRepo.Create(suite.ctx, &domain.PullRequest{
		RepositoryID: repo.ID,
		Number:       1,
		Title:        "Add caching layer",
		Author:       "dev1",
		BaseBranch:   "main",
		HeadBranch:   "feature/cache",
	})
	if err != nil {
		log.Fatalf("Failed to create test PR: %v", err)
	}
	suite.prID = pr.ID

	otherPR, err := prRepo.Create(suite.ctx, &domain.PullRequest{
		RepositoryID: repo.ID,
		Number:       2,
		Title:        "Unrelated PR",
		Author:       "dev2",
		BaseBranch:   "main",
		HeadBranch:   "feature/other",
	})
	if err != nil {
		log.Fatalf("Failed to create second test PR: %v", err)
	}
	suite.secondPrID = otherPR.ID

	review, err := suite.reviewRepo.Create(suite.ctx, &domain.AiReview{
		PullRequestID:    pr.ID,
		OverallRating:    domain.RatingChangesRequested,
		CodeQualityScore: 70,
		Summary:          "first pass",
	})
	if err != nil {
		log.Fatalf("Failed to create test review: %v", err)
	}
	suite.reviewID = review.ID

	secondReview, err := suite.reviewRepo.Create(suite.ctx, &domain.AiReview{
		PullRequestID:    pr.ID,
		OverallRating:    domain.RatingCommented,
		CodeQualityScore: 80,
		Summary:          "second pass",
	})
	if err != nil {
		log.Fatalf("Failed to create second test review: %v", err)
	}
	suite.secondRevID = secondReview.ID
}

func (suite *CommentRepositoryTestSuite) createComment(reviewID, severity string) *domain.ReviewComment {
	comment, err := suite.repo.Create(suite.ctx, &domain.ReviewComment{
		AiReviewID:  reviewID,
		CommentType: domain.CommentTypeBug,
		Severity:    severity,
		Message:     "test finding",
		Status:      domain.CommentStatusOpen,
	})
	assert.NoError(suite.T(), err)
	return comment
}

func (suite *CommentRepositoryTestSuite) TestCreateAndGetByID() {
	created := suite.createComment(suite.reviewID, domain.SeverityHigh)

	comment, err := suite.repo.GetByID(suite.ctx, created.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.reviewID, comment.AiReviewID)
	assert.Equal(suite.T(), domain.CommentStatusOpen, comment.Status)
	assert.Nil(suite.T(), comment.ResolvedBy)
	assert.Nil(suite.T(), comment.ResolvedAt)
}

func (suite *CommentRepositoryTestSuite) TestGetByID_NotFound() {
	comment, err := suite.repo.GetByID(suite.ctx, "nonexistent")
	assert.ErrorIs(suite.T(), err, domain.ErrCommentNotFound)
	assert.Nil(suite.T(), comment)
}

// Комментарии всех ревью PR возвращаются объединением.
func (suite *CommentRepositoryTestSuite) TestGetByPullRequest_UnionAcrossReviews() {
	suite.createComment(suite.reviewID, domain.SeverityLow)
	suite.createComment(suite.reviewID, domain.SeverityHigh)
	suite.createComment(suite.secondRevID, domain.SeverityCritical)

	comments, err := suite.repo.GetByPullRequest(suite.ctx, suite.prID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, len(comments))

	// Чужой PR не видит этих комментариев
	comments, err = suite.repo.GetByPullRequest(suite.ctx, suite.secondPrID)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), comments)
}

func (suite *CommentRepositoryTestSuite) TestMarkTerminal_SetsResolutionFields() {
	created := suite.createComment(suite.reviewID, domain.SeverityHigh)

	note := "fixed in follow-up commit"
	ok, err := suite.repo.MarkTerminal(suite.ctx, created.ID, domain.CommentStatusResolved, "user-1", &note, time.Now().UTC())
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	comment, err := suite.repo.GetByID(suite.ctx, created.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.CommentStatusResolved, comment.Status)
	assert.NotNil(suite.T(), comment.ResolvedBy)
	assert.Equal(suite.T(), "user-1", *comment.ResolvedBy)
	assert.NotNil(suite.T(), comment.ResolvedAt)
	assert.NotNil(suite.T(), comment.ResolutionNote)
}

// Guarded UPDATE: второй переход того же комментария не проходит.
func (suite *CommentRepositoryTestSuite) TestMarkTerminal_SecondTransitionRejected() {
	created := suite.createComment(suite.reviewID, domain.SeverityMedium)

	ok, err := suite.repo.MarkTerminal(suite.ctx, created.ID, domain.CommentStatusResolved, "user-1", nil, time.Now().UTC())
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	ok, err = suite.repo.MarkTerminal(suite.ctx, created.ID, domain.CommentStatusDismissed, "user-2", nil, time.Now().UTC())
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), ok)

	// Поля первой резолюции не перезаписаны
	comment, err := suite.repo.GetByID(suite.ctx, created.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.CommentStatusResolved, comment.Status)
	assert.Equal(suite.T(), "user-1", *comment.ResolvedBy)
}

func (suite *CommentRepositoryTestSuite) TestGetUnresolvedByPullRequest() {
	open := suite.createComment(suite.reviewID, domain.SeverityHigh)
	resolved := suite.createComment(suite.secondRevID, domain.SeverityLow)

	ok, err := suite.repo.MarkTerminal(suite.ctx, resolved.ID, domain.CommentStatusResolved, "user-1", nil, time.Now().UTC())
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	unresolved, err := suite.repo.GetUnresolvedByPullRequest(suite.ctx, suite.prID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, len(unresolved))
	assert.Equal(suite.T(), open.ID, unresolved[0].ID)
}

func (suite *CommentRepositoryTestSuite) TestGetByReview() {
	suite.createComment(suite.reviewID, domain.SeverityLow)
	suite.createComment(suite.reviewID, domain.SeverityHigh)
	suite.createComment(suite.secondRevID, domain.SeverityCritical)

	comments, err := suite.repo.GetByReview(suite.ctx, suite.reviewID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, len(comments))
}

func TestCommentRepositoryTestSuite(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "1" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=1 to run.")
	}
	suite.Run(t, new(CommentRepositoryTestSuite))
}
