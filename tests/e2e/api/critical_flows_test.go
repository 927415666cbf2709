package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CriticalFlowsTestSuite struct {
	suite.Suite
	baseURL string
	client  *http.Client
}

func (suite *CriticalFlowsTestSuite) SetupSuite() {
	suite.baseURL = "http://localhost:8081"
	suite.client = &http.Client{Timeout: 2 * time.Minute}
}

func (suite *CriticalFlowsTestSuite) postJSON(path string, body any) (*http.Response, map[string]interface{}) {
	b, _ := json.Marshal(body)
	resp, err := suite.client.Post(suite.baseURL+path, "application/json", bytes.NewReader(b))
	assert.NoError(suite.T(), err)

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	resp.Body.Close()
	return resp, decoded
}

func (suite *CriticalFlowsTestSuite) getJSON(path string) (*http.Response, map[string]interface{}) {
	resp, err := suite.client.Get(suite.baseURL + path)
	assert.NoError(suite.T(), err)

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	resp.Body.Close()
	return resp, decoded
}

// Каждый тест создает свои уникальные данные
func (suite *CriticalFlowsTestSuite) createTestPR(slug string) string {
	resp, repo := suite.postJSON("/api/repositories", map[string]interface{}{
		"full_name": "e2e/" + slug,
		"name":      slug,
		"owner":     "e2e",
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	repoID := repo["id"].(string)

	resp, pr := suite.postJSON("/api/pull-requests", map[string]interface{}{
		"repository_id": repoID,
		"number":        1,
		"title":         "E2E " + slug,
		"author":        "e2e-author",
		"base_branch":   "main",
		"head_branch":   "feature/" + slug,
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	prID := pr["id"].(string)

	patch := "@@ -1,3 +1,5 @@\n+func init() {}\n"
	resp, _ = suite.postJSON("/api/pull-requests/"+prID+"/files", map[string]interface{}{
		"filename":  "main.go",
		"status":    "modified",
		"additions": 2,
		"deletions": 0,
		"patch":     patch,
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

	return prID
}

// Test 1: до первого ревью merge-статуса нет — PR "не оценивался"
func (suite *CriticalFlowsTestSuite) TestMergeStatus_NotAssessedBeforeReview() {
	prID := suite.createTestPR("not-assessed")

	resp, _ := suite.getJSON("/api/pull-requests/" + prID + "/merge-status")
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
}

// Test 2: основной flow — создание PR → генерация ревью → merge-статус
func (suite *CriticalFlowsTestSuite) TestMainFlow_GenerateReviewAndMergeStatus() {
	prID := suite.createTestPR("main-flow")

	resp, result := suite.postJSON("/api/pull-requests/"+prID+"/review", nil)

	// 502 допустим, если внешний анализатор недоступен в окружении
	if resp.StatusCode == http.StatusBadGateway {
		suite.T().Skip("Analyzer unavailable in this environment")
	}
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

	review := result["review"].(map[string]interface{})
	assert.NotEmpty(suite.T(), review["id"])
	assert.Contains(suite.T(),
		[]string{"approved", "changes_requested", "commented"}, review["overall_rating"])

	mergeStatus := result["merge_status"].(map[string]interface{})
	totalComments := int(mergeStatus["total_comments"].(float64))

	// После ингеста агрегат читается тем же значением
	resp, persisted := suite.getJSON("/api/pull-requests/" + prID + "/merge-status")
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), totalComments, int(persisted["total_comments"].(float64)))
	assert.Equal(suite.T(), mergeStatus["can_merge"], persisted["can_merge"])
}

// Test 3: резолюция комментария пересчитывает merge-статус
func (suite *CriticalFlowsTestSuite) TestResolveCommentFlow() {
	prID := suite.createTestPR("resolve-flow")

	resp, _ := suite.postJSON("/api/pull-requests/"+prID+"/review", nil)
	if resp.StatusCode == http.StatusBadGateway {
		suite.T().Skip("Analyzer unavailable in this environment")
	}
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

	resp, err := suite.client.Get(suite.baseURL + "/api/pull-requests/" + prID + "/unresolved-comments")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var comments []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&comments)
	resp.Body.Close()

	if len(comments) == 0 {
		suite.T().Skip("Review produced no comments")
	}

	commentID := comments[0]["id"].(string)
	resp, result := suite.postJSON("/api/comments/"+commentID+"/resolve", map[string]interface{}{
		"user_id": "e2e-resolver",
	})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	mergeStatus := result["merge_status"].(map[string]interface{})
	assert.Equal(suite.T(), 1, int(mergeStatus["resolved_comments"].(float64)))

	// Повторная резолюция того же комментария — конфликт
	resp, _ = suite.postJSON("/api/comments/"+commentID+"/resolve", map[string]interface{}{
		"user_id": "e2e-resolver",
	})
	assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)
}

// Test 4: dismiss без заметки отклоняется валидацией
func (suite *CriticalFlowsTestSuite) TestDismissWithoutNoteRejected() {
	prID := suite.createTestPR("dismiss-flow")

	resp, _ := suite.postJSON("/api/pull-requests/"+prID+"/review", nil)
	if resp.StatusCode == http.StatusBadGateway {
		suite.T().Skip("Analyzer unavailable in this environment")
	}

	resp, err := suite.client.Get(suite.baseURL + "/api/pull-requests/" + prID + "/unresolved-comments")
	assert.NoError(suite.T(), err)

	var comments []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&comments)
	resp.Body.Close()

	if len(comments) == 0 {
		suite.T().Skip("Review produced no comments")
	}

	commentID := comments[0]["id"].(string)
	resp, _ = suite.postJSON("/api/comments/"+commentID+"/dismiss", map[string]interface{}{
		"user_id": "e2e-resolver",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)

	// С заметкой — проходит
	resp, _ = suite.postJSON("/api/comments/"+commentID+"/dismiss", map[string]interface{}{
		"user_id":         "e2e-resolver",
		"resolution_note": "acknowledged, tracked separately",
	})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

// Test 5: проверка мержабельности не создает строку агрегата
func (suite *CriticalFlowsTestSuite) TestCheckMergeEligibilityDoesNotPersist() {
	prID := suite.createTestPR("eligibility-flow")

	resp, result := suite.postJSON("/api/pull-requests/"+prID+"/check-merge-eligibility", nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), true, result["can_merge"])

	resp, _ = suite.getJSON("/api/pull-requests/" + prID + "/merge-status")
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
}

// Test 6: базовые list-endpoints отвечают
func (suite *CriticalFlowsTestSuite) TestListEndpoints() {
	for _, path := range []string{"/api/repositories", "/api/pull-requests", "/health"} {
		resp, err := suite.client.Get(suite.baseURL + path)
		assert.NoError(suite.T(), err)
		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode, "GET %s", path)
		resp.Body.Close()
	}
}

func (suite *CriticalFlowsTestSuite) TestUnknownPullRequest() {
	resp, err := suite.client.Get(suite.baseURL + "/api/pull-requests/nonexistent")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, _ = suite.postJSON("/api/pull-requests/nonexistent/review", nil)
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
}

func TestCriticalFlowsTestSuite(t *testing.T) {
	suite.Run(t, new(CriticalFlowsTestSuite))
}
