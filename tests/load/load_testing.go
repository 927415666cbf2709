package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	targetHost = "http://localhost:8081" // e2e окружение
	rps        = 5
	duration   = 3 * time.Minute
)

type RepositoryCreateRequest struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`
	Owner    string `json:"owner"`
}

type PRCreateRequest struct {
	RepositoryID string `json:"repository_id"`
	Number       int    `json:"number"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	BaseBranch   string `json:"base_branch"`
	HeadBranch   string `json:"head_branch"`
}

type FileCreateRequest struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

var (
	repos []string
	prs   []string
	httpc = &http.Client{Timeout: 10 * time.Second}
)

func postJSON(url string, body any) (int, map[string]interface{}, error) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded, nil
}

// Seed
func seedData() error {
	log.Println("Seeding: creating repositories...")

	for r := 1; r <= 10; r++ {
		status, repo, err := postJSON(targetHost+"/api/repositories", RepositoryCreateRequest{
			FullName: fmt.Sprintf("load/repo-%02d", r),
			Name:     fmt.Sprintf("repo-%02d", r),
			Owner:    "load",
		})
		if err != nil {
			return err
		}
		if status >= 400 {
			log.Printf("WARN repositories returned %d\n", status)
			continue
		}
		repos = append(repos, repo["id"].(string))
		time.Sleep(20 * time.Millisecond)
	}

	log.Println("Seeding: creating PRs with files...")

	prCounter := 1
	for _, repoID := range repos {
		for p := 1; p <= 20; p++ {
			status, pr, err := postJSON(targetHost+"/api/pull-requests", PRCreateRequest{
				RepositoryID: repoID,
				Number:       p,
				Title:        fmt.Sprintf("Load PR %d", prCounter),
				Author:       fmt.Sprintf("load-author-%d", p%5),
				BaseBranch:   "main",
				HeadBranch:   fmt.Sprintf("feature/load-%d", prCounter),
			})
			if err != nil {
				return err
			}
			if status >= 400 {
				log.Printf("WARN pull-requests returned %d\n", status)
				continue
			}

			prID := pr["id"].(string)
			status, _, err = postJSON(targetHost+"/api/pull-requests/"+prID+"/files", FileCreateRequest{
				Filename:  "main.go",
				Status:    "modified",
				Additions: 10,
				Deletions: 2,
			})
			if err != nil {
				return err
			}
			if status >= 400 {
				log.Printf("WARN files returned %d\n", status)
			}

			prs = append(prs, prID)
			prCounter++
			time.Sleep(15 * time.Millisecond)
		}
	}

	log.Printf("Seed completed: repos=%d prs=%d\n", len(repos), len(prs))
	return nil
}

// Targeter
func makeTargeter() vegeta.Targeter {
	return func(t *vegeta.Target) error {
		r := rand.Float64()

		// 40% GET pull-requests списком
		if r < 0.40 {
			repoID := repos[rand.Intn(len(repos))]
			t.Method = http.MethodGet
			t.URL = fmt.Sprintf("%s/api/pull-requests?repository_id=%s", targetHost, repoID)
			t.Body = nil
			t.Header = map[string][]string{"Accept": {"application/json"}}
			return nil
		}

		// 30% GET merge-status (404 для неоцененных PR — валидный ответ)
		if r < 0.70 {
			pr := prs[rand.Intn(len(prs))]
			t.Method = http.MethodGet
			t.URL = fmt.Sprintf("%s/api/pull-requests/%s/merge-status", targetHost, pr)
			t.Body = nil
			t.Header = map[string][]string{"Accept": {"application/json"}}
			return nil
		}

		// 20% GET unresolved-comments
		if r < 0.90 {
			pr := prs[rand.Intn(len(prs))]
			t.Method = http.MethodGet
			t.URL = fmt.Sprintf("%s/api/pull-requests/%s/unresolved-comments", targetHost, pr)
			t.Body = nil
			t.Header = map[string][]string{"Accept": {"application/json"}}
			return nil
		}

		// 7% POST check-merge-eligibility (read-only пересчет)
		if r < 0.97 {
			pr := prs[rand.Intn(len(prs))]
			t.Method = http.MethodPost
			t.URL = fmt.Sprintf("%s/api/pull-requests/%s/check-merge-eligibility", targetHost, pr)
			t.Body = nil
			t.Header = map[string][]string{"Content-Type": {"application/json"}}
			return nil
		}

		// 3% POST pull-requests
		repoID := repos[rand.Intn(len(repos))]
		body, _ := json.Marshal(PRCreateRequest{
			RepositoryID: repoID,
			Number:       int(time.Now().UnixNano() % 1000000),
			Title:        "Load PR",
			Author:       "load-author",
			BaseBranch:   "main",
			HeadBranch:   fmt.Sprintf("feature/load-%d", time.Now().UnixNano()),
		})
		t.Method = http.MethodPost
		t.URL = targetHost + "/api/pull-requests"
		t.Body = body
		t.Header = map[string][]string{"Content-Type": {"application/json"}}
		return nil
	}
}

// Attack
func runAttack() {
	rate := vegeta.Rate{Freq: rps, Per: time.Second}
	attacker := vegeta.NewAttacker()
	targeter := makeTargeter()

	var metrics vegeta.Metrics

	log.Printf("Starting attack: %s for %s", targetHost, duration)
	for res := range attacker.Attack(targeter, rate, duration, "load-test") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("=== Results ===")
	fmt.Printf("Requests: %d\n", metrics.Requests)
	fmt.Printf("Success rate: %.4f%%\n", metrics.Success*100)
	fmt.Printf("Latency mean: %s\n", metrics.Latencies.Mean)
	fmt.Printf("Latency P95: %s\n", metrics.Latencies.P95)
	fmt.Printf("Latency P99: %s\n", metrics.Latencies.P99)
}

func main() {
	rand.Seed(time.Now().UnixNano())

	if err := seedData(); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	runAttack()
}
