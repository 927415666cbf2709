package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pr-review-dashboard/internal/domain"
)

const geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta/models"

const systemPrompt = "You are an expert code reviewer. Analyze the provided pull request and respond with JSON only. Be thorough but constructive in your feedback."

// GeminiAnalyzer реализует domain.ReviewAnalyzer поверх Gemini API.
type GeminiAnalyzer struct {
	apiKey string
	model  string
	client *http.Client
}

// NewGeminiAnalyzer создает новый экземпляр GeminiAnalyzer.
func NewGeminiAnalyzer(apiKey, model string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiAnalyzer{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Analyze отправляет диффы PR на анализ и возвращает валидированный результат.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, title, description string, files []*domain.PrFile) (*domain.CodeReviewAnalysis, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiAPIURL, g.model, g.apiKey)

	body := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: buildPrompt(title, description, files)}},
			},
		},
		GenerationConfig: &geminiGenConfig{
			ResponseMimeType: "application/json",
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var content string
	err = retryWithBackoff(ctx, 3, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		httpResp, err := g.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if httpResp.StatusCode == http.StatusTooManyRequests {
			return &rateLimitError{}
		}
		if httpResp.StatusCode != http.StatusOK {
			return fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(respBody))
		}

		var result geminiResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}

		if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
			return fmt.Errorf("no content in response")
		}

		content = ""
		for _, part := range result.Candidates[0].Content.Parts {
			content += part.Text
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalyzerUnavailable, err)
	}

	return ParseAnalysis([]byte(content))
}

func buildPrompt(title, description string, files []*domain.PrFile) string {
	var sb strings.Builder

	sb.WriteString("You are an expert code reviewer analyzing a pull request. Please provide a comprehensive review in JSON format.\n\n")
	sb.WriteString("Pull Request Details:\n")
	fmt.Fprintf(&sb, "Title: %s\n", title)
	fmt.Fprintf(&sb, "Description: %s\n\n", description)
	sb.WriteString("Files Changed:\n")

	for _, f := range files {
		patch := ""
		if f.Patch != nil {
			patch = *f.Patch
		}
		fmt.Fprintf(&sb, "\nFile: %s (%s)\n", f.Filename, f.Status)
		fmt.Fprintf(&sb, "Additions: +%d, Deletions: -%d\n", f.Additions, f.Deletions)
		fmt.Fprintf(&sb, "Changes:\n%s\n", patch)
	}

	sb.WriteString(`
Please analyze this pull request and respond with JSON in this exact format:
{
  "overallRating": "approved" | "changes_requested" | "commented",
  "codeQualityScore": number (1-100),
  "testCoverage": number (0-100, estimate percentage),
  "securityIssues": number (count of security issues found),
  "performanceIssues": number (count of performance issues found),
  "summary": "string (2-3 sentences summarizing the review)",
  "comments": [
    {
      "filename": "string",
      "lineNumber": number (if applicable),
      "commentType": "security" | "enhancement" | "bug" | "style",
      "severity": "low" | "medium" | "high" | "critical",
      "message": "string (detailed explanation)",
      "suggestion": "string (optional improvement suggestion)"
    }
  ],
  "insights": {
    "category": "string",
    "riskLevel": "low" | "medium" | "high",
    "changeType": "string",
    "impactScore": number (1-100),
    "reviewTime": number (estimated minutes),
    "educationalValue": number (1-100)
  },
  "contextAnalysis": [
    {
      "filename": "string",
      "dependencies": ["string"],
      "complexity": number (1-100),
      "maintainabilityIndex": number (1-100),
      "techDebtScore": number (1-100)
    }
  ],
  "learningPatterns": [
    {
      "patternType": "string",
      "pattern": "string",
      "confidence": number (0-1)
    }
  ]
}

Focus on:
- Security vulnerabilities
- Performance issues
- Code quality and maintainability
- Best practices
- Potential bugs
- Testing coverage
- Documentation`)

	return sb.String()
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
	MaxOutputTokens  int      `json:"maxOutputTokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}
