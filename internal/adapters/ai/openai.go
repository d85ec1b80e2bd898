package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dsokolov/newslens/internal/adapters/config"
	"github.com/dsokolov/newslens/pkg/logger"
)

const systemPrompt = `You are a financial news sentiment analyst. ` +
	`Read the article and respond ONLY with a JSON object, no prose. ` +
	`The JSON must have keys: polarity ("bullish"|"bearish"|"neutral"), ` +
	`magnitude (0-1, how strongly this news is likely to move the stock), ` +
	`event_tags (list of short strings like ["earnings","guidance_cut","acquisition"]), ` +
	`reasoning (short string).`

// OpenAIAnalyzer calls an OpenAI-compatible chat completions API
type OpenAIAnalyzer struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIAnalyzer creates new OpenAI-compatible analyzer
func NewOpenAIAnalyzer(cfg *config.AIConfig) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (o *OpenAIAnalyzer) GetName() string {
	return "openai"
}

// Analyze runs one model call over the prompt and decodes the result
func (o *OpenAIAnalyzer) Analyze(ctx context.Context, prompt string) (*Analysis, error) {
	reqBody := map[string]interface{}{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.2,
		"max_tokens":  500,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.apiKey))

	startTime := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	content := result.Choices[0].Message.Content

	logger.Debug("model response",
		zap.Duration("latency", time.Since(startTime)),
		zap.String("response", content),
	)

	return parseAnalysis(content)
}

// parseAnalysis decodes the model output into an Analysis
func parseAnalysis(content string) (*Analysis, error) {
	jsonStr := extractJSON(content)

	var analysis Analysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		return nil, fmt.Errorf("malformed model output: %w (content: %s)", err, jsonStr)
	}

	return &analysis, nil
}

// extractJSON strips markdown code fences and surrounding prose
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	// Fall back to the outermost braces
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}

	return content
}
