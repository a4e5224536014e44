package roadmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	togetherBaseURL      = "https://api.together.xyz/inference"
	togetherModel        = "mistralai/Mixtral-8x7B-Instruct-v0.1"
	togetherMaxRetries   = 3
	togetherInitialDelay = 1 * time.Second
)

// Content inside a [Roadmap] section; everything up to the next bracketed
// section, an <end> marker or the end of the output.
var roadmapSection = regexp.MustCompile(`(?s)\[Roadmap\](.*?)(?:\[|<end>|\z)`)

// TogetherClient generates roadmaps through the Together AI inference API.
type TogetherClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type togetherRequest struct {
	Model             string  `json:"model"`
	Prompt            string  `json:"prompt"`
	MaxTokens         int     `json:"max_tokens"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	TopK              int     `json:"top_k"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

// togetherResponse covers both response shapes the inference API has used:
// choices at the top level and choices nested under output.
type togetherResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
	Output struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
	} `json:"output"`
	Text string `json:"text"`
}

type togetherError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewTogetherClient creates a new Together AI client
func NewTogetherClient(apiKey string) *TogetherClient {
	return &TogetherClient{
		apiKey:  apiKey,
		baseURL: togetherBaseURL,
		model:   togetherModel,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate builds the standard prompt for a request and produces a roadmap.
func (c *TogetherClient) Generate(ctx context.Context, req Request) (*Roadmap, error) {
	now := time.Now()
	analysis := Analyze(req, now)
	text, err := c.complete(ctx, BuildPrompt(req, analysis, now))
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(text)
	return &Roadmap{Content: content, Phases: ParsePhases(content)}, nil
}

// GenerateWithPrompt runs a caller-supplied prompt unchanged and extracts the
// [Roadmap] section from the answer when present.
func (c *TogetherClient) GenerateWithPrompt(ctx context.Context, prompt string) (*Roadmap, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("empty prompt")
	}

	// Nudge the model away from cached answers.
	prompt += fmt.Sprintf("\n\nNote: Generate a completely unique response for this specific request (request ID: %d).", time.Now().Unix())

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	content := ExtractRoadmapContent(text)
	return &Roadmap{Content: content, Phases: ParsePhases(content)}, nil
}

// ExtractRoadmapContent pulls the [Roadmap] section out of raw model output,
// or returns the whole output when no such section exists.
func ExtractRoadmapContent(text string) string {
	if match := roadmapSection.FindStringSubmatch(text); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(text)
}

func (c *TogetherClient) complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("TOGETHER_API_KEY not set")
	}

	req := togetherRequest{
		Model:             c.model,
		Prompt:            prompt,
		MaxTokens:         2048,
		Temperature:       0.6,
		TopP:              0.75,
		TopK:              45,
		RepetitionPenalty: 1.1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	// Retry with exponential backoff
	var lastErr error
	for attempt := 0; attempt < togetherMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * togetherInitialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr togetherError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
				lastErr = fmt.Errorf("Together API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("Together API error (%d): %s", resp.StatusCode, string(respBody))
			}

			// Retry on rate limit (429) or server errors (5xx)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var result togetherResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}

		text, err := extractText(result)
		if err != nil {
			return "", err
		}
		return text, nil
	}

	return "", fmt.Errorf("max retries (%d) exceeded: %w", togetherMaxRetries, lastErr)
}

// extractText handles the response shapes the inference API has used over
// time.
func extractText(result togetherResponse) (string, error) {
	if len(result.Choices) > 0 {
		return result.Choices[0].Text, nil
	}
	if len(result.Output.Choices) > 0 {
		return result.Output.Choices[0].Text, nil
	}
	if result.Text != "" {
		return result.Text, nil
	}
	return "", fmt.Errorf("could not find text field in API response")
}
