package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pawan09032004/planwise/internal/checklist"
)

// Client talks to the Planwise REST API on behalf of a client session.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates an API client for the given server.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ProjectPayload is the slice of a project the checklist pipeline consumes.
// Missing roadmap/checklist fields decode as empty strings, never null.
type ProjectPayload struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Deadline         string           `json:"deadline"`
	OrganizationName string           `json:"organization_name"`
	RoadmapText      string           `json:"roadmap_text"`
	TasksChecklist   string           `json:"tasks_checklist"`
	Tasks            []checklist.Task `json:"tasks,omitempty"`
}

// FetchProject retrieves a project by id.
func (c *Client) FetchProject(ctx context.Context, projectID int64) (*ProjectPayload, error) {
	var payload ProjectPayload
	if err := c.getJSON(ctx, fmt.Sprintf("/api/projects/%d", projectID), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchTasks retrieves the task list stored server-side for a project.
func (c *Client) FetchTasks(ctx context.Context, projectID int64) ([]checklist.Task, error) {
	var tasks []checklist.Task
	if err := c.getJSON(ctx, fmt.Sprintf("/api/projects/%d/tasks", projectID), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveChecklist persists the full task list for a project. Failures are
// classified so the gateway can decide whether to retry.
func (c *Client) SaveChecklist(ctx context.Context, projectID int64, tasks []checklist.Task) error {
	body, err := json.Marshal(map[string]any{"tasks": tasks})
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	url := fmt.Sprintf("%s/api/projects/%d/save-tasks-progress", c.baseURL, projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode}
	}
	return nil
}

// DownloadReport fetches the project report, writing the PDF to w. The server
// answers with either a PDF stream or a JSON error payload; the content type
// decides which before any bytes reach the caller.
func (c *Client) DownloadReport(ctx context.Context, projectID int64, w io.Writer) error {
	url := fmt.Sprintf("%s/api/projects/%d/generate-report", c.baseURL, projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode == http.StatusOK && strings.Contains(contentType, "application/pdf") {
		if _, err := io.Copy(w, resp.Body); err != nil {
			return fmt.Errorf("failed to read report stream: %w", err)
		}
		return nil
	}

	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
		msg := apiErr.Error
		if msg == "" {
			msg = apiErr.Message
		}
		if msg != "" {
			return fmt.Errorf("report generation failed: %s", msg)
		}
	}
	return &StatusError{Status: resp.StatusCode}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")
}
