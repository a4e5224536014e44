package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawan09032004/planwise/internal/checklist"
)

func TestClientSaveChecklist(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string][]checklist.Task
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok123")
	err := client.SaveChecklist(context.Background(), 7, []checklist.Task{{ID: "a", Completed: true}})
	require.NoError(t, err)

	assert.Equal(t, "/api/projects/7/save-tasks-progress", gotPath)
	assert.Equal(t, "Bearer tok123", gotAuth)
	require.Len(t, gotBody["tasks"], 1)
	assert.True(t, gotBody["tasks"][0].Completed)
}

func TestClientSaveChecklistClassifiesFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
		retry    bool
	}{
		{"not found", 404, ErrNotFound, false},
		{"forbidden", 403, ErrPermissionDenied, false},
		{"server error", 500, ErrServer, true},
		{"bad gateway", 502, ErrServer, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(server.URL, "")
			err := client.SaveChecklist(context.Background(), 1, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.retry, Retryable(err))
		})
	}
}

func TestClientSaveChecklistNoResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "")
	err := client.SaveChecklist(context.Background(), 1, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoResponse)
	assert.True(t, Retryable(err))
}

func TestClientFetchProjectDefaultsEmptyStrings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":3,"title":"Launch"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	payload, err := client.FetchProject(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Launch", payload.Title)
	assert.Equal(t, "", payload.RoadmapText)
	assert.Equal(t, "", payload.TasksChecklist)
}

func TestClientDownloadReportPDF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer server.Close()

	var buf bytes.Buffer
	client := NewClient(server.URL, "")
	require.NoError(t, client.DownloadReport(context.Background(), 3, &buf))
	assert.Contains(t, buf.String(), "%PDF")
}

func TestClientDownloadReportJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"roadmap missing"}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	client := NewClient(server.URL, "")
	err := client.DownloadReport(context.Background(), 3, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roadmap missing")
	assert.Zero(t, buf.Len())
}
