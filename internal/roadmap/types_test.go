package roadmap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhases(t *testing.T) {
	structured := `Here is your roadmap:
{
    "phases": [
        {
            "name": "Planning",
            "description": "Requirements and design",
            "tasks": [
                {"title": "Gather requirements", "description": "Interview stakeholders", "estimated_duration": "3 days"}
            ]
        },
        {
            "name": "Development",
            "description": "Build it",
            "tasks": [
                {"title": "Implement API", "description": "REST endpoints", "estimated_duration": "10 days"}
            ]
        }
    ]
}`

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"structured answer", structured, 2},
		{"plain prose", "Phase 1: Setup\nPhase 2: Build", 0},
		{"malformed json", `{"phases": [{}`, 0},
		{"object without phases", `{"plan": "do things"}`, 0},
		{"empty phase list", `{"phases": []}`, 0},
		{"nameless phase", `{"phases": [{"description": "anonymous"}]}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phases := ParsePhases(tt.content)
			assert.Len(t, phases, tt.want)
		})
	}

	phases := ParsePhases(structured)
	require.Len(t, phases, 2)
	assert.Equal(t, "Planning", phases[0].Name)
	require.Len(t, phases[0].Tasks, 1)
	assert.Equal(t, "Gather requirements", phases[0].Tasks[0].Title)
	assert.Equal(t, "3 days", phases[0].Tasks[0].EstimatedDuration)
}

func TestGeneratePopulatesPhasesFromStructuredAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"text":"{\"phases\":[{\"name\":\"Planning\",\"description\":\"d\",\"tasks\":[]}]}"}]}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Generate(context.Background(), Request{Title: "Test"})
	require.NoError(t, err)
	require.Len(t, result.Phases, 1)
	assert.Equal(t, "Planning", result.Phases[0].Name)
	assert.NotEmpty(t, result.Content)
}

func TestGenerateProseAnswerStaysContentOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"text":"Phase 1: Setup"}]}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Generate(context.Background(), Request{Title: "Test"})
	require.NoError(t, err)
	assert.Empty(t, result.Phases)
	assert.Equal(t, "Phase 1: Setup", result.Content)
}
