package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
		want  int
	}{
		{"empty", nil, 0},
		{"half", []Task{{Completed: true}, {}, {}, {Completed: true}}, 50},
		{"one of three rounds down", []Task{{Completed: true}, {}, {}}, 33},
		{"two of three rounds up", []Task{{Completed: true}, {Completed: true}, {}}, 67},
		{"all done", []Task{{Completed: true}}, 100},
		{"none done", []Task{{}, {}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.tasks))
		})
	}
}

func TestCalculateProgressPrecedence(t *testing.T) {
	reconciled := []Task{{ID: "a", Completed: true}, {ID: "b"}}
	structured := Source{Kind: SourceStructured, Tasks: []Task{
		{ID: "x", Completed: true}, {ID: "y", Completed: true}, {ID: "z", Completed: true},
	}}
	legacy := Source{Kind: SourceLegacyText, Text: "- pending one\n- pending two"}
	apiTasks := []Task{{ID: "1", Status: StatusCompleted}, {ID: "2", Status: StatusTodo}, {ID: "3"}, {ID: "4"}}

	// Reconciled list beats everything else.
	assert.Equal(t, 50, CalculateProgress(reconciled, structured, apiTasks))

	// Structured checklist beats API tasks.
	assert.Equal(t, 100, CalculateProgress(nil, structured, apiTasks))

	// API tasks count either completion signal.
	assert.Equal(t, 25, CalculateProgress(nil, Source{Kind: SourceEmpty}, apiTasks))

	// Legacy text has visible tasks but no knowable completion state.
	assert.Equal(t, 0, CalculateProgress(nil, legacy, nil))

	// Nothing at all.
	assert.Equal(t, 0, CalculateProgress(nil, Source{Kind: SourceEmpty}, nil))
}

func TestCalculateProgressAPITaskSignals(t *testing.T) {
	// status and completed are independent signals; either marks the task done.
	apiTasks := []Task{
		{ID: "1", Status: StatusCompleted},
		{ID: "2", Completed: true},
		{ID: "3", Status: StatusInProgress},
		{ID: "4"},
	}
	assert.Equal(t, 50, CalculateProgress(nil, Source{Kind: SourceEmpty}, apiTasks))
}

func TestPercentCountsEitherCompletionSignal(t *testing.T) {
	// A saved checklist entry may carry status without the boolean; it still
	// counts, so the percentage agrees with per-task Done everywhere.
	tasks := []Task{
		{ID: "a", Status: StatusCompleted},
		{ID: "b", Completed: true},
		{ID: "c", Status: StatusInProgress},
		{ID: "d"},
	}
	assert.Equal(t, 50, Percent(tasks))

	structured := Source{Kind: SourceStructured, Tasks: tasks}
	assert.Equal(t, 50, CalculateProgress(nil, structured, nil))
}

func TestCalculateProgressIgnoresLegacyWhenStructuredPresent(t *testing.T) {
	structured := Source{Kind: SourceStructured, Tasks: []Task{{ID: "a", Completed: true}, {ID: "b"}}}
	assert.Equal(t, 50, CalculateProgress(nil, structured, nil))
}
