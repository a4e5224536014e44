package checklist

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Task status constants
const (
	StatusTodo       = "todo"
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// DefaultPhase is the phase assigned to tasks extracted from plain text.
const DefaultPhase = "Tasks"

// ID identifies a task within a project. Server-assigned tasks carry numeric
// ids, text-derived tasks carry synthesized string ids; both arrive over the
// wire, so decoding accepts either shape.
type ID string

// UnmarshalJSON accepts JSON strings and numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// FromInt builds an ID from a numeric database id.
func FromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// Task is one unit of work in a project checklist.
type Task struct {
	ID                ID     `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Phase             string `json:"phase,omitempty"`
	PhaseOrder        int    `json:"phase_order"`
	TaskOrder         int    `json:"task_order"`
	EstimatedDuration string `json:"estimated_duration,omitempty"`
	Status            string `json:"status,omitempty"`
	Completed         bool   `json:"completed"`
}

// Done reports whether a task counts as completed for progress purposes.
// API tasks may signal completion through either the status or the completed
// field; either suffices.
func (t Task) Done() bool {
	return t.Completed || t.Status == StatusCompleted
}

// Override is a saved completion flag keyed by task id. The override store
// persists full task arrays; decoding into Override keeps only the fields
// reconciliation reads.
type Override struct {
	ID        ID   `json:"id"`
	Completed bool `json:"completed"`
}

// AsOverrides projects a task list down to its completion flags.
func AsOverrides(tasks []Task) []Override {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]Override, len(tasks))
	for i, t := range tasks {
		out[i] = Override{ID: t.ID, Completed: t.Completed}
	}
	return out
}
