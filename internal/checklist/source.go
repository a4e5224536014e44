package checklist

import (
	"encoding/json"
	"strings"
)

// SourceKind tags the representation a project's checklist arrived in.
type SourceKind int

const (
	// SourceEmpty means the project has no checklist data at all.
	SourceEmpty SourceKind = iota
	// SourceStructured means tasks_checklist held a JSON task array.
	SourceStructured
	// SourceLegacyText means tasks_checklist held plain bullet text.
	SourceLegacyText
)

func (k SourceKind) String() string {
	switch k {
	case SourceStructured:
		return "structured"
	case SourceLegacyText:
		return "legacy_text"
	default:
		return "empty"
	}
}

// Source is a project checklist resolved into exactly one representation.
// Downstream code matches on Kind instead of re-probing the raw field.
type Source struct {
	Kind  SourceKind
	Tasks []Task // set when Kind == SourceStructured
	Text  string // set when Kind == SourceLegacyText
}

// Resolve classifies a raw tasks_checklist value. JSON task arrays become
// Structured; anything else containing bullet lines becomes LegacyText;
// the rest is Empty. Malformed JSON is not an error, it just falls through
// to the text path.
func Resolve(raw string) Source {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Source{Kind: SourceEmpty}
	}

	if strings.HasPrefix(trimmed, "[") {
		var tasks []Task
		if err := json.Unmarshal([]byte(trimmed), &tasks); err == nil {
			if len(tasks) == 0 {
				return Source{Kind: SourceEmpty}
			}
			return Source{Kind: SourceStructured, Tasks: tasks}
		}
	}

	if len(ParseText(raw)) > 0 {
		return Source{Kind: SourceLegacyText, Text: raw}
	}
	return Source{Kind: SourceEmpty}
}

// ResolvedTasks returns the task list for display: structured tasks as-is,
// legacy text parsed on demand, nil when empty.
func (s Source) ResolvedTasks() []Task {
	switch s.Kind {
	case SourceStructured:
		return s.Tasks
	case SourceLegacyText:
		return ParseText(s.Text)
	default:
		return nil
	}
}
