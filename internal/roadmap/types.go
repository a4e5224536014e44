package roadmap

import (
	"encoding/json"
	"strings"
)

// Request carries the project details a roadmap is generated from.
type Request struct {
	Title            string
	Description      string
	Deadline         string
	Priority         string
	ProblemStatement string
	Progress         string
}

// Roadmap is the generation result. Content is always set; Phases is only
// populated when the model answered with the structured format.
type Roadmap struct {
	Content string  `json:"content"`
	Phases  []Phase `json:"phases,omitempty"`
}

// Phase is one stage of a structured roadmap.
type Phase struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Tasks       []PhaseTask `json:"tasks"`
}

// PhaseTask is one task inside a roadmap phase.
type PhaseTask struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	EstimatedDuration string `json:"estimated_duration"`
}

// ParsePhases extracts the structured phase list when the model followed the
// JSON format the prompt asks for. The object may be embedded in surrounding
// prose; anything that does not decode into named phases returns nil and the
// roadmap stays content-only.
func ParsePhases(content string) []Phase {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil
	}

	var parsed struct {
		Phases []Phase `json:"phases"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return nil
	}
	for _, phase := range parsed.Phases {
		if phase.Name == "" {
			return nil
		}
	}
	if len(parsed.Phases) == 0 {
		return nil
	}
	return parsed.Phases
}
