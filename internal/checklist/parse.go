package checklist

import (
	"fmt"
	"strings"
)

// ParseText extracts tasks from a free-text bullet list, such as an
// AI-generated roadmap or a legacy plain-text checklist. A line is a task if
// it starts with "- " or "* " after trimming; everything else is ignored.
// Content before the first colon becomes the title, the remainder the
// description. The function is total: any input, including empty text,
// yields a (possibly empty) task list.
func ParseText(text string) []Task {
	if text == "" {
		return nil
	}

	var tasks []Task
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "- ") && !strings.HasPrefix(trimmed, "* ") {
			continue
		}

		content := strings.TrimSpace(trimmed[2:])
		if content == "" {
			continue
		}

		title := content
		description := ""
		if idx := strings.Index(content, ":"); idx >= 0 {
			title = strings.TrimSpace(content[:idx])
			description = strings.TrimSpace(content[idx+1:])
		}
		if title == "" {
			title = fmt.Sprintf("Task %d", len(tasks)+1)
		}

		tasks = append(tasks, Task{
			// Line index keeps ids stable across re-parses of the same text.
			ID:          ID(fmt.Sprintf("text_task_%d", i)),
			Title:       title,
			Description: description,
			Phase:       DefaultPhase,
			PhaseOrder:  1,
			TaskOrder:   len(tasks),
		})
	}
	return tasks
}
