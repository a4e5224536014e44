package checklist

import "math"

// Percent returns the completion percentage of a task list using
// round-half-up semantics. Completion follows Done, so either signal on a
// task counts, and every caller agrees on what "done" means. An empty list
// is 0.
func Percent(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Done() {
			done++
		}
	}
	return roundPercent(done, len(tasks))
}

// CalculateProgress derives a project's progress percentage following the
// source precedence chain: an override-merged reconciled list wins, then a
// structured checklist, then API tasks, then legacy plain text. Legacy text
// carries no completion state, so it always reads as 0 rather than guessing.
func CalculateProgress(reconciled []Task, src Source, apiTasks []Task) int {
	if len(reconciled) > 0 {
		return Percent(reconciled)
	}
	if src.Kind == SourceStructured && len(src.Tasks) > 0 {
		return Percent(src.Tasks)
	}
	return Percent(apiTasks)
}

func roundPercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
