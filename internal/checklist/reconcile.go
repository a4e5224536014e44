package checklist

// Reconcile merges a freshly fetched task list with saved completion
// overrides. The fresh list defines membership and order; an override with a
// matching id replaces only the completed flag. Overrides whose ids no
// longer appear in the fresh list are dropped.
func Reconcile(fresh []Task, overrides []Override) []Task {
	if len(fresh) == 0 {
		return nil
	}
	if len(overrides) == 0 {
		out := make([]Task, len(fresh))
		copy(out, fresh)
		return out
	}

	completed := make(map[ID]bool, len(overrides))
	for _, o := range overrides {
		completed[o.ID] = o.Completed
	}

	out := make([]Task, len(fresh))
	for i, t := range fresh {
		if c, ok := completed[t.ID]; ok {
			t.Completed = c
		}
		out[i] = t
	}
	return out
}

// Toggle flips the completed flag of the task with the given id, returning a
// new list. Unknown ids leave the list unchanged.
func Toggle(tasks []Task, id ID) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID == id {
			out[i].Completed = !out[i].Completed
			if out[i].Completed {
				out[i].Status = StatusCompleted
			} else {
				out[i].Status = StatusPending
			}
			break
		}
	}
	return out
}
