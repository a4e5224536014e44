package report

// Insights produces recommendation bullets from the task counts and
// timeline.
func Insights(data Data, timeline Timeline) []string {
	var insights []string

	if data.ProgressPercent < 50 && timeline.Known && timeline.DaysRemaining > 0 &&
		timeline.DaysRemaining < timeline.TotalDuration/3 {
		insights = append(insights, "The project is less than 50% complete with less than a third of the timeline remaining. Consider re-evaluating the scope or allocating additional resources.")
	}

	if data.ProgressPercent > 90 {
		insights = append(insights, "The project is nearing completion. Focus on final quality checks and documentation.")
	}

	if data.InProgressTasks > data.CompletedTasks+data.TodoTasks {
		insights = append(insights, "There are a large number of tasks in progress simultaneously. Consider focusing on completing some in-progress tasks before starting new ones.")
	}

	if data.TotalTasks == 0 {
		insights = append(insights, "No tasks have been created. Breaking down the project into specific tasks improves tracking and accountability.")
	}

	return insights
}
