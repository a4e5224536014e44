package report

import (
	"math"
	"time"
)

// Project schedule statuses shown in the report.
const (
	StatusOnTrack  = "On Track"
	StatusBehind   = "Behind Schedule"
	StatusAhead    = "Ahead of Schedule"
	StatusOverdue  = "Overdue"
	StatusComplete = "Completed"
)

// Timeline compares time-based expected progress with actual progress.
type Timeline struct {
	Known            bool
	DaysElapsed      int
	DaysRemaining    int
	TotalDuration    int
	ExpectedProgress float64
	Status           string
}

// ComputeTimeline derives schedule metrics from the project dates. Without
// both a creation date and a deadline the timeline is unknown and the status
// defaults to on track.
func ComputeTimeline(createdAt, deadline, now time.Time, progressPercent float64) Timeline {
	timeline := Timeline{Status: StatusOnTrack}
	if createdAt.IsZero() || deadline.IsZero() {
		return timeline
	}

	timeline.Known = true
	timeline.DaysElapsed = clampDays(now.Sub(createdAt))
	timeline.DaysRemaining = clampDays(deadline.Sub(now))

	totalDuration := int(deadline.Sub(createdAt).Hours() / 24)
	if totalDuration < 1 {
		totalDuration = 1
	}
	timeline.TotalDuration = totalDuration
	timeline.ExpectedProgress = float64(timeline.DaysElapsed) / float64(totalDuration) * 100

	if timeline.DaysRemaining > 0 {
		// A ten point band around the expected progress counts as on track.
		if progressPercent < timeline.ExpectedProgress-10 {
			timeline.Status = StatusBehind
		} else if progressPercent > timeline.ExpectedProgress+10 {
			timeline.Status = StatusAhead
		}
	} else if progressPercent < 100 {
		timeline.Status = StatusOverdue
	} else {
		timeline.Status = StatusComplete
	}
	return timeline
}

func clampDays(d time.Duration) int {
	days := int(d.Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// CompletionDelta estimates, from the current completion rate, how many days
// past the deadline the project will need. Negative values mean an early
// finish.
func (t Timeline) CompletionDelta(progressPercent float64) (int, bool) {
	if !t.Known || t.DaysRemaining <= 0 || progressPercent <= 0 {
		return 0, false
	}
	totalEstimated := float64(t.DaysElapsed) * (100 / progressPercent)
	delta := totalEstimated - float64(t.DaysElapsed) - float64(t.DaysRemaining)
	return int(math.Round(delta)), true
}
