package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ChandanM123456/TaskFlow/internal/model"
)

// Thresholds for the suggestion rules.
const (
	minTasksForCompletionRule = 10
	maxContextSwitchesPerDay  = 15
	minDaysForThroughputRule  = 3
)

// Suggest evaluates the advisory rules over one aggregation result. Rules run
// independently in a fixed order; each contributes zero or one string and no
// rule suppresses another. An empty slice means nothing fires.
func Suggest(now time.Time, agg model.AggregationResult, tasks []model.Task) []string {
	var out []string

	// 1. Low completion rate on a board large enough to matter.
	total := agg.Completed + agg.Pending
	if total > minTasksForCompletionRule && agg.Completed*2 < total {
		out = append(out, fmt.Sprintf(
			"Completion rate is below 50%% (%d of %d tasks done). Consider splitting large tasks into smaller ones.",
			agg.Completed, total))
	}

	// 2. Overdue items.
	overdue := 0
	for _, task := range tasks {
		if task.Deadline != nil && task.Deadline.Before(now) && !model.IsTerminalSuccess(task.Status) {
			overdue++
		}
	}
	if overdue > 0 {
		out = append(out, fmt.Sprintf(
			"%d task(s) are past their deadline. Prioritize or reschedule them.", overdue))
	}

	// 3. High context switching today.
	if agg.ContextSwitchesToday > maxContextSwitchesPerDay {
		out = append(out, fmt.Sprintf(
			"High context switching today (%d switches). Batch similar work to protect focus.",
			agg.ContextSwitchesToday))
	}

	// 4. Focus window from the top optimal hours.
	if len(agg.OptimalHours) > 0 {
		top := agg.OptimalHours
		if len(top) > 2 {
			top = top[:2]
		}
		ranges := make([]string, len(top))
		for i, h := range top {
			ranges[i] = hourRange(h.Hour)
		}
		out = append(out, fmt.Sprintf(
			"Most productive hours: %s. Schedule deep work in these windows.",
			strings.Join(ranges, " and ")))
	}

	// 5. Throughput dip across the last two recorded days.
	if len(agg.ThroughputByDay) >= minDaysForThroughputRule {
		days := make([]string, 0, len(agg.ThroughputByDay))
		for day := range agg.ThroughputByDay {
			days = append(days, day)
		}
		sort.Strings(days)
		prev, last := days[len(days)-2], days[len(days)-1]
		if agg.ThroughputByDay[last] < agg.ThroughputByDay[prev] {
			out = append(out, fmt.Sprintf(
				"Daily throughput dipped: %d task(s) completed on %s vs %d on %s.",
				agg.ThroughputByDay[last], last, agg.ThroughputByDay[prev], prev))
		}
	}

	return out
}

func hourRange(hour int) string {
	return fmt.Sprintf("%02d:00-%02d:00", hour, (hour+1)%24)
}
