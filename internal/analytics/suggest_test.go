package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ChandanM123456/TaskFlow/internal/model"
)

func emptyAgg() model.AggregationResult {
	return model.AggregationResult{
		StatusCounts:    map[string]int{},
		TimeByUser:      map[string]int64{},
		ThroughputByDay: map[string]int{},
		OptimalHours:    []model.HourFocus{},
	}
}

func TestSuggest_NothingFires(t *testing.T) {
	require.Empty(t, Suggest(testNow, emptyAgg(), nil))
}

func TestSuggest_LowCompletionRateNeedsEnoughTasks(t *testing.T) {
	agg := emptyAgg()
	agg.Completed = 4
	agg.Pending = 7 // total 11, rate ~36%
	out := Suggest(testNow, agg, nil)
	require.Len(t, out, 1)
	require.Contains(t, out[0], "Completion rate is below 50%")

	// Same ratio below the size threshold stays quiet.
	small := emptyAgg()
	small.Completed = 2
	small.Pending = 3 // total 5
	require.Empty(t, Suggest(testNow, small, nil))

	// Exactly 50% does not fire.
	half := emptyAgg()
	half.Completed = 6
	half.Pending = 6
	require.Empty(t, Suggest(testNow, half, nil))
}

func TestSuggest_OverdueCountsNonTerminalOnly(t *testing.T) {
	past := testNow.Add(-48 * time.Hour)
	future := testNow.Add(48 * time.Hour)
	tasks := []model.Task{
		{TaskID: "a", Status: model.StatusToDo, Deadline: &past},
		{TaskID: "b", Status: model.StatusInProgress, Deadline: &past},
		{TaskID: "c", Status: model.StatusDone, Deadline: &past},   // finished, not overdue
		{TaskID: "d", Status: model.StatusPassed, Deadline: &past}, // finished, not overdue
		{TaskID: "e", Status: model.StatusToDo, Deadline: &future},
		{TaskID: "f", Status: model.StatusToDo},
	}

	out := Suggest(testNow, emptyAgg(), tasks)
	require.Len(t, out, 1)
	require.Contains(t, out[0], "2 task(s) are past their deadline")
}

func TestSuggest_ContextSwitchThreshold(t *testing.T) {
	agg := emptyAgg()
	agg.ContextSwitchesToday = 15
	require.Empty(t, Suggest(testNow, agg, nil), "threshold is strict")

	agg.ContextSwitchesToday = 16
	out := Suggest(testNow, agg, nil)
	require.Len(t, out, 1)
	require.Contains(t, out[0], "High context switching today (16 switches)")
}

func TestSuggest_FocusWindowNamesTopTwoHours(t *testing.T) {
	agg := emptyAgg()
	agg.OptimalHours = []model.HourFocus{
		{Hour: 14, TotalMs: 9000},
		{Hour: 9, TotalMs: 5000},
		{Hour: 20, TotalMs: 1000},
	}

	out := Suggest(testNow, agg, nil)
	require.Len(t, out, 1)
	require.Contains(t, out[0], "14:00-15:00 and 09:00-10:00")
	require.NotContains(t, out[0], "20:00")

	single := emptyAgg()
	single.OptimalHours = []model.HourFocus{{Hour: 23, TotalMs: 100}}
	out = Suggest(testNow, single, nil)
	require.Len(t, out, 1)
	require.Contains(t, out[0], "23:00-00:00")
}

func TestSuggest_ThroughputDipNeedsThreeDays(t *testing.T) {
	agg := emptyAgg()
	agg.ThroughputByDay = map[string]int{"2026-08-24": 5, "2026-08-25": 2}
	require.Empty(t, Suggest(testNow, agg, nil), "two days of data is not enough")

	agg.ThroughputByDay["2026-08-23"] = 1
	out := Suggest(testNow, agg, nil)
	require.Len(t, out, 1)
	require.Contains(t, out[0], "2 task(s) completed on 2026-08-25 vs 5 on 2026-08-24")

	// Flat or rising series stays quiet.
	agg.ThroughputByDay["2026-08-25"] = 5
	require.Empty(t, Suggest(testNow, agg, nil))
}

func TestSuggest_RuleOrderIsFixed(t *testing.T) {
	past := testNow.Add(-time.Hour)
	agg := emptyAgg()
	agg.Completed = 1
	agg.Pending = 11
	agg.ContextSwitchesToday = 30
	agg.OptimalHours = []model.HourFocus{{Hour: 10, TotalMs: 1000}}
	agg.ThroughputByDay = map[string]int{"2026-08-23": 3, "2026-08-24": 3, "2026-08-25": 1}
	tasks := []model.Task{{TaskID: "a", Status: model.StatusToDo, Deadline: &past}}

	out := Suggest(testNow, agg, tasks)
	require.Len(t, out, 5)
	for i, marker := range []string{
		"Completion rate",
		"past their deadline",
		"context switching",
		"productive hours",
		"throughput dipped",
	} {
		require.True(t, strings.Contains(out[i], marker), "rule %d out of order: %q", i+1, out[i])
	}
}
