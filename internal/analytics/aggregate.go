// Package analytics derives dashboard metrics and advisory suggestions from a
// task snapshot and the recorded event history. Everything here is a pure
// function of its inputs; results are recomputed on demand, never cached.
package analytics

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/ChandanM123456/TaskFlow/internal/model"
)

// AnonymousUser is the sentinel key for time recorded by events without an
// acting principal.
const AnonymousUser = "anonymous"

// contextSwitchTypes are the event types counted as attention switches.
var contextSwitchTypes = map[string]bool{
	model.EventNavSwitch: true,
	model.EventTaskMove:  true,
	model.EventCodeRun:   true,
}

const dayFormat = "2006-01-02"

// Aggregate computes the dashboard metrics for one task snapshot and event
// history. It is deterministic given its inputs (now supplies "today" and the
// reporting time zone) and mutates neither slice. Input anomalies degrade
// safely: unknown statuses count as pending, tasks without timestamps are
// skipped in the throughput series, and malformed time_spent payloads
// contribute nothing.
func Aggregate(now time.Time, tasks []model.Task, events []model.Event) model.AggregationResult {
	res := model.AggregationResult{
		StatusCounts:    map[string]int{},
		TimeByUser:      map[string]int64{},
		ThroughputByDay: map[string]int{},
		OptimalHours:    []model.HourFocus{},
	}

	loc := now.Location()
	today := now.In(loc).Format(dayFormat)

	for _, task := range tasks {
		res.StatusCounts[task.Status]++
		if !model.IsTerminalSuccess(task.Status) {
			continue
		}
		res.Completed++

		done := task.CreationTime
		if task.UpdateTime != nil {
			done = *task.UpdateTime
		}
		if done.IsZero() {
			continue
		}
		res.ThroughputByDay[done.In(loc).Format(dayFormat)]++
	}
	res.Pending = len(tasks) - res.Completed

	var hourTotals [24]int64
	for _, ev := range events {
		if contextSwitchTypes[ev.Type] && ev.Timestamp.In(loc).Format(dayFormat) == today {
			res.ContextSwitchesToday++
		}
		if ev.Type != model.EventTimeSpent {
			continue
		}
		ms := msField(ev.Data)
		if ms <= 0 {
			continue
		}
		user := ev.User
		if user == "" {
			user = AnonymousUser
		}
		res.TimeByUser[user] += ms
		hourTotals[ev.Timestamp.In(loc).Hour()] += ms
	}

	res.OptimalHours = topFocusHours(hourTotals, 3)
	return res
}

// topFocusHours returns the n busiest hour buckets by total focus time,
// descending. The stable sort over ascending bucket order breaks ties in
// favor of the lower hour.
func topFocusHours(totals [24]int64, n int) []model.HourFocus {
	ranked := make([]model.HourFocus, 0, len(totals))
	for hour, total := range totals {
		if total > 0 {
			ranked = append(ranked, model.HourFocus{Hour: hour, TotalMs: total})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].TotalMs > ranked[j].TotalMs })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// msField reads the "ms" key from an open event payload, tolerating the
// numeric types a JSON round trip may produce.
func msField(data map[string]interface{}) int64 {
	v, ok := data["ms"]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
	}
	return 0
}
