package model

import "time"

// Task statuses. "done" and "passed" are terminal-success; everything else
// counts as pending, including statuses this build does not know about yet.
const (
	StatusToDo       = "to-do"
	StatusInProgress = "in-progress"
	StatusInReview   = "in-review"
	StatusPassed     = "passed"
	StatusFailed     = "failed"
	StatusDone       = "done"
)

// IsTerminalSuccess reports whether a task status means "completed".
func IsTerminalSuccess(status string) bool {
	return status == StatusDone || status == StatusPassed
}

// Event is one observed user/system action. Type is an open vocabulary and
// Data an open mapping; semantic validation happens at the point of
// consumption, never in the envelope.
type Event struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Type      string                 `json:"type"`
	Session   string                 `json:"session"`
	User      string                 `json:"user,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Well-known event types consumed by the aggregation engine. Producers are
// free to emit types not listed here.
const (
	EventTimeSpent   = "time_spent"
	EventTaskMove    = "task_move"
	EventCodeRun     = "code_run"
	EventNavSwitch   = "nav_switch"
	EventLogin       = "login"
	EventSearchTasks = "search_tasks"
)

// Task is the snapshot shape served by the TaskFlow CRUD API.
type Task struct {
	TaskID       string     `json:"id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	Assignee     string     `json:"assignedTo"`
	CreationTime time.Time  `json:"createdAt"`
	UpdateTime   *time.Time `json:"updatedAt,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// Employee is the snapshot shape served by the TaskFlow employees endpoint.
type Employee struct {
	EmployeeID  string `json:"id"`
	DisplayName string `json:"username"`
	TaskCount   int    `json:"tasks"`
}

// HourFocus is one hour-of-day bucket with its cumulative focus time.
type HourFocus struct {
	Hour    int   `json:"hour"`
	TotalMs int64 `json:"totalMs"`
}

// AggregationResult holds the metrics derived from one pass over a task
// snapshot and the event history. It is recomputed on demand, never stored.
type AggregationResult struct {
	Completed            int              `json:"completed"`
	Pending              int              `json:"pending"`
	StatusCounts         map[string]int   `json:"statusCounts"`
	TimeByUser           map[string]int64 `json:"timeByUser"`
	ThroughputByDay      map[string]int   `json:"throughputByDay"`
	ContextSwitchesToday int              `json:"contextSwitchesToday"`
	OptimalHours         []HourFocus      `json:"optimalHours"`
}

// IngestRequest is the flush batch posted by telemetry clients.
type IngestRequest struct {
	Session string  `json:"session"`
	Events  []Event `json:"events"`
}

// IngestResponse acknowledges an accepted batch.
type IngestResponse struct {
	Accepted int `json:"accepted"`
}

// DashboardResponse is the payload of the analytics dashboard endpoint.
type DashboardResponse struct {
	Aggregation AggregationResult `json:"aggregation"`
	Suggestions []string          `json:"suggestions"`
	Employees   []Employee        `json:"employees"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// ListEventsRequest captures filters used when reading back ingested events.
type ListEventsRequest struct {
	Session string
	Type    string
	Since   *time.Time
	Limit   int
}

// ListEventsResponse is the payload of the event read-back endpoint.
type ListEventsResponse struct {
	Events []Event `json:"events"`
	Count  int     `json:"count"`
}
