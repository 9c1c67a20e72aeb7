// Package snapshot pulls the current task and employee lists from the
// TaskFlow CRUD API. The aggregation pass treats these as an externally owned
// snapshot; this client only reads.
package snapshot

import (
	"context"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"github.com/ChandanM123456/TaskFlow/internal/model"
)

const (
	tasksPath     = "/api/tasks/"
	employeesPath = "/api/tasks/employees/"

	maxFetchRetries = 3
)

// Client fetches snapshots over HTTP. Fetches are read-only and idempotent,
// so unlike telemetry flushes they retry with exponential backoff before
// giving up.
type Client struct {
	http *resty.Client
}

// New builds a snapshot client for the TaskFlow API at baseURL. token is the
// service credential; empty means unauthenticated.
func New(baseURL, token string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c}
}

// FetchTasks returns the current task list.
func (c *Client) FetchTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.getJSON(ctx, tasksPath, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FetchEmployees returns the current employee list with per-employee task
// counts.
func (c *Client) FetchEmployees(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	if err := c.getJSON(ctx, employeesPath, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	op := func() error {
		resp, err := c.http.R().SetContext(ctx).SetResult(out).Get(path)
		if err != nil {
			return err
		}
		if resp.IsError() {
			err := fmt.Errorf("task api returned status %d for %s", resp.StatusCode(), path)
			if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
				// Auth and request errors will not heal on retry.
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 100 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, maxFetchRetries), ctx)
	return backoff.Retry(op, policy)
}
