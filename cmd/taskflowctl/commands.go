package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ChandanM123456/TaskFlow/client"
	"github.com/ChandanM123456/TaskFlow/internal/model"
)

func runDashboard(apiURL string, out io.Writer) error {
	resp, err := http.Get(apiURL + "/v0/analytics/dashboard")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var dash model.DashboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&dash); err != nil {
		return err
	}

	fmt.Fprintf(out, "Completed: %d  Pending: %d\n", dash.Aggregation.Completed, dash.Aggregation.Pending)
	fmt.Fprintf(out, "Context switches today: %d\n", dash.Aggregation.ContextSwitchesToday)
	for user, ms := range dash.Aggregation.TimeByUser {
		fmt.Fprintf(out, "Time on task %-16s %s\n", user+":", time.Duration(ms)*time.Millisecond)
	}
	for _, h := range dash.Aggregation.OptimalHours {
		fmt.Fprintf(out, "Focus hour %02d:00  %s\n", h.Hour, time.Duration(h.TotalMs)*time.Millisecond)
	}
	if len(dash.Suggestions) == 0 {
		fmt.Fprintln(out, "No suggestions.")
		return nil
	}
	for _, s := range dash.Suggestions {
		fmt.Fprintf(out, "- %s\n", s)
	}
	return nil
}

func runEmit(apiURL, eventType, user, token string, out io.Writer) error {
	opts := []client.Option{
		client.WithoutScheduler(),
		client.WithStorePath(filepath.Join(os.TempDir(), "taskflowctl-telemetry.json")),
	}
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}
	tel, err := client.New(apiURL, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = tel.Close() }()

	if user != "" {
		tel.SetActor(user)
	}
	ev := tel.Record(eventType, map[string]interface{}{"source": "taskflowctl"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := tel.Flush(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "sent %s event %s (session %s)\n", ev.Type, ev.ID, ev.Session)
	return nil
}

func runEvents(apiURL, session, eventType string, limit int, out io.Writer) error {
	u, err := url.Parse(apiURL + "/v0/events")
	if err != nil {
		return err
	}
	q := u.Query()
	if session != "" {
		q.Set("session", session)
	}
	if eventType != "" {
		q.Set("type", eventType)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()

	resp, err := http.Get(u.String())
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var list model.ListEventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return err
	}
	for _, ev := range list.Events {
		fmt.Fprintf(out, "%s  %-14s %-10s session=%s\n", ev.Timestamp.Format(time.RFC3339), ev.Type, ev.User, ev.Session)
	}
	fmt.Fprintf(out, "%d event(s)\n", list.Count)
	return nil
}

func runHealth(apiURL string, out io.Writer) error {
	resp, err := http.Get(apiURL + "/v0/health")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, err = io.Copy(out, resp.Body)
	return err
}
