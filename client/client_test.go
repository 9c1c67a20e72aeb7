package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ChandanM123456/TaskFlow/internal/model"
)

func newTestClient(t *testing.T, sinkURL string, opts ...Option) *Telemetry {
	t.Helper()
	opts = append([]Option{
		WithStorePath(filepath.Join(t.TempDir(), "telemetry.json")),
		WithoutScheduler(),
	}, opts...)
	tel, err := New(sinkURL, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Close() })
	return tel
}

func TestNew_RejectsEmptyBaseURL(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestRecord_StampsEnvelope(t *testing.T) {
	tel := newTestClient(t, "http://unused.invalid")
	tel.SetActor("alice")

	ev := tel.Record(model.EventTimeSpent, map[string]interface{}{"taskId": "t1", "ms": 1500})

	require.NotEmpty(t, ev.ID)
	require.Equal(t, model.EventTimeSpent, ev.Type)
	require.Equal(t, "alice", ev.User)
	require.Equal(t, tel.Session(), ev.Session)
	require.WithinDuration(t, time.Now(), ev.Timestamp, time.Minute)
	require.Equal(t, 1, tel.BufferLen())

	tel.SetActor("")
	anon := tel.Record(model.EventNavSwitch, nil)
	require.Empty(t, anon.User)
}

func TestFlush_DrainsAcknowledgedPrefix(t *testing.T) {
	var gotBatch atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v0/events", r.URL.Path)
		var req model.IngestRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Session)
		gotBatch.Store(int64(len(req.Events)))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	tel := newTestClient(t, srv.URL, WithBatchSize(3))
	for i := 0; i < 5; i++ {
		tel.Record(model.EventNavSwitch, nil)
	}

	require.NoError(t, tel.Flush(context.Background()))
	require.EqualValues(t, 3, gotBatch.Load(), "flush ships at most one batch")
	require.Equal(t, 2, tel.BufferLen())

	require.NoError(t, tel.Flush(context.Background()))
	require.Equal(t, 0, tel.BufferLen())
	require.True(t, tel.IsEnabled())
}

func TestFlush_ConcurrentCyclesNeverDropEvents(t *testing.T) {
	var mu sync.Mutex
	delivered := make(map[string]int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req model.IngestRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		time.Sleep(20 * time.Millisecond) // keep the cycle in flight
		mu.Lock()
		for _, ev := range req.Events {
			delivered[ev.ID]++
		}
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	tel := newTestClient(t, srv.URL, WithBatchSize(3))
	var ids []string
	for i := 0; i < 6; i++ {
		ids = append(ids, tel.Record(model.EventNavSwitch, nil).ID)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, tel.Flush(context.Background()))
		}()
	}
	wg.Wait()

	require.Equal(t, 0, tel.BufferLen())
	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		require.Equal(t, 1, delivered[id], "every buffered event reaches the sink exactly once")
	}
}

func TestFlush_EmptyBufferIsNoop(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	tel := newTestClient(t, srv.URL)
	require.NoError(t, tel.Flush(context.Background()))
	require.EqualValues(t, 0, calls.Load())
}

func TestFlush_SinkFailureDisablesPermanently(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotImplemented)
	}))
	defer srv.Close()

	tel := newTestClient(t, srv.URL)
	tel.Record(model.EventTaskMove, map[string]interface{}{"taskId": "t1", "from": "to-do", "to": "done"})

	require.Error(t, tel.Flush(context.Background()))
	require.False(t, tel.IsEnabled())
	require.Equal(t, 1, tel.BufferLen(), "unacknowledged events stay buffered")

	// Subsequent flushes short-circuit without touching the network.
	err := tel.Flush(context.Background())
	require.True(t, IsDisabled(err))
	require.EqualValues(t, 1, calls.Load())

	// Recording continues while disabled.
	tel.Record(model.EventNavSwitch, nil)
	require.Equal(t, 2, tel.BufferLen())
}

func TestFlush_NetworkErrorDisables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable endpoint

	tel := newTestClient(t, srv.URL)
	tel.Record(model.EventCodeRun, nil)

	require.Error(t, tel.Flush(context.Background()))
	require.False(t, tel.IsEnabled())
}

func TestScheduler_PeriodicFlushAndDisablement(t *testing.T) {
	var calls atomic.Int64
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tel, err := New(srv.URL,
		WithStorePath(filepath.Join(t.TempDir(), "telemetry.json")),
		WithFlushInterval(10*time.Millisecond),
	)
	require.NoError(t, err)
	defer func() { _ = tel.Close() }()

	tel.Record(model.EventLogin, nil)
	require.Eventually(t, func() bool { return tel.BufferLen() == 0 }, time.Second, 5*time.Millisecond,
		"scheduler should drain the buffer")

	fail.Store(true)
	tel.Record(model.EventNavSwitch, nil)
	require.Eventually(t, func() bool { return !tel.IsEnabled() }, time.Second, 5*time.Millisecond,
		"scheduler should disable on sink failure")

	// No further network calls after disablement.
	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, settled, calls.Load())
}

func TestFlush_BearerCredentialAttached(t *testing.T) {
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tel := newTestClient(t, srv.URL)
	tel.Record(model.EventLogin, nil)
	require.NoError(t, tel.Flush(context.Background()))
	require.Equal(t, "", auth.Load().(string), "no header before login")

	tel.SetToken("jwt-123")
	tel.Record(model.EventNavSwitch, nil)
	require.NoError(t, tel.Flush(context.Background()))
	require.Equal(t, "Bearer jwt-123", auth.Load().(string))
}

func TestClose_Idempotent(t *testing.T) {
	tel := newTestClient(t, "http://unused.invalid")
	require.NoError(t, tel.Close())
	require.NoError(t, tel.Close())
}
