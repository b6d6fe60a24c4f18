package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abisalde/accounts-service/internal/auth/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	users []int64
	fail  map[int64]bool
}

func (r *recorder) UpdateLastLogin(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[userID] {
		return errors.New("user gone")
	}
	r.users = append(r.users, userID)
	return nil
}

func (r *recorder) seen() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.users...)
}

func addEvent(t *testing.T, client *redis.Client, payload any) {
	t.Helper()
	values := map[string]interface{}{}
	switch p := payload.(type) {
	case string:
		values["event"] = p
	default:
		data, err := json.Marshal(p)
		require.NoError(t, err)
		values["event"] = string(data)
	}
	require.NoError(t, client.XAdd(context.Background(), &redis.XAddArgs{
		Stream: service.LoginStreamKey,
		Values: values,
	}).Err())
}

func newWorker(t *testing.T, rec *recorder) (*LastLoginWorker, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	w := NewLastLoginWorker(client, rec)
	w.lastID = "0"
	w.block = 50 * time.Millisecond
	return w, client
}

func TestPoll_AppliesLoginEvents(t *testing.T) {
	rec := &recorder{fail: map[int64]bool{3: true}}
	w, client := newWorker(t, rec)

	addEvent(t, client, service.LoginEvent{UserID: 1, EventType: service.LoginEventType, Timestamp: time.Now()})
	addEvent(t, client, "{not json")
	addEvent(t, client, service.LoginEvent{UserID: 2, EventType: "something_else"})
	addEvent(t, client, service.LoginEvent{UserID: 3, EventType: service.LoginEventType})
	addEvent(t, client, service.LoginEvent{UserID: 4, EventType: service.LoginEventType})

	applied, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Equal(t, []int64{1, 4}, rec.seen())

	// The cursor advanced; nothing is re-applied.
	applied, err = w.Poll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, applied)
}

func TestStart_StopsOnCancel(t *testing.T) {
	rec := &recorder{}
	w, client := newWorker(t, rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	addEvent(t, client, service.LoginEvent{UserID: 11, EventType: service.LoginEventType})
	assert.Eventually(t, func() bool { return len(rec.seen()) == 1 }, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestPoll_KeepsEventsAddedBetweenPolls(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rec := &recorder{}
	w := NewLastLoginWorker(client, rec)
	w.block = 50 * time.Millisecond

	applied, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, applied)

	addEvent(t, client, service.LoginEvent{UserID: 21, EventType: service.LoginEventType})

	applied, err = w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, []int64{21}, rec.seen())
}

func TestStreamIDAt(t *testing.T) {
	assert.Equal(t, "1699999999999-0", streamIDAt(time.UnixMilli(1700000000000)))
}
