package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func newTestRedisLocker(t *testing.T) (*Redis, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	locker, err := NewRedis(client, 10*time.Second,
		WithRetryDelay(time.Second),
		withTokenSource(func() string { return "token-1" }),
	)
	if err != nil {
		t.Fatalf("new redis locker: %v", err)
	}
	return locker, mock
}

func TestRedisAcquireAndRelease(t *testing.T) {
	locker, mock := newTestRedisLocker(t)
	mock.ExpectSetNX("courtbook:lock:court:1:2024-06-01", "token-1", 10*time.Second).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"courtbook:lock:court:1:2024-06-01"}, "token-1").SetVal(int64(1))

	unlock, err := locker.Acquire(context.Background(), "court:1:2024-06-01")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	unlock()
	unlock()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestRedisAcquireTimesOutWhileHeld(t *testing.T) {
	locker, mock := newTestRedisLocker(t)
	mock.ExpectSetNX("courtbook:lock:court:1:2024-06-01", "token-1", 10*time.Second).SetVal(false)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := locker.Acquire(ctx, "court:1:2024-06-01")
	if !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestRedisAcquirePropagatesErrors(t *testing.T) {
	locker, mock := newTestRedisLocker(t)
	mock.ExpectSetNX("courtbook:lock:k", "token-1", 10*time.Second).SetErr(errors.New("connection refused"))

	_, err := locker.Acquire(context.Background(), "k")
	if err == nil || errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected redis error, got %v", err)
	}
}

func TestNewRedisValidates(t *testing.T) {
	if _, err := NewRedis(nil, time.Second); err == nil {
		t.Fatal("expected nil client error")
	}
	client, _ := redismock.NewClientMock()
	if _, err := NewRedis(client, 0); err == nil {
		t.Fatal("expected ttl error")
	}
}
