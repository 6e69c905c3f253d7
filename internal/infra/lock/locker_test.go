package lock

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	errors []string
}

func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, v...))
}

func newLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	locker, mr, _ := newLockerWithLogger(t)
	return locker, mr
}

func newLockerWithLogger(t *testing.T) (*RedisLocker, *miniredis.Miniredis, *recordingLogger) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	logger := &recordingLogger{}
	return NewRedisLocker(client, 5*time.Second, logger), mr, logger
}

func TestWithTherapistLock_ReleasesAfterRun(t *testing.T) {
	locker, mr := newLocker(t)
	called := false

	err := locker.WithTherapistLock(context.Background(), 7, func(ctx context.Context) error {
		called = true
		assert.True(t, mr.Exists("lock:therapist:7"))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, mr.Exists("lock:therapist:7"))
}

func TestWithTherapistLock_BusyTherapist(t *testing.T) {
	locker, _ := newLocker(t)

	err := locker.WithTherapistLock(context.Background(), 7, func(ctx context.Context) error {
		return locker.WithTherapistLock(ctx, 7, func(context.Context) error {
			t.Fatal("nested lock must not be acquired")
			return nil
		})
	})

	assert.ErrorIs(t, err, ErrLockNotAcquired)
}

func TestWithTherapistLock_OtherTherapistIndependent(t *testing.T) {
	locker, _ := newLocker(t)

	err := locker.WithTherapistLock(context.Background(), 7, func(ctx context.Context) error {
		return locker.WithTherapistLock(ctx, 8, func(context.Context) error { return nil })
	})

	assert.NoError(t, err)
}

func TestWithTherapistLock_DoesNotReleaseForeignToken(t *testing.T) {
	locker, mr := newLocker(t)

	err := locker.WithTherapistLock(context.Background(), 7, func(ctx context.Context) error {
		// ключ истёк и был занят другим процессом
		require.NoError(t, mr.Set("lock:therapist:7", "foreign"))
		return nil
	})

	require.NoError(t, err)
	value, err := mr.Get("lock:therapist:7")
	require.NoError(t, err)
	assert.Equal(t, "foreign", value)
}

func TestWithTherapistLock_ReleaseFailureIsLogged(t *testing.T) {
	locker, mr, logger := newLockerWithLogger(t)

	err := locker.WithTherapistLock(context.Background(), 7, func(ctx context.Context) error {
		mr.Close()
		return nil
	})

	require.NoError(t, err)
	require.Len(t, logger.errors, 1)
	assert.Contains(t, logger.errors[0], "therapist id=7")
	assert.Contains(t, logger.errors[0], "release therapist lock")
}

func TestWithTherapistLock_SuccessfulReleaseLogsNothing(t *testing.T) {
	locker, _, logger := newLockerWithLogger(t)

	err := locker.WithTherapistLock(context.Background(), 7, func(context.Context) error { return nil })

	require.NoError(t, err)
	assert.Empty(t, logger.errors)
}

func TestNoopLocker(t *testing.T) {
	called := false
	err := NoopLocker{}.WithTherapistLock(context.Background(), 7, func(context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}
