package stream

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
)

func TestRecv_Value(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 42

	v, err := Recv(context.Background(), ch, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestRecv_Timeout(t *testing.T) {
	ch := make(chan int)

	_, err := Recv(context.Background(), ch, 10*time.Millisecond)
	require.Error(t, err)

	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, errors.KindTimeout, e.Kind())
	assert.Equal(t, "Error: Timeout error", e.Error())
	assert.Equal(t, RecvTimeout, e.Unwrap())
	assert.True(t, stderrors.Is(err, RecvTimeout))
}

func TestRecv_Disconnected(t *testing.T) {
	ch := make(chan int)
	close(ch)

	_, err := Recv(context.Background(), ch, time.Second)
	require.Error(t, err)
	assert.Equal(t, errors.KindTimeout, errors.KindOf(err))
	assert.True(t, stderrors.Is(err, RecvDisconnected))
	assert.False(t, RecvDisconnected.Timeout())
}

func TestRecv_NoDeadline(t *testing.T) {
	ch := make(chan string)
	go func() {
		time.Sleep(20 * time.Millisecond)
		ch <- "late"
	}()

	v, err := Recv(context.Background(), ch, 0)
	require.NoError(t, err)
	assert.Equal(t, "late", v)
}

func TestRecv_ContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := Recv(ctx, make(chan int), time.Minute)
	assert.Equal(t, errors.KindTimeout, errors.KindOf(err))
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
}

func TestRecv_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Recv(ctx, make(chan int), time.Minute)
	assert.Equal(t, errors.KindIO, errors.KindOf(err))
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestRecvTimeoutError_String(t *testing.T) {
	assert.Equal(t, "timed out waiting on channel", RecvTimeout.Error())
	assert.Equal(t, "channel is empty and sending half is closed", RecvDisconnected.Error())
	assert.True(t, RecvTimeout.Timeout())
}
