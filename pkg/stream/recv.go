package stream

import (
	"context"
	"time"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
)

// RecvTimeoutError is the failure of a blocking receive with a deadline.
type RecvTimeoutError int

const (
	// RecvTimeout - nothing arrived before the deadline.
	RecvTimeout RecvTimeoutError = iota + 1
	// RecvDisconnected - the channel was closed with nothing left in it.
	RecvDisconnected
)

func (e RecvTimeoutError) Error() string {
	switch e {
	case RecvTimeout:
		return "timed out waiting on channel"
	case RecvDisconnected:
		return "channel is empty and sending half is closed"
	}
	return "receive failed"
}

// Timeout reports whether the deadline expired.
func (e RecvTimeoutError) Timeout() bool {
	return e == RecvTimeout
}

// Recv waits for a value on ch for at most d; d <= 0 waits without limit.
// Both failure modes are reported as a Timeout *errors.Error whose cause is
// the RecvTimeoutError. Cancellation of ctx is reported through errors.Wrap.
func Recv[T any](ctx context.Context, ch <-chan T, d time.Duration) (T, error) {
	var zero T
	var expired <-chan time.Time
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case v, ok := <-ch:
		if !ok {
			return zero, errors.FromTimeout(RecvDisconnected)
		}
		return v, nil
	case <-expired:
		return zero, errors.FromTimeout(RecvTimeout)
	case <-ctx.Done():
		return zero, errors.Wrap(ctx.Err())
	}
}
