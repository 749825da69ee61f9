package events

import (
	"context"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedWriter blocks every write until release is closed, like a broker that
// does not answer.
type gatedWriter struct {
	release chan struct{}

	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func newGatedWriter() *gatedWriter {
	return &gatedWriter{release: make(chan struct{})}
}

func (w *gatedWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	<-w.release
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *gatedWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *gatedWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.msgs)
}

func TestAsync_PublishDoesNotWaitForBroker(t *testing.T) {
	t.Parallel()

	w := newGatedWriter()
	a := NewAsync(NewProducerWithWriter(w), 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, a.Publish(ctx, Event{Type: TypeLogin, UserID: "u1"}))
	require.NoError(t, a.Publish(ctx, Event{Type: TypeRefreshReuse, UserID: "u1"}))
	assert.Equal(t, 0, w.count())

	close(w.release)
	require.NoError(t, a.Close())
	assert.Equal(t, 2, w.count())
	assert.True(t, w.closed)
}

func TestAsync_DropsWhenQueueFull(t *testing.T) {
	t.Parallel()

	w := newGatedWriter()
	a := NewAsync(NewProducerWithWriter(w), 1)

	var full int
	for i := 0; i < 3; i++ {
		if err := a.Publish(context.Background(), Event{Type: TypeLogin, UserID: "u"}); err != nil {
			assert.ErrorIs(t, err, ErrQueueFull)
			full++
		}
	}
	assert.GreaterOrEqual(t, full, 1)

	close(w.release)
	require.NoError(t, a.Close())
	assert.Equal(t, 3-full, w.count())
}

func TestAsync_PublishAfterClose(t *testing.T) {
	t.Parallel()

	a := NewAsync(Noop{}, 0)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	assert.ErrorIs(t, a.Publish(context.Background(), Event{Type: TypeLogout}), ErrClosed)
}
