package eventbus

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type args struct {
	data any
}

func newTestPublisher(level logrus.Level) (EventBus, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(level)
	return NewEventPublisher(log), buf
}

func TestPublisher_PublishWithoutMatchLogsWarning(t *testing.T) {
	type args2 struct {
		data any
	}
	publisher, buf := newTestPublisher(logrus.WarnLevel)
	publisher.Subscribe(func(e *args) {
		t.Error("should not be called")
	})
	publisher.Publish(&args2{data: "test"})

	require.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher, _ := newTestPublisher(logrus.WarnLevel)
	var data any
	publisher.Subscribe(func(e *args) {
		data = e.data
	})
	publisher.Publish(&args{data: "test"})
	require.Equal(t, "test", data)
}

func TestPublisher_Unsubscribe(t *testing.T) {
	publisher, _ := newTestPublisher(logrus.WarnLevel)
	calls := 0
	handler := func(e *args) { calls++ }
	publisher.Subscribe(handler)
	require.Equal(t, 1, publisher.SubscribersCount())

	publisher.Unsubscribe(handler)
	require.Equal(t, 0, publisher.SubscribersCount())

	publisher.Publish(&args{})
	require.Equal(t, 0, calls)
}

func TestMatchSignature(t *testing.T) {
	type other struct{}
	require.True(t, MatchSignature(func(e *args) {}, []any{&args{}}))
	require.False(t, MatchSignature(func(e *args) {}, []any{&other{}}))
	require.False(t, MatchSignature(func(e *args) {}, []any{}))
	require.False(t, MatchSignature(func(e *args) {}, []any{&args{}, &args{}}))
	require.True(t, MatchSignature(func(ctx context.Context) {}, []any{context.Background()}))
	require.True(t, MatchSignature(func(e *args) {}, []any{nil}))
}

func TestPublisher_PanicRecovery(t *testing.T) {
	publisher, buf := newTestPublisher(logrus.ErrorLevel)

	first, third := false, false
	publisher.Subscribe(func(e *args) { first = true })
	publisher.Subscribe(func(e *args) { panic("handler 2 panic") })
	publisher.Subscribe(func(e *args) { third = true })

	publisher.Publish(&args{data: "test"})

	require.True(t, first)
	require.True(t, third, "a panicking handler must not stop the others")
	require.True(t, strings.Contains(buf.String(), "panicked"))
	require.True(t, strings.Contains(buf.String(), "handler 2 panic"))
}

func TestPublisher_PublishE(t *testing.T) {
	publisher, _ := newTestPublisher(logrus.WarnLevel)
	require.ErrorIs(t, publisher.PublishE(&args{}), ErrNoSubscribers)

	boom := errors.New("boom")
	publisher.Subscribe(func(e *args) error { return boom })
	publisher.Subscribe(func(e *args) error { return nil })
	publisher.Subscribe(func(e *args) int { return 1 })

	err := publisher.PublishE(&args{})
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, ErrInvalidHandlerReturn)
}
