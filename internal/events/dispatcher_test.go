package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishReachesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventLoginSucceeded, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	event := Event{ID: "1", Type: EventLoginSucceeded, Username: "user", Timestamp: time.Now()}
	require.NoError(t, dispatcher.Publish(context.Background(), event))
	require.Len(t, received, 1)
	require.Equal(t, "user", received[0].Username)
}

func TestDispatcher_OtherTypesNotDelivered(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var calls int
	dispatcher.Subscribe(EventLoggedOut, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventLoginFailed}))
	require.Zero(t, calls)
}

func TestDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var second bool
	dispatcher.Subscribe(EventLoginSucceeded, func(context.Context, Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventLoginSucceeded, func(context.Context, Event) error {
		second = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventLoginSucceeded}))
	require.True(t, second)
}
