package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bytedance/sonic"
	"github.com/gongguhub/gonggu/internal/events"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupNotifier(t *testing.T) (*events.Notifier, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return events.NewNotifier(client, zap.NewNop()), mr
}

func TestNotifierPublish(t *testing.T) {
	notifier, mr := setupNotifier(t)

	sub := mr.NewSubscriber()
	defer sub.Close()
	sub.Subscribe(events.Channel)

	notifier.Publish(context.Background(), events.Event{
		Name:       events.BidSelected,
		UserID:     42,
		GroupBuyID: 7,
		Payload:    map[string]any{"amount": 150000},
	})

	select {
	case msg := <-sub.Messages():
		var event events.Event

		require.NoError(t, sonic.Unmarshal([]byte(msg.Message), &event))
		assert.Equal(t, events.BidSelected, event.Name)
		assert.Equal(t, int64(42), event.UserID)
		assert.Equal(t, int64(7), event.GroupBuyID)
		assert.False(t, event.EmittedAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected a published event")
	}
}

func TestNotifierPublishSurvivesClosedConnection(t *testing.T) {
	notifier, mr := setupNotifier(t)

	// Publishing into a dead connection must not panic or block
	mr.Close()
	notifier.Publish(context.Background(), events.Event{Name: events.PenaltyIssued, UserID: 1})
}
