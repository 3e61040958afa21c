package events

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Channel is the Redis channel the notification dispatcher listens on.
const Channel = "gonggu:events"

// Event names consumed by the notification dispatcher.
const (
	BidSelected          = "bid_selected"
	ConsentOpened        = "consent_opened"
	FinalSelectionOpened = "final_selection_opened"
	PenaltyIssued        = "penalty_issued"
	ReportResolved       = "report_resolved"
)

// Event is a fire-and-forget notification payload. Delivery and retry are
// the dispatcher's concern, not ours.
type Event struct {
	Name       string         `json:"name"`
	UserID     int64          `json:"user_id"`
	GroupBuyID int64          `json:"group_buy_id,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	EmittedAt  time.Time      `json:"emitted_at"`
}

// Notifier publishes lifecycle events to the notification dispatcher over
// Redis pub/sub.
type Notifier struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewNotifier creates a new Notifier instance.
func NewNotifier(client rueidis.Client, logger *zap.Logger) *Notifier {
	return &Notifier{
		client: client,
		logger: logger.Named("notifier"),
	}
}

// Publish emits an event. Failures are logged and dropped; no lifecycle
// operation ever fails because a notification could not be published.
func (n *Notifier) Publish(ctx context.Context, event Event) {
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now()
	}

	payload, err := sonic.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to encode event",
			zap.String("event", event.Name),
			zap.Error(err))

		return
	}

	err = n.client.Do(ctx, n.client.B().Publish().
		Channel(Channel).
		Message(string(payload)).
		Build()).Error()
	if err != nil {
		n.logger.Warn("Failed to publish event",
			zap.String("event", event.Name),
			zap.Int64("userID", event.UserID),
			zap.Error(err))

		return
	}

	n.logger.Debug("Published event",
		zap.String("event", event.Name),
		zap.Int64("userID", event.UserID),
		zap.Int64("groupBuyID", event.GroupBuyID))
}
