package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"bookify/internal/app/notify"
)

// cloudEvent is the subset of the CloudEvents envelope the consumer needs.
type cloudEvent struct {
	Type string    `json:"type"`
	Time time.Time `json:"time"`
}

// NotificationHandler decodes CloudEvents off the broker and feeds them to
// the same dispatcher the in-process path uses. Undecodable messages are
// logged and acked so a poison message never wedges the partition.
type NotificationHandler struct {
	Dispatcher *notify.Dispatcher
	Logger     *slog.Logger
}

func (h *NotificationHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt cloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		h.logger().Warn("dropping undecodable event",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	name := strings.TrimSuffix(evt.Type, ".v1")
	if name == "" {
		h.logger().Warn("dropping event without type", "topic", msg.Topic, "offset", msg.Offset)
		return nil
	}
	h.Dispatcher.Dispatch(ctx, notify.Notice{
		Name:      name,
		Aggregate: string(msg.Key),
		At:        evt.Time,
	})
	return nil
}

func (h *NotificationHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ MessageHandler = (*NotificationHandler)(nil)
