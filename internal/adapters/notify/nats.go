package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/okian/reviewlens/pkg/logger"
	"github.com/okian/reviewlens/pkg/metrics"
)

const (
	natsMaxReconnects  = 10
	natsReconnectWait  = 2 * time.Second
	natsConnectTimeout = 5 * time.Second
)

// Publisher is the subset of *nats.Conn the notifier needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes notifications as JSON on a subject.
type NATSNotifier struct {
	pub     Publisher
	subject string
	log     logger.Logger
}

// NewNATSNotifier creates a notifier publishing on subject through pub.
func NewNATSNotifier(pub Publisher, subject string, l logger.Logger) *NATSNotifier {
	return &NATSNotifier{pub: pub, subject: subject, log: l}
}

func (n *NATSNotifier) Notify(ctx context.Context, note Notification) {
	data, err := json.Marshal(note)
	if err == nil {
		err = n.pub.Publish(n.subject, data)
	}
	if err != nil {
		n.log.Warn(ctx, "publish notification failed",
			logger.String("subject", n.subject),
			logger.String("id", note.ID),
			logger.Error(err))
		metrics.RecordErrorByComponent("notify_nats", "publish")
		return
	}
	metrics.RecordNotification(string(note.Level), "nats")
}

// Connect dials a NATS server with reconnect handling logged through l.
func Connect(url string, l logger.Logger) (*nats.Conn, error) {
	ctx := context.Background()
	opts := []nats.Option{
		nats.Name("reviewlens"),
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.Timeout(natsConnectTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			l.Warn(ctx, "nats disconnected", logger.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			l.Info(ctx, "nats reconnected", logger.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			l.Info(ctx, "nats connection closed")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return nc, nil
}
