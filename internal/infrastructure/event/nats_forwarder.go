package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Message headers set on forwarded events
const (
	HeaderEventType = "Erp-Event-Type"
	HeaderTenantID  = "Erp-Tenant-Id"
	// HeaderMsgID lets a JetStream stream drop duplicates of the same event
	HeaderMsgID = nats.MsgIdHdr
)

// MsgPublisher is the part of *nats.Conn the forwarder needs
type MsgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSForwarder is a wildcard event handler that republishes every domain event on
// <prefix>.<tenant>.<EventType>, so other services can follow ticket activity.
type NATSForwarder struct {
	conn       MsgPublisher
	serializer *EventSerializer
	prefix     string
	logger     *zap.Logger
}

// NewNATSForwarder creates a forwarder publishing under prefix
func NewNATSForwarder(conn MsgPublisher, serializer *EventSerializer, prefix string, logger *zap.Logger) *NATSForwarder {
	return &NATSForwarder{
		conn:       conn,
		serializer: serializer,
		prefix:     strings.Trim(prefix, "."),
		logger:     logger,
	}
}

// Connect dials NATS with reconnects enabled and logs connection changes
func Connect(url, name string, logger *zap.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// Subject returns the subject an event is published on
func (f *NATSForwarder) Subject(ev shared.DomainEvent) string {
	return fmt.Sprintf("%s.%s.%s", f.prefix, ev.TenantID().String(), ev.EventType())
}

// EventTypes is empty: the forwarder subscribes to every event
func (f *NATSForwarder) EventTypes() []string {
	return nil
}

// Handle publishes the serialized event
func (f *NATSForwarder) Handle(ctx context.Context, ev shared.DomainEvent) error {
	data, err := f.serializer.Serialize(ev)
	if err != nil {
		return err
	}

	msg := nats.NewMsg(f.Subject(ev))
	msg.Data = data
	msg.Header.Set(HeaderMsgID, ev.EventID().String())
	msg.Header.Set(HeaderEventType, ev.EventType())
	msg.Header.Set(HeaderTenantID, ev.TenantID().String())

	if err := f.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish %s to NATS: %w", ev.EventType(), err)
	}
	f.logger.Debug("Event forwarded to NATS",
		zap.String("subject", msg.Subject),
		zap.String("event_id", ev.EventID().String()),
	)
	return nil
}

// Ensure NATSForwarder implements EventHandler
var _ shared.EventHandler = (*NATSForwarder)(nil)
