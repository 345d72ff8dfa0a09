package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const notificationStream = "notification-events"

// NATSNotifier publishes notifications to NATS JetStream so the notification
// service can deliver them asynchronously.
type NATSNotifier struct {
	nc *nats.Conn
	js nats.JetStreamContext
}

// ConnectNATS connects to NATS, initializes JetStream and ensures the
// notification stream exists.
func ConnectNATS(url string) (*NATSNotifier, error) {
	opts := []nats.Option{
		nats.Name("document-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("[NATS] disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[NATS] reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Println("[NATS] connection closed")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, err
	}

	n := &NATSNotifier{nc: conn, js: js}
	if err := n.ensureStream(); err != nil {
		log.Printf("[NATS] warning: failed to ensure stream: %v", err)
		// Not fatal — publishes will fail loudly if JetStream is unusable.
	}

	log.Println("[NATS] connected and JetStream initialized")
	return n, nil
}

// ensureStream creates the notification stream if it doesn't exist
func (n *NATSNotifier) ensureStream() error {
	_, err := n.js.StreamInfo(notificationStream)
	if err == nil {
		return nil
	}

	streamCfg := &nats.StreamConfig{
		Name:     notificationStream,
		Subjects: []string{"notifications.*"},
		Storage:  nats.FileStorage,
		MaxAge:   30 * 24 * time.Hour,
	}

	_, err = n.js.AddStream(streamCfg)
	return err
}

// Emit publishes one notification event. subject e.g. "notifications.document".
func (n *NATSNotifier) Emit(userID, category, message string) error {
	payload := map[string]interface{}{
		"user_id": userID,
		"type":    category,
		"message": message,
		"sent_at": time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	// Message ID for idempotency on the consumer side
	msgID := uuid.New().String()
	_, err = n.js.Publish("notifications."+category, data, nats.MsgId(msgID))
	if err != nil {
		log.Printf("[NATS] publish failed category=%s err=%v", category, err)
		return err
	}
	return nil
}

// Close closes the connection
func (n *NATSNotifier) Close() {
	if n.nc != nil && n.nc.IsConnected() {
		n.nc.Close()
	}
}
