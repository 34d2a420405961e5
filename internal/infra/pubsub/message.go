package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"storefront/internal/domain/service"

	"github.com/pkg/errors"
)

// PushEnvelope is the body of a Pub/Sub push request. The local publisher
// posts the same shape, so the worker has a single endpoint for both.
type PushEnvelope struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewPushEnvelope wraps an event the way a push subscription delivers it.
func NewPushEnvelope(event *service.OrderEvent, messageID, subscription string, publishedAt time.Time) (*PushEnvelope, error) {
	data, attributes, err := encodeEvent(event)
	if err != nil {
		return nil, err
	}

	env := &PushEnvelope{Subscription: subscription}
	env.Message.Data = base64.StdEncoding.EncodeToString(data)
	env.Message.Attributes = attributes
	env.Message.MessageID = messageID
	env.Message.PublishTime = publishedAt.UTC().Format(time.RFC3339)

	return env, nil
}

// Event decodes the order event carried in the message data.
func (e *PushEnvelope) Event() (*service.OrderEvent, error) {
	data, err := base64.StdEncoding.DecodeString(e.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "message data is not base64")
	}

	var event service.OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrap(err, "message data is not an order event")
	}

	return &event, nil
}

// encodeEvent returns the JSON payload and the attributes attached to every
// published message for filtering and tracing.
func encodeEvent(event *service.OrderEvent) ([]byte, map[string]string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	attributes := map[string]string{
		"event_type": event.Type,
		"order_id":   event.OrderID,
		"store_id":   event.StoreID,
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return data, attributes, nil
}
