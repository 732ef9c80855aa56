package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// MessageBuilder assembles a kafka message with tracing headers.
// Each built message gets a fresh event id.
type MessageBuilder struct {
	key       []byte
	value     []byte
	eventType string
	source    string
	headers   []kafkago.Header
	err       error
}

func NewMessage() *MessageBuilder {
	return &MessageBuilder{}
}

func (b *MessageBuilder) Key(key string) *MessageBuilder {
	b.key = []byte(key)
	return b
}

func (b *MessageBuilder) JSON(v any) *MessageBuilder {
	if b.err != nil {
		return b
	}
	data, err := json.Marshal(v)
	if err != nil {
		b.err = err
		return b
	}
	b.value = data
	return b
}

func (b *MessageBuilder) EventType(t string) *MessageBuilder {
	b.eventType = t
	return b
}

func (b *MessageBuilder) Source(s string) *MessageBuilder {
	b.source = s
	return b
}

func (b *MessageBuilder) Header(key, value string) *MessageBuilder {
	b.headers = append(b.headers, kafkago.Header{Key: key, Value: []byte(value)})
	return b
}

func (b *MessageBuilder) Build() (kafkago.Message, error) {
	if b.err != nil {
		return kafkago.Message{}, b.err
	}
	if len(b.key) == 0 {
		return kafkago.Message{}, ErrEmptyKey
	}
	if len(b.value) == 0 {
		return kafkago.Message{}, ErrEmptyValue
	}

	headers := []kafkago.Header{
		{Key: HeaderEventID, Value: []byte(uuid.NewString())},
		{Key: HeaderTimestamp, Value: []byte(time.Now().UTC().Format(time.RFC3339))},
	}
	if b.eventType != "" {
		headers = append(headers, kafkago.Header{Key: HeaderEventType, Value: []byte(b.eventType)})
	}
	if b.source != "" {
		headers = append(headers, kafkago.Header{Key: HeaderSource, Value: []byte(b.source)})
	}
	headers = append(headers, b.headers...)

	return kafkago.Message{
		Key:     b.key,
		Value:   b.value,
		Headers: headers,
	}, nil
}

// HeaderValue returns the value of the named header, or "" when absent.
func HeaderValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
