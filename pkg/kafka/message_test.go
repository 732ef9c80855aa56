package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBuilder_Build(t *testing.T) {
	msg, err := NewMessage().
		Key("room-1").
		JSON(map[string]string{"type": "booking.created"}).
		EventType("booking.created").
		Source("bookings").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "room-1", string(msg.Key))
	assert.JSONEq(t, `{"type":"booking.created"}`, string(msg.Value))

	assert.NotEmpty(t, HeaderValue(msg, HeaderEventID))
	assert.NotEmpty(t, HeaderValue(msg, HeaderTimestamp))
	assert.Equal(t, "booking.created", HeaderValue(msg, HeaderEventType))
	assert.Equal(t, "bookings", HeaderValue(msg, HeaderSource))
}

func TestMessageBuilder_UniqueEventIDs(t *testing.T) {
	first, err := NewMessage().Key("k").JSON("v").Build()
	require.NoError(t, err)
	second, err := NewMessage().Key("k").JSON("v").Build()
	require.NoError(t, err)

	assert.NotEqual(t, HeaderValue(first, HeaderEventID), HeaderValue(second, HeaderEventID))
}

func TestMessageBuilder_RejectsEmptyKeyAndValue(t *testing.T) {
	_, err := NewMessage().JSON("v").Build()
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = NewMessage().Key("k").Build()
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestConfig_DefaultsAndValidation(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, -1, cfg.RequiredAcks)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Error(t, cfg.Validate())

	cfg.Brokers = []string{"localhost:9092"}
	assert.NoError(t, cfg.Validate())
}
