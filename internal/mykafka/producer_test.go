package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishEvent(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w}

	err := p.PublishEvent(context.Background(), TopicCartEvents, "user-1", map[string]string{"type": "cart_added"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicCartEvents, msg.Topic)
	assert.Equal(t, "user-1", string(msg.Key))

	var got map[string]string
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "cart_added", got["type"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishEventErrors(t *testing.T) {
	p := &Producer{writer: &recordingWriter{err: errors.New("broker down")}}
	err := p.PublishEvent(context.Background(), TopicUserEvents, "k", struct{}{})
	assert.ErrorContains(t, err, "broker down")

	err = p.PublishEvent(context.Background(), TopicUserEvents, "k", make(chan int))
	assert.ErrorContains(t, err, "json.Marshal")
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	assert.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.PublishEvent(context.Background(), TopicRecipeEvents, "k", nil))
	assert.NoError(t, Nop{}.Close())
}
