package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeEvent(t *testing.T) {
	s := MakeEvent("req-1", "scrape_done", 1, map[string]any{"listings": 42})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(s), &e))
	assert.Equal(t, "scrape_done", e.Type)
	assert.Equal(t, 1, e.Version)
	assert.Equal(t, "req-1", e.RequestID)
	assert.JSONEq(t, `{"listings":42}`, string(e.Data))
	assert.False(t, e.At.IsZero())
}

func TestMakeEventNilData(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(MakeEvent("", "ping", 1, nil)), &e))
	assert.Empty(t, e.Data)
	assert.Empty(t, e.RequestID)
}

func TestHubPublishSubscribe(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()

	h.Publish("hello")
	select {
	case msg := <-ch:
		assert.Equal(t, "hello", msg)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}

	h.Unsubscribe(ch)
	// Publishing after unsubscribe must not panic or block.
	h.Publish("after")
}

func TestHubDropsWhenSlow(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// Buffer is 10; the overflow is dropped instead of blocking the publisher.
	for i := 0; i < 50; i++ {
		h.Publish("msg")
	}
	assert.Len(t, ch, 10)
}
