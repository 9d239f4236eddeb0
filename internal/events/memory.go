package events

import (
	"context"
	"encoding/json"
	"sync"
)

type Message struct {
	Topic string
	Key   string
	Value map[string]any
}

// Memory keeps published events in order, for tests and local runs.
type Memory struct {
	mu       sync.Mutex
	messages []Message
}

func (m *Memory) PublishEvent(_ context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{Topic: topic, Key: key, Value: v})
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Types lists the "type" field of every event published to topic.
func (m *Memory) Types(topic string) []string {
	var out []string
	for _, msg := range m.Messages() {
		if msg.Topic != topic {
			continue
		}
		if t, ok := msg.Value["type"].(string); ok {
			out = append(out, t)
		}
	}
	return out
}
