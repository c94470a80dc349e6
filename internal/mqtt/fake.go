package mqtt

import (
	"github.com/sweeney/thermal-sensor/internal/logic"
)

// Message is one payload the fake accepted, in publish order.
type Message struct {
	Topic    string
	Payload  []byte
	Retained bool
}

// FakePublisher records everything it is asked to publish. Failures are
// injected per kind so a test can break transitions without losing
// lifecycle events.
type FakePublisher struct {
	Events         []logic.Event
	Payloads       [][]byte
	SystemEvents   []SystemEvent
	SystemPayloads [][]byte

	// Messages interleaves both kinds as they would reach the broker.
	Messages []Message

	PublishError       error
	PublishSystemError error

	Connected bool
	Closed    bool
}

// NewFakePublisher returns a disconnected fake with nothing recorded.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) record(topic string, payload []byte, retained bool) {
	f.Messages = append(f.Messages, Message{Topic: topic, Payload: payload, Retained: retained})
}

// Publish formats event like the real publisher and records it.
func (f *FakePublisher) Publish(event logic.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)
	f.record(Topic, payload, false)
	return nil
}

// PublishSystem formats event like the real publisher and records it.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	f.record(TopicSystem, payload, event.Retained)
	return nil
}

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// EventTypes returns the recorded transition types in order.
func (f *FakePublisher) EventTypes() []logic.EventType {
	types := make([]logic.EventType, len(f.Events))
	for i, e := range f.Events {
		types[i] = e.Type
	}
	return types
}

// SystemEventsNamed returns the recorded system events with the given name.
func (f *FakePublisher) SystemEventsNamed(name string) []SystemEvent {
	var out []SystemEvent
	for _, se := range f.SystemEvents {
		if se.Event == name {
			out = append(out, se)
		}
	}
	return out
}

// Reset forgets everything, including injected errors.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}
