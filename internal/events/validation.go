package events

import (
	"fmt"
	"reflect"
)

var payloadTypes = map[EventType]reflect.Type{
	WorkspaceFileChanged: reflect.TypeOf(&WorkspaceFileEvent{}),
	WorkspaceFileRemoved: reflect.TypeOf(&WorkspaceFileEvent{}),
	EntrySaved:           reflect.TypeOf(&EntryEvent{}),
	EntryDeleted:         reflect.TypeOf(&EntryEvent{}),
	IndexRebuilt:         reflect.TypeOf(&IndexRebuiltEvent{}),
	ConfigReloaded:       reflect.TypeOf(&ConfigReloadEvent{}),
	ConfigReloadFailed:   reflect.TypeOf(&ConfigReloadEvent{}),
}

// PayloadType returns the expected payload type for an event type.
func PayloadType(eventType EventType) (reflect.Type, bool) {
	t, ok := payloadTypes[eventType]
	return t, ok
}

// ValidatePayload verifies that an event payload matches the expected type.
// A nil payload is always accepted.
func ValidatePayload(event Event) error {
	if event.Payload == nil {
		return nil
	}

	expected, ok := payloadTypes[event.Type]
	if !ok {
		return fmt.Errorf("%w: no payload mapping for event type %q", ErrInvalidPayload, event.Type)
	}

	if reflect.TypeOf(event.Payload) != expected {
		return fmt.Errorf("%w: event %q carries %T, expected %s", ErrInvalidPayload, event.Type, event.Payload, expected)
	}

	return nil
}
