package hooks

import "strings"

// HookPrefix marks an exported callable as a lifecycle hook.
const HookPrefix = "on_"

// Event identifies a build-lifecycle event hook modules can subscribe to.
type Event string

const (
	// EventPreCommit fires before deploy tooling commits a built version.
	EventPreCommit Event = "pre_commit"
)

// Events returns the closed event vocabulary.
func Events() []Event {
	return []Event{EventPreCommit}
}

// IsValid returns true if the event is part of the supported vocabulary.
func (e Event) IsValid() bool {
	switch e {
	case EventPreCommit:
		return true
	default:
		return false
	}
}

// HookName is the export name a module uses to subscribe to e.
func (e Event) HookName() string {
	return HookPrefix + string(e)
}

// String returns the string representation of the event.
func (e Event) String() string {
	return string(e)
}

// ParseHookName maps an export name to the event it claims. ok is false for
// names without the hook prefix; the returned event may still be invalid.
func ParseHookName(name string) (ev Event, ok bool) {
	if !strings.HasPrefix(name, HookPrefix) {
		return "", false
	}
	return Event(strings.TrimPrefix(name, HookPrefix)), true
}
