package testing

import (
	"fmt"
	"maps"
	"sync"

	"github.com/imamik/iacup/internal/provisioning"
)

// RecordingObserver is a provisioning.Observer that records events and messages.
type RecordingObserver struct {
	mu       sync.Mutex
	events   []provisioning.Event
	messages []string
	fields   map[string]string
	parent   *RecordingObserver
}

// NewRecordingObserver creates an empty recorder.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{fields: make(map[string]string)}
}

// Printf implements provisioning.Observer.
func (r *RecordingObserver) Printf(format string, v ...any) {
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	root.messages = append(root.messages, fmt.Sprintf(format, v...))
}

// Event implements provisioning.Observer.
func (r *RecordingObserver) Event(event provisioning.Event) {
	if len(r.fields) > 0 {
		merged := maps.Clone(r.fields)
		maps.Copy(merged, event.Fields)
		event.Fields = merged
	}
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	root.events = append(root.events, event)
}

// WithFields implements provisioning.Observer. Child observers record into
// their parent.
func (r *RecordingObserver) WithFields(fields map[string]string) provisioning.Observer {
	merged := maps.Clone(r.fields)
	maps.Copy(merged, fields)
	return &RecordingObserver{fields: merged, parent: r.root()}
}

func (r *RecordingObserver) root() *RecordingObserver {
	if r.parent != nil {
		return r.parent
	}
	return r
}

// Events returns a copy of the recorded events.
func (r *RecordingObserver) Events() []provisioning.Event {
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	return append([]provisioning.Event(nil), root.events...)
}

// Messages returns the formatted Printf messages.
func (r *RecordingObserver) Messages() []string {
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	return append([]string(nil), root.messages...)
}

// Resources returns the resource names of events of the given type, in order.
func (r *RecordingObserver) Resources(eventType provisioning.EventType) []string {
	var out []string
	for _, e := range r.Events() {
		if e.Type == eventType {
			out = append(out, e.Resource)
		}
	}
	return out
}

// Has reports whether an event of type eventType was recorded for resource.
func (r *RecordingObserver) Has(eventType provisioning.EventType, resource string) bool {
	for _, name := range r.Resources(eventType) {
		if name == resource {
			return true
		}
	}
	return false
}
