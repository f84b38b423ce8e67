package axtree

// EventKind names a diagnostic emitted while walking or resolving.
type EventKind string

const (
	EventAttributeNamesFailed EventKind = "attribute-names-failed"
	EventAttributeValueFailed EventKind = "attribute-value-failed"
	EventRoleLookupFailed     EventKind = "role-lookup-failed"
	EventOpaqueValue          EventKind = "opaque-value"
	EventChildrenUnreadable   EventKind = "children-unreadable"
	EventCycleCut             EventKind = "cycle-cut"
	EventResolveFailed        EventKind = "resolve-failed"
	EventWindowNumberIgnored  EventKind = "window-number-ignored"
	EventWindowListFailed     EventKind = "window-list-failed"
)

// Event is one diagnostic. Fields other than Kind are filled when relevant.
type Event struct {
	Kind      EventKind
	Attribute string
	Depth     int
	PID       int
	Detail    string
	Err       error
}

// Observer receives diagnostics from the walker and resolver.
// Observers are called synchronously on the walking goroutine.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// Discard drops every event.
var Discard Observer = ObserverFunc(func(Event) {})

// Option configures a Walker, Resolver or Service.
type Option func(*settings)

type settings struct {
	observer   Observer
	cycleGuard bool
}

func newSettings(opts []Option) settings {
	s := settings{observer: Discard, cycleGuard: true}
	for _, opt := range opts {
		opt(&s)
	}
	if s.observer == nil {
		s.observer = Discard
	}
	return s
}

// WithObserver routes diagnostics to o.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}

// WithCycleGuard enables or disables cutting recursion into an element that
// is already on the current walk path. It is enabled by default.
func WithCycleGuard(enabled bool) Option {
	return func(s *settings) { s.cycleGuard = enabled }
}
