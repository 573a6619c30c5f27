// Package notify carries best-effort change notifications between
// the record store and interested consumers, both inside one process
// (observer dispatch) and across processes (sentinel-file watching).
// Delivery is advisory cache invalidation, not a consistency
// protocol: no ordering guarantee, no replay of missed events.
package notify

import (
	"log"
	"sync"
)

// Event types published by the record store.
const (
	EventRecordAdded     = "record:added"
	EventRecordUpdated   = "record:updated"
	EventRecordDeleted   = "record:deleted"
	EventRecordsImported = "records:imported"
	EventFieldsChanged   = "fields:changed"
	EventSettingsChanged = "settings:changed"
)

// Event represents a domain event that can be dispatched to
// observers.
type Event struct {
	// Type is the event type (e.g. "record:added").
	Type string `json:"type"`

	// Payload contains the typed event payload; may be nil.
	Payload any `json:"payload,omitempty"`

	// Timestamp is the publisher's clock in Unix milliseconds.
	// Advisory only.
	Timestamp int64 `json:"timestamp"`
}

// Observer is notified of published events.
type Observer interface {
	// OnEvent is called when an event is dispatched.
	OnEvent(event Event) error

	// GetName returns a human-readable name for logging.
	GetName() string

	// ShouldHandle reports whether this observer wants the given
	// event type.
	ShouldHandle(eventType string) bool
}

// Dispatcher distributes events to registered observers. Thread-safe.
type Dispatcher struct {
	observers []Observer
	mu        sync.RWMutex
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{observers: make([]Observer, 0)}
}

// Register adds an observer. It will receive all future events that
// pass its ShouldHandle filter.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	log.Printf("[Dispatcher] Registered observer: %s", observer.GetName())
}

// Unregister removes an observer.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			log.Printf("[Dispatcher] Unregistered observer: %s", observer.GetName())
			return
		}
	}
}

// Dispatch sends an event to all registered observers, sequentially
// in registration order. An observer error is logged and dispatch
// continues.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, observer := range observers {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			log.Printf("[Dispatcher] Observer %s failed to handle event %s: %v",
				observer.GetName(), event.Type, err)
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *Dispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Clear removes all registered observers.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = make([]Observer, 0)
}

// FuncObserver adapts a plain function to the Observer interface,
// optionally filtered to a set of event types (empty set = all).
type FuncObserver struct {
	Name  string
	Types []string
	Fn    func(Event) error
}

// OnEvent invokes the wrapped function.
func (o *FuncObserver) OnEvent(event Event) error {
	return o.Fn(event)
}

// GetName returns the observer's name.
func (o *FuncObserver) GetName() string {
	if o.Name == "" {
		return "FuncObserver"
	}
	return o.Name
}

// ShouldHandle filters by the configured event types.
func (o *FuncObserver) ShouldHandle(eventType string) bool {
	if len(o.Types) == 0 {
		return true
	}
	for _, t := range o.Types {
		if t == eventType {
			return true
		}
	}
	return false
}

// LoggingObserver logs all events for debugging purposes.
type LoggingObserver struct {
	verbose bool
}

// NewLoggingObserver creates an observer that logs events.
func NewLoggingObserver(verbose bool) *LoggingObserver {
	return &LoggingObserver{verbose: verbose}
}

// OnEvent logs the event details.
func (o *LoggingObserver) OnEvent(event Event) error {
	if o.verbose {
		log.Printf("[LoggingObserver] Event: %s, Payload: %v", event.Type, event.Payload)
	} else {
		log.Printf("[LoggingObserver] Event: %s", event.Type)
	}
	return nil
}

// GetName returns the observer's name.
func (o *LoggingObserver) GetName() string {
	return "LoggingObserver"
}

// ShouldHandle returns true for all events (logs everything).
func (o *LoggingObserver) ShouldHandle(eventType string) bool {
	return true
}
