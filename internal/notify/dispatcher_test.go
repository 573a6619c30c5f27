package notify

import (
	"errors"
	"testing"
)

func TestDispatcherRegisterDispatch(t *testing.T) {
	d := NewDispatcher()

	var received []Event
	d.Register(&FuncObserver{
		Name: "collector",
		Fn: func(event Event) error {
			received = append(received, event)
			return nil
		},
	})

	if d.ObserverCount() != 1 {
		t.Fatalf("ObserverCount = %d, want 1", d.ObserverCount())
	}

	d.Dispatch(Event{Type: EventRecordAdded, Payload: RecordChangedEvent{RecordID: "1"}})
	if len(received) != 1 {
		t.Fatalf("observer received %d events, want 1", len(received))
	}
	if received[0].Type != EventRecordAdded {
		t.Errorf("event type = %s, want %s", received[0].Type, EventRecordAdded)
	}
}

func TestDispatcherTypeFilter(t *testing.T) {
	d := NewDispatcher()

	var count int
	d.Register(&FuncObserver{
		Name:  "records-only",
		Types: []string{EventRecordAdded, EventRecordDeleted},
		Fn: func(Event) error {
			count++
			return nil
		},
	})

	d.Dispatch(Event{Type: EventRecordAdded})
	d.Dispatch(Event{Type: EventSettingsChanged})
	d.Dispatch(Event{Type: EventRecordDeleted})

	if count != 2 {
		t.Errorf("filtered observer saw %d events, want 2", count)
	}
}

func TestDispatcherUnregister(t *testing.T) {
	d := NewDispatcher()

	var count int
	observer := &FuncObserver{
		Name: "once",
		Fn: func(Event) error {
			count++
			return nil
		},
	}

	d.Register(observer)
	d.Dispatch(Event{Type: EventRecordAdded})
	d.Unregister(observer)
	d.Dispatch(Event{Type: EventRecordAdded})

	if count != 1 {
		t.Errorf("unregistered observer still receiving, count = %d", count)
	}
}

func TestDispatcherObserverErrorDoesNotStopOthers(t *testing.T) {
	d := NewDispatcher()

	d.Register(&FuncObserver{
		Name: "failing",
		Fn: func(Event) error {
			return errors.New("boom")
		},
	})

	var reached bool
	d.Register(&FuncObserver{
		Name: "after",
		Fn: func(Event) error {
			reached = true
			return nil
		},
	})

	d.Dispatch(Event{Type: EventRecordAdded})
	if !reached {
		t.Error("an observer error must not stop later observers")
	}
}

func TestDispatcherClear(t *testing.T) {
	d := NewDispatcher()
	d.Register(&FuncObserver{Name: "a", Fn: func(Event) error { return nil }})
	d.Register(&FuncObserver{Name: "b", Fn: func(Event) error { return nil }})

	d.Clear()
	if d.ObserverCount() != 0 {
		t.Errorf("ObserverCount = %d after Clear, want 0", d.ObserverCount())
	}
}
