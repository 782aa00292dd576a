// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package watcher

import (
	"sync"

	"github.com/juju/pubsub/v2"
	"gopkg.in/tomb.v2"

	"github.com/juju/dbrelation/core/database"
	"github.com/juju/dbrelation/core/status"
)

// Kind enumerates the lifecycle events the watcher emits.
type Kind string

const (
	// DatabaseAvailable is emitted when a complete database first
	// appears on the relation.
	DatabaseAvailable Kind = "database-available"

	// DatabaseChanged is emitted when the published details differ
	// from the last observed database.
	DatabaseChanged Kind = "database-changed"

	// DatabaseUnavailable is emitted when a previously observed
	// database goes away, or the relation is broken.
	DatabaseUnavailable Kind = "database-unavailable"
)

// Event is published on the hub once per reconciliation pass that
// changes the watcher's view of the relation. The payload is a plain
// value so hosts can snapshot it if they journal events.
type Event struct {
	Kind Kind `yaml:"kind" json:"kind"`

	// Database is set for DatabaseAvailable and DatabaseChanged.
	Database database.Database `yaml:"database,omitempty" json:"database,omitempty"`

	// Status is set for DatabaseUnavailable and tells the host what
	// to report and how loudly.
	Status status.StatusInfo `yaml:"status,omitempty" json:"status,omitempty"`
}

// Topic returns the hub topic the watcher for relationName publishes
// on.
func Topic(relationName string) string {
	return "dbrelation." + relationName
}

// eventBuffer bounds the channel between the hub subscription and the
// consumer. Lifecycle events are rare; a consumer this far behind is
// not keeping up at all.
const eventBuffer = 16

// EventWatcher delivers the watcher's lifecycle events over a channel
// for hosts that prefer selecting on one to registering a hub
// callback.
type EventWatcher struct {
	tomb    tomb.Tomb
	changes chan Event
	// We can't send down a closed channel, so protect the sending
	// with a mutex and bool.
	closed bool
	mu     sync.Mutex
}

// NewEventWatcher returns an EventWatcher subscribed to the lifecycle
// events for relationName on hub.
func NewEventWatcher(hub *pubsub.SimpleHub, relationName string) *EventWatcher {
	w := &EventWatcher{
		changes: make(chan Event, eventBuffer),
	}
	unsub := hub.Subscribe(Topic(relationName), w.onEvent)
	w.tomb.Go(func() error {
		<-w.tomb.Dying()
		unsub()
		return nil
	})
	return w
}

// Changes returns the event channel. It is closed when the watcher is
// killed.
func (w *EventWatcher) Changes() <-chan Event {
	return w.changes
}

// Kill is part of the worker.Worker interface.
func (w *EventWatcher) Kill() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	// The tomb must be dying before the channel closes, otherwise
	// readers could see a closed channel from a watcher that claims to
	// be alive.
	w.tomb.Kill(nil)
	w.closed = true
	close(w.changes)
}

// Wait is part of the worker.Worker interface.
func (w *EventWatcher) Wait() error {
	return w.tomb.Wait()
}

func (w *EventWatcher) onEvent(topic string, data interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	event, ok := data.(Event)
	if !ok {
		logger.Criticalf("programming error: topic data expected Event, got %T", data)
		return
	}
	select {
	case w.changes <- event:
	default:
		logger.Warningf("discarding %s event: consumer not keeping up", event.Kind)
	}
}
