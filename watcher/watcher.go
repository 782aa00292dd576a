// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package watcher reconciles the data published on a database relation
// into lifecycle events. Each change notification from the host runs
// one pass: read the relation, extract the database, compare against
// the persisted record of the last observation, persist the outcome
// and publish at most one event describing the transition.
package watcher

import (
	"context"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/pubsub/v2"
	"github.com/juju/worker/v4"
	"github.com/juju/worker/v4/catacomb"
	"github.com/kr/pretty"

	"github.com/juju/dbrelation/core/database"
	"github.com/juju/dbrelation/core/status"
	"github.com/juju/dbrelation/relation"
)

var logger = loggo.GetLogger("dbrelation.watcher")

var _ worker.Worker = (*Watcher)(nil)

// RelationChange describes one notification delivered by the host
// about the relation under observation.
type RelationChange struct {
	// Broken is true when the relation is going away entirely, rather
	// than its data having changed.
	Broken bool
}

// Config defines the operation of a Watcher.
type Config struct {
	// RelationName names the relation the watcher reconciles. It is
	// interpolated into the statuses the watcher reports.
	RelationName string

	// Relations reads the data published on the relation.
	Relations relation.Reader

	// State persists the last observation across process restarts.
	State StateStore

	// Hub receives the lifecycle events.
	Hub *pubsub.SimpleHub

	// Changes delivers relation change notifications from the host.
	// The host must deliver one notification per underlying change, in
	// order.
	Changes <-chan RelationChange
}

// Validate returns an error if config cannot drive a Watcher.
func (config Config) Validate() error {
	if config.RelationName == "" {
		return errors.NotValidf("empty RelationName")
	}
	if config.Relations == nil {
		return errors.NotValidf("nil Relations")
	}
	if config.State == nil {
		return errors.NotValidf("nil State")
	}
	if config.Hub == nil {
		return errors.NotValidf("nil Hub")
	}
	if config.Changes == nil {
		return errors.NotValidf("nil Changes")
	}
	return nil
}

// Watcher tracks the database published on one relation. It is a
// worker.Worker; the host owns its lifetime.
type Watcher struct {
	catacomb catacomb.Catacomb
	config   Config

	mu         sync.Mutex
	state      State
	lastStatus *status.StatusInfo
}

// NewWatcher returns a Watcher backed by config, or an error. The
// persisted state is loaded before the worker starts so a restart
// never re-reports a database that was already seen.
func NewWatcher(ctx context.Context, config Config) (*Watcher, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	w := &Watcher{config: config}
	var err error
	w.state, err = loadState(ctx, config.State, config.RelationName)
	if err != nil {
		return nil, errors.Trace(err)
	}
	err = catacomb.Invoke(catacomb.Plan{
		Site: &w.catacomb,
		Work: w.loop,
	})
	return w, errors.Trace(err)
}

// Kill is part of the worker.Worker interface.
func (w *Watcher) Kill() {
	w.catacomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *Watcher) Wait() error {
	return w.catacomb.Wait()
}

func (w *Watcher) loop() error {
	ctx := w.catacomb.Context(context.Background())

	// Run a pass before waiting for notifications, even though the
	// database is almost certainly not there yet, so the host learns
	// that fact at startup.
	if err := w.reconcile(ctx); err != nil {
		return errors.Trace(err)
	}
	for {
		select {
		case <-w.catacomb.Dying():
			return w.catacomb.ErrDying()
		case change, ok := <-w.config.Changes:
			if !ok {
				return errors.New("relation change channel closed")
			}
			var err error
			if change.Broken {
				err = w.relationBroken(ctx)
			} else {
				err = w.reconcile(ctx)
			}
			if err != nil {
				return errors.Trace(err)
			}
		}
	}
}

// reconcile runs one pass: extract, classify against the persisted
// state, persist, publish. At most one event is published per pass.
func (w *Watcher) reconcile(ctx context.Context) error {
	db, err := relation.Database(ctx, w.config.Relations)
	if err != nil && !relation.IsRelationError(err) {
		return errors.Trace(err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		sts := relation.StatusFor(w.config.RelationName, err)
		w.lastStatus = &sts
		if !w.state.HasDatabase() {
			// Still waiting; no transition to report.
			logger.Debugf("relation %q has no database: %v", w.config.RelationName, err)
			return nil
		}
		w.state = State{Version: stateVersion}
		if err := saveState(ctx, w.config.State, w.config.RelationName, w.state); err != nil {
			return errors.Trace(err)
		}
		w.publish(Event{Kind: DatabaseUnavailable, Status: sts})
		return nil
	}

	w.lastStatus = nil
	fingerprint := string(db.Fingerprint())
	var kind Kind
	switch {
	case !w.state.HasDatabase():
		kind = DatabaseAvailable
	case w.state.Fingerprint != fingerprint:
		kind = DatabaseChanged
	default:
		logger.Tracef("relation %q database unchanged", w.config.RelationName)
		return nil
	}
	w.state = State{
		Version:     stateVersion,
		Fingerprint: fingerprint,
		Database:    &db,
	}
	if err := saveState(ctx, w.config.State, w.config.RelationName, w.state); err != nil {
		return errors.Trace(err)
	}
	w.publish(Event{Kind: kind, Database: db})
	return nil
}

// relationBroken clears the persisted state and reports the relation
// missing, regardless of what was previously observed.
func (w *Watcher) relationBroken(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = State{Version: stateVersion}
	if err := saveState(ctx, w.config.State, w.config.RelationName, w.state); err != nil {
		return errors.Trace(err)
	}
	sts := relation.StatusFor(w.config.RelationName, relation.ErrMissingRelation)
	w.lastStatus = &sts
	w.publish(Event{Kind: DatabaseUnavailable, Status: sts})
	return nil
}

// publish must be called with the mutex held, after the new state has
// been persisted.
func (w *Watcher) publish(event Event) {
	_ = w.config.Hub.Publish(Topic(w.config.RelationName), event)
	logger.Debugf("published %s for relation %q", event.Kind, w.config.RelationName)
	if logger.IsTraceEnabled() {
		logger.Tracef("watcher state: %# v", pretty.Formatter(w.report()))
	}
}

// Database returns the database currently published on the relation,
// reading it afresh. It can be called at any time, independently of
// the notification flow, and fails the same way extraction does.
func (w *Watcher) Database(ctx context.Context) (database.Database, error) {
	return relation.Database(ctx, w.config.Relations)
}

// AllAvailable returns every complete database currently published on
// the relation, in application order.
func (w *Watcher) AllAvailable(ctx context.Context) ([]database.Database, error) {
	return relation.AllAvailable(ctx, w.config.Relations)
}

// Report is shown in the dependency engine report. Credentials are
// not included.
func (w *Watcher) Report() map[string]interface{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.report()
}

func (w *Watcher) report() map[string]interface{} {
	report := map[string]interface{}{
		"relation":     w.config.RelationName,
		"has-database": w.state.HasDatabase(),
	}
	if w.state.HasDatabase() {
		report["fingerprint"] = w.state.Fingerprint
		report["database"] = w.state.Database.String()
	}
	if w.lastStatus != nil {
		report["status"] = w.lastStatus.Status.String()
		report["message"] = w.lastStatus.Message
	}
	return report
}
