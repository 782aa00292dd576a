// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package watcher

import (
	"context"

	"github.com/juju/errors"
	"gopkg.in/yaml.v2"

	"github.com/juju/dbrelation/core/database"
)

// stateVersion is written into every persisted record so a later
// format change can migrate old blobs instead of misreading them.
const stateVersion = 1

// State is the watcher's durable record of the last database observed
// on the relation. An empty fingerprint means no complete database has
// been seen since the state was last cleared.
type State struct {
	// Version identifies the record format.
	// Do not use omitempty, the field must round-trip.
	Version int `yaml:"version"`

	// Fingerprint is the content fingerprint of Database. It is the
	// value change detection compares against.
	Fingerprint string `yaml:"fingerprint,omitempty"`

	// Database is the last complete database observed. Kept alongside
	// the fingerprint so the host can answer queries about the last
	// known details without re-reading the relation.
	Database *database.Database `yaml:"database,omitempty"`
}

// HasDatabase reports whether a complete database has been observed
// since the state was last cleared.
func (s State) HasDatabase() bool {
	return s.Fingerprint != ""
}

// StateStore persists the watcher state across process restarts,
// scoped to a single relation instance. The blob is opaque to the
// store. Load returns an error satisfying errors.Is(err,
// errors.NotFound) when nothing has been stored yet.
type StateStore interface {
	Load(ctx context.Context, relationName string) ([]byte, error)
	Save(ctx context.Context, relationName string, blob []byte) error
}

func loadState(ctx context.Context, store StateStore, relationName string) (State, error) {
	blob, err := store.Load(ctx, relationName)
	if errors.Is(err, errors.NotFound) {
		return State{Version: stateVersion}, nil
	}
	if err != nil {
		return State{}, errors.Trace(err)
	}
	var st State
	if err := yaml.Unmarshal(blob, &st); err != nil {
		return State{}, errors.Annotatef(err, "cannot parse state for relation %q", relationName)
	}
	if st.Version != stateVersion {
		return State{}, errors.Errorf(
			"unsupported state version %d for relation %q", st.Version, relationName)
	}
	return st, nil
}

func saveState(ctx context.Context, store StateStore, relationName string, st State) error {
	st.Version = stateVersion
	blob, err := yaml.Marshal(st)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Annotatef(store.Save(ctx, relationName, blob),
		"cannot persist state for relation %q", relationName)
}
