// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package watcher_test

import (
	"context"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/names/v5"

	"github.com/juju/dbrelation/relation"
)

// memStore is an in-memory StateStore; sharing one across watchers
// simulates a process restart.
type memStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (s *memStore) Load(_ context.Context, relationName string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.blobs[relationName]
	if !ok {
		return nil, errors.NotFoundf("state for relation %q", relationName)
	}
	return blob, nil
}

func (s *memStore) Save(_ context.Context, relationName string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.blobs[relationName] = blob
	return nil
}

func (s *memStore) failSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// stubRelation implements relation.Reader over mutable canned data so
// tests can vary the remote side between notifications.
type stubRelation struct {
	mu   sync.Mutex
	apps []relation.RemoteApplication
}

func (r *stubRelation) RemoteApplications(_ context.Context) ([]relation.RemoteApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apps, nil
}

func (r *stubRelation) setApps(apps ...relation.RemoteApplication) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps = apps
}

// stubApp is an application-level publisher; units are not needed for
// the watcher tests, the fallback chain is covered in the relation
// package.
type stubApp struct {
	tag      names.ApplicationTag
	settings relation.Settings
}

func newStubApp(name string, settings relation.Settings) *stubApp {
	return &stubApp{tag: names.NewApplicationTag(name), settings: settings}
}

func (a *stubApp) Tag() names.ApplicationTag {
	return a.tag
}

func (a *stubApp) Settings(_ context.Context) (relation.Settings, error) {
	return a.settings, nil
}

func (a *stubApp) UnitTags() []names.UnitTag {
	return nil
}

func (a *stubApp) UnitSettings(_ context.Context, tag names.UnitTag) (relation.Settings, error) {
	return nil, errors.NotFoundf("unit %q", tag.Id())
}

func fullSettings() relation.Settings {
	return relation.Settings{
		"database": "app",
		"host":     "10.0.0.5",
		"user":     "u",
		"password": "p",
	}
}
