// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package relation reads the data published by the remote side of a
// database relation and extracts the connection details from it.
//
// The package does no I/O of its own; the host supplies a Reader for
// the relation under observation and the functions here turn whatever
// it returns into either a core/database value or one of the failures
// in the package taxonomy.
package relation

import (
	"context"

	"github.com/juju/loggo"
	"github.com/juju/names/v5"
)

var logger = loggo.GetLogger("dbrelation.relation")

// Settings is the data bag published by a single endpoint on a
// relation. Values may be absent or empty; consumers must not assume
// any particular keys are present.
type Settings map[string]string

// RemoteApplication gives access to the data published by one remote
// application and by its units on a relation.
type RemoteApplication interface {
	// Tag identifies the remote application.
	Tag() names.ApplicationTag

	// Settings returns the application-level data bag. A missing bag
	// is returned as empty Settings, not an error.
	Settings(ctx context.Context) (Settings, error)

	// UnitTags returns the remote units in a stable order.
	UnitTags() []names.UnitTag

	// UnitSettings returns the data bag published by the given remote
	// unit.
	UnitSettings(ctx context.Context, tag names.UnitTag) (Settings, error)
}

// Reader enumerates the remote side of a named relation. It is
// implemented by the host; the watcher core only ever reads through
// it.
type Reader interface {
	// RemoteApplications returns the remote applications on the
	// relation in a stable order. An empty result means the relation
	// has not been established yet.
	RemoteApplications(ctx context.Context) ([]RemoteApplication, error)
}
