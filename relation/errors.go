// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package relation

import (
	"github.com/juju/errors"
)

const (
	// ErrMissingRelation describes a relation that has no remote
	// application at all, either because it was never established or
	// because it has been removed.
	ErrMissingRelation = errors.ConstError("missing relation")

	// ErrTooManyRelatedApplications describes a relation with more
	// than one remote application. The extraction would be ambiguous
	// so none is attempted.
	ErrTooManyRelatedApplications = errors.ConstError("too many related applications")

	// ErrIncompleteRelation describes a relation whose remote
	// application has not (yet) published every mandatory field.
	// Expected while the remote side is still coming up.
	ErrIncompleteRelation = errors.ConstError("incomplete relation")
)

// IsRelationError reports whether err belongs to the package taxonomy,
// as opposed to an infrastructure failure reading the relation data.
func IsRelationError(err error) bool {
	return errors.Is(err, ErrMissingRelation) ||
		errors.Is(err, ErrTooManyRelatedApplications) ||
		errors.Is(err, ErrIncompleteRelation)
}
