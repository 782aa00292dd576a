// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package relation

import (
	"fmt"

	"github.com/juju/errors"

	"github.com/juju/dbrelation/core/status"
)

// StatusFor maps a taxonomy error to the status the host should show
// for relationName. Errors outside the taxonomy, and a broken
// relation, get the blocked missing-relation status: in both cases
// there is nothing usable on the other side.
func StatusFor(relationName string, err error) status.StatusInfo {
	switch {
	case errors.Is(err, ErrIncompleteRelation):
		return status.StatusInfo{
			Status:  status.Waiting,
			Message: fmt.Sprintf("Waiting for database: %s", relationName),
		}
	case errors.Is(err, ErrTooManyRelatedApplications):
		return status.StatusInfo{
			Status:  status.Blocked,
			Message: fmt.Sprintf("Too many related applications: %s", relationName),
		}
	default:
		return status.StatusInfo{
			Status:  status.Blocked,
			Message: fmt.Sprintf("Missing relation: %s", relationName),
		}
	}
}
