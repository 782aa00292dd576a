// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package relation_test

import (
	"github.com/juju/errors"
	"github.com/juju/testing"
	gc "gopkg.in/check.v1"

	"github.com/juju/dbrelation/core/status"
	"github.com/juju/dbrelation/relation"
)

type StatusSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&StatusSuite{})

func (*StatusSuite) TestStatusFor(c *gc.C) {
	for _, t := range []struct {
		err      error
		expected status.StatusInfo
	}{{
		err: relation.ErrMissingRelation,
		expected: status.StatusInfo{
			Status:  status.Blocked,
			Message: "Missing relation: db",
		},
	}, {
		err: relation.ErrTooManyRelatedApplications,
		expected: status.StatusInfo{
			Status:  status.Blocked,
			Message: "Too many related applications: db",
		},
	}, {
		err: relation.ErrIncompleteRelation,
		expected: status.StatusInfo{
			Status:  status.Waiting,
			Message: "Waiting for database: db",
		},
	}, {
		// Anything outside the taxonomy reads as the relation being
		// unusable.
		err: errors.New("splat"),
		expected: status.StatusInfo{
			Status:  status.Blocked,
			Message: "Missing relation: db",
		},
	}} {
		c.Check(relation.StatusFor("db", t.err), gc.DeepEquals, t.expected,
			gc.Commentf("error %v", t.err))
	}
}

func (*StatusSuite) TestWrappedErrorsKeepTheirStatus(c *gc.C) {
	err := errors.Annotate(relation.ErrIncompleteRelation, "reading relation")
	info := relation.StatusFor("db", err)
	c.Check(info.Status, gc.Equals, status.Waiting)
}
