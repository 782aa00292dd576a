// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package relation

import (
	"context"

	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/dbrelation/core/database"
)

// mandatoryKeys are the settings a remote application must publish
// before a database can be extracted. The port is optional and carries
// a default.
var mandatoryKeys = set.NewStrings("database", "host", "user", "password")

// Database returns the database published on the relation by the sole
// remote application. It fails with ErrMissingRelation when there is
// no remote application, ErrTooManyRelatedApplications when there is
// more than one, and ErrIncompleteRelation when the remote application
// has not published every mandatory field.
func Database(ctx context.Context, reader Reader) (database.Database, error) {
	apps, err := reader.RemoteApplications(ctx)
	if err != nil {
		return database.Database{}, errors.Trace(err)
	}
	if len(apps) == 0 {
		return database.Database{}, ErrMissingRelation
	}
	if len(apps) > 1 {
		return database.Database{}, ErrTooManyRelatedApplications
	}
	db, found, err := fromApplication(ctx, apps[0])
	if err != nil {
		return database.Database{}, errors.Trace(err)
	}
	if !found {
		return database.Database{}, ErrIncompleteRelation
	}
	return db, nil
}

// AllAvailable returns every complete database published on the
// relation, one per remote application at most, in application order.
// Unlike Database it tolerates multiple remote applications. It fails
// with ErrMissingRelation when there is no remote application and
// ErrIncompleteRelation when no application has published a complete
// set of fields.
func AllAvailable(ctx context.Context, reader Reader) ([]database.Database, error) {
	apps, err := reader.RemoteApplications(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(apps) == 0 {
		return nil, ErrMissingRelation
	}
	var dbs []database.Database
	for _, app := range apps {
		db, found, err := fromApplication(ctx, app)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if found {
			dbs = append(dbs, db)
		}
	}
	if len(dbs) == 0 {
		return nil, ErrIncompleteRelation
	}
	return dbs, nil
}

// fromApplication walks the candidate data bags for one remote
// application: the application bag first, then each unit bag in order.
// Application data is the source of truth; the unit fallback exists
// for older providers where only the leader unit sets the fields.
func fromApplication(ctx context.Context, app RemoteApplication) (database.Database, bool, error) {
	appSettings, err := app.Settings(ctx)
	if err != nil {
		return database.Database{}, false, errors.Trace(err)
	}
	if db, ok := FromSettings(appSettings); ok {
		return db, true, nil
	}
	logger.Debugf("application %q settings missing %v",
		app.Tag().Id(), missingKeys(appSettings).SortedValues())

	for _, unit := range app.UnitTags() {
		unitSettings, err := app.UnitSettings(ctx, unit)
		if err != nil {
			return database.Database{}, false, errors.Trace(err)
		}
		if db, ok := FromSettings(unitSettings); ok {
			return db, true, nil
		}
		logger.Debugf("unit %q settings missing %v",
			unit.Id(), missingKeys(unitSettings).SortedValues())
	}
	return database.Database{}, false, nil
}

// FromSettings builds a database from a single data bag. It reports
// false when any mandatory key is absent or empty; the port falls back
// to database.DefaultPort.
func FromSettings(s Settings) (database.Database, bool) {
	if !missingKeys(s).IsEmpty() {
		return database.Database{}, false
	}
	port := s["port"]
	if port == "" {
		port = database.DefaultPort
	}
	return database.Database{
		Name:     s["database"],
		Host:     s["host"],
		Port:     port,
		Username: s["user"],
		Password: s["password"],
	}, true
}

func missingKeys(s Settings) set.Strings {
	present := set.NewStrings()
	for k, v := range s {
		if v != "" {
			present.Add(k)
		}
	}
	return mandatoryKeys.Difference(present)
}
