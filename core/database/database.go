// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package database holds the value type describing a database made
// available to this unit over a relation.
package database

import (
	"crypto/sha256"
	"fmt"
	"sort"
)

// DefaultPort is used when the remote application does not publish a
// port of its own.
const DefaultPort = "3306"

// Database describes a database offered by a remote application.
// Values are immutable once extracted from relation data; a new
// observation produces a new value.
type Database struct {
	// Name is the name of the database that has been created for
	// this unit.
	Name string `yaml:"name" json:"name"`

	// Host is the address the database is reachable at.
	Host string `yaml:"host" json:"host"`

	// Port is the port the database listens on. Never empty; it
	// defaults to DefaultPort at extraction time.
	Port string `yaml:"port" json:"port"`

	// Username and Password authenticate against the database.
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Complete reports whether the database holds every mandatory field.
// Port is not mandatory as it carries a default.
func (d Database) Complete() bool {
	return d.Name != "" && d.Host != "" && d.Username != "" && d.Password != ""
}

// String implements fmt.Stringer, omitting the password.
func (d Database) String() string {
	return fmt.Sprintf("%s@%s:%s/%s", d.Username, d.Host, d.Port, d.Name)
}

// Fingerprint identifies the content of a Database independently of
// how it was assembled. Two databases with the same field values
// always share a fingerprint.
type Fingerprint string

// Fingerprint returns the content fingerprint of the database. The
// hash is computed over the key/value pairs in sorted key order so
// construction order can never produce a spurious difference.
func (d Database) Fingerprint() Fingerprint {
	pairs := d.fields()
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		// Length-prefix both halves so adjacent values can't collide
		// by shifting bytes across the separator.
		fmt.Fprintf(h, "%d:%s=%d:%s;", len(k), k, len(pairs[k]), pairs[k])
	}
	return Fingerprint(fmt.Sprintf("%x", h.Sum(nil)))
}

func (d Database) fields() map[string]string {
	return map[string]string{
		"name":     d.Name,
		"host":     d.Host,
		"port":     d.Port,
		"username": d.Username,
		"password": d.Password,
	}
}
