// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package status holds the user-facing status values reported by the
// relation watcher. The values mirror the workload status vocabulary
// used by the operator framework: a Blocked status requires operator
// intervention, a Waiting status resolves itself once the remote side
// catches up.
package status

// Status represents the severity of a reported condition.
type Status string

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

const (
	// Blocked is set when:
	// The unit needs manual intervention to resolve a problem with the
	// relation, such as the relation being missing entirely or attached
	// to more than one remote application.
	Blocked Status = "blocked"

	// Waiting is set when:
	// The unit is waiting on the remote application to publish data it
	// is expected to provide eventually. No operator action is needed.
	Waiting Status = "waiting"
)

// KnownStatus reports whether the status is one the watcher emits.
func (s Status) KnownStatus() bool {
	switch s {
	case Blocked, Waiting:
		return true
	}
	return false
}

// StatusInfo holds a Status and associated information.
type StatusInfo struct {
	Status  Status `yaml:"status" json:"status"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}
