// Package history provides append-only resource-event recording for
// auditing and testing. It stores pure data types and has no dependency
// on the sim package.
package history

import "time"

// EventKind identifies what changed a hospital's resource levels.
type EventKind string

const (
	KindAdmission EventKind = "admission"
	KindTransfer  EventKind = "transfer"
	KindDischarge EventKind = "discharge"
)

// ResourceRecord captures one resource-level change with the post-event
// pool levels. Records are never mutated after append.
type ResourceRecord struct {
	Hospital  string
	PatientID string
	Kind      EventKind
	Time      time.Time

	BedsAvailable     int
	StaffAvailable    int
	SuppliesAvailable int
}
