package sim

// Identity and classification types shared across the simulator.

// PatientType drives the resource cost and length-of-stay profile.
type PatientType string

const (
	TypeEmergency PatientType = "emergency"
	TypeRoutine   PatientType = "routine"
)

// RejectReason classifies why a dispatch attempt did not result in admission.
type RejectReason string

const (
	ReasonNoBeds     RejectReason = "NO_BEDS"
	ReasonNoStaff    RejectReason = "NO_STAFF"
	ReasonNoSupplies RejectReason = "NO_SUPPLIES"
	ReasonTimeout    RejectReason = "TIMEOUT"
	ReasonNoHospital RejectReason = "NO_HOSPITAL"
)

// Retryable reports whether a rejection with this reason is eligible for
// re-dispatch under the backoff policy.
func (r RejectReason) Retryable() bool {
	switch r {
	case ReasonNoBeds, ReasonNoStaff, ReasonNoSupplies, ReasonTimeout, ReasonNoHospital:
		return true
	}
	return false
}

// AttemptState is the lifecycle state of an in-flight dispatch attempt.
type AttemptState string

const (
	AttemptPending    AttemptState = "PENDING"
	AttemptDispatched AttemptState = "DISPATCHED"
	AttemptRetryWait  AttemptState = "RETRY_PENDING"
	AttemptSucceeded  AttemptState = "SUCCEEDED"
	AttemptFailed     AttemptState = "FAILED"
)

// severityLabels maps severity 1..5 to a human-readable label for reports.
var severityLabels = [...]string{"critical", "urgent", "moderate", "low", "minimal"}

// SeverityLabel returns the report label for a severity value.
// Out-of-range severities yield "unknown".
func SeverityLabel(severity int) string {
	if severity < 1 || severity > len(severityLabels) {
		return "unknown"
	}
	return severityLabels[severity-1]
}

// DefaultLocations is the fixed tag set patients are drawn from.
var DefaultLocations = []string{"north", "south", "east", "west", "center"}
