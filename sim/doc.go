// Package sim simulates emergency-patient routing across a small network
// of hospitals and ambulances.
//
// Each hospital is an actor owning an admission ledger: three co-constrained
// resource pools (beds, staff, supplies), the set of admitted patients, and
// a time-driven discharge schedule that recovers resources. Each ambulance
// is an actor generating patients (including bursty mass-casualty events),
// querying advertised hospital state, selecting a destination under a
// severity-sensitive heuristic, and retrying with escalation and linear
// backoff on rejection or timeout.
//
// Actors communicate only through channel-based request/reply exchanges
// with explicit timeouts; no actor reads another's state directly.
package sim
