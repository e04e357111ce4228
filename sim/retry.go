package sim

import "time"

// DispatchAttempt wraps a candidate patient with its retry bookkeeping.
// Scheduler-owned and transient: once terminal (success or exhausted
// retries) the attempt only survives in the aggregate counters.
type DispatchAttempt struct {
	Patient         PatientSpec
	Retries         int
	NextAttemptTime time.Time
	State           AttemptState
	LastReason      RejectReason
}

// RetryQueue holds retry-pending attempts for one ambulance.
// A plain slice: the pending set stays small and a linear scan keeps
// earliest-first selection with stable insertion-order ties.
type RetryQueue struct {
	pending []*DispatchAttempt
}

// Len returns the number of retry-pending attempts.
func (q *RetryQueue) Len() int { return len(q.pending) }

// Push adds an attempt to the queue.
func (q *RetryQueue) Push(att *DispatchAttempt) {
	q.pending = append(q.pending, att)
}

// PopReady removes and returns the attempt with the earliest
// NextAttemptTime that is due at now, or nil if none is due.
// Ties keep insertion order (strict < comparison).
func (q *RetryQueue) PopReady(now time.Time) *DispatchAttempt {
	best := -1
	for i, att := range q.pending {
		if att.NextAttemptTime.After(now) {
			continue
		}
		if best == -1 || att.NextAttemptTime.Before(q.pending[best].NextAttemptTime) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}
	att := q.pending[best]
	q.pending = append(q.pending[:best], q.pending[best+1:]...)
	return att
}

// EarliestTime returns the soonest NextAttemptTime in the queue.
func (q *RetryQueue) EarliestTime() (time.Time, bool) {
	if len(q.pending) == 0 {
		return time.Time{}, false
	}
	earliest := q.pending[0].NextAttemptTime
	for _, att := range q.pending[1:] {
		if att.NextAttemptTime.Before(earliest) {
			earliest = att.NextAttemptTime
		}
	}
	return earliest, true
}

// Drain removes and returns all pending attempts. Used when the simulation
// window plus grace period has closed and remaining retries are abandoned.
func (q *RetryQueue) Drain() []*DispatchAttempt {
	out := q.pending
	q.pending = nil
	return out
}

// RetryPolicy bounds re-dispatch of failed attempts: a failure is retried
// only for a retryable reason, below the attempt cap, and only when the
// next attempt still falls inside the simulation window plus grace.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration // linear backoff unit: next = now + Delay*retries
	Deadline    time.Time     // simulation window end
	Grace       time.Duration // drain allowance past the deadline
}

// PlanRetry decides whether the attempt is retried after failing with
// reason at now. When it is, the retry counter increments, severity
// escalation applies, and NextAttemptTime is set with linear backoff.
func (p RetryPolicy) PlanRetry(att *DispatchAttempt, reason RejectReason, now time.Time) bool {
	if !reason.Retryable() || att.Retries >= p.MaxAttempts {
		return false
	}
	next := now.Add(time.Duration(att.Retries+1) * p.Delay)
	if next.After(p.Deadline.Add(p.Grace)) {
		return false
	}
	att.Retries++
	Escalate(&att.Patient)
	att.NextAttemptTime = next
	att.State = AttemptRetryWait
	att.LastReason = reason
	return true
}

// Escalate raises the priority of a patient awaiting retry: a routine
// patient above severity 2 moves one step toward critical, and is re-typed
// to emergency once severity reaches 2 or below.
func Escalate(p *PatientSpec) {
	if p.Type != TypeRoutine || p.Severity <= 2 {
		return
	}
	p.Severity--
	if p.Severity <= 2 {
		p.Type = TypeEmergency
	}
}
