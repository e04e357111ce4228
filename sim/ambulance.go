package sim

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	exprand "golang.org/x/exp/rand"
)

// HospitalHandle is an ambulance's view of one hospital: a name and an
// inbox to exchange messages with. Ambulances never touch hospital state
// directly. The handle slice order is the fixed fallback order.
type HospitalHandle struct {
	Name  string
	Inbox chan Message
}

// Ambulance is an independent actor driving the per-ambulance dispatch
// control loop: generate patients while the simulation window is open,
// query live hospital state, select and dispatch, and retry with
// escalation on failure until the retry queue drains.
type Ambulance struct {
	Name string

	hospitals []HospitalHandle
	gen       *PatientGenerator
	cfg       SimulationConfig
	stats     *AmbulanceStats
	retryQ    RetryQueue
	travel    distuv.Uniform
	policy    RetryPolicy // bound at Run start, once the deadline is known
	done      chan struct{}
}

// NewAmbulance creates an ambulance actor. Patient generation and travel
// delays draw from isolated subsystem streams of rng.
func NewAmbulance(name string, hospitals []HospitalHandle, cfg SimulationConfig, rng *PartitionedRNG) *Ambulance {
	return &Ambulance{
		Name:      name,
		hospitals: hospitals,
		gen:       NewPatientGenerator(name, rng.SeedFor(SubsystemAmbulance(name)), cfg.Generator),
		cfg:       cfg,
		stats:     NewAmbulanceStats(name),
		travel: distuv.Uniform{
			Min: float64(cfg.TravelTimeMin),
			Max: float64(cfg.TravelTimeMax),
			Src: exprand.NewSource(uint64(rng.SeedFor(SubsystemTravel(name)))),
		},
		done: make(chan struct{}),
	}
}

// Done is closed when the ambulance has finalized its statistics.
func (a *Ambulance) Done() <-chan struct{} { return a.done }

// Stats exposes the ambulance's outcome counters. Only safe to read after
// Done is closed.
func (a *Ambulance) Stats() *AmbulanceStats { return a.stats }

// Run drives the dispatch loop: on each tick the earliest due retry runs
// first; otherwise new work is generated while the window is open; once it
// closes, remaining retries drain within the grace period and the actor
// halts.
func (a *Ambulance) Run(ctx context.Context) {
	defer close(a.done)
	logrus.Infof("[%s] ambulance started, %d hospitals known", a.Name, len(a.hospitals))

	deadline := time.Now().Add(a.cfg.Duration)
	a.policy = RetryPolicy{
		MaxAttempts: a.cfg.MaxRetryAttempts,
		Delay:       a.cfg.RetryDelay,
		Deadline:    deadline,
		Grace:       a.cfg.RetryGracePeriod,
	}

	for ctx.Err() == nil {
		now := time.Now()

		if att := a.retryQ.PopReady(now); att != nil {
			a.attempt(ctx, att)
			continue
		}

		if now.Before(deadline) {
			for _, p := range a.gen.Next(a.retryQ.Len() == 0) {
				a.stats.Generated++
				a.attempt(ctx, &DispatchAttempt{Patient: p, State: AttemptPending})
			}
			a.sleep(ctx, a.cfg.GenerationInterval)
			continue
		}

		next, ok := a.retryQ.EarliestTime()
		if !ok {
			break
		}
		if next.After(deadline.Add(a.cfg.RetryGracePeriod)) {
			break
		}
		a.sleep(ctx, time.Until(next))
	}

	// Whatever is still pending (cancellation, or retries scheduled past
	// the grace period) is abandoned under its last rejection reason.
	for _, att := range a.retryQ.Drain() {
		att.State = AttemptFailed
		a.stats.RecordFailure(att.LastReason)
	}
	logrus.Infof("[%s] finished: %d admitted, %d failed, %d retries",
		a.Name, a.stats.Succeeded, a.stats.Failed, a.stats.Retries)
}

// attempt performs one dispatch cycle for a patient: query, select, travel,
// dispatch with fallback, then resolve the outcome.
func (a *Ambulance) attempt(ctx context.Context, att *DispatchAttempt) {
	p := att.Patient
	att.State = AttemptPending
	logrus.Debugf("[%s] processing %s (severity %d, %s), attempt %d",
		a.Name, p.ID, p.Severity, p.Type, att.Retries+1)

	snapshots := a.queryResources(ctx)
	chosen, ok := SelectHospital(snapshots, p.Severity, p.Type, a.cfg.Profiles)
	if !ok {
		logrus.Infof("[%s] %s: no hospital can accommodate", a.Name, p.ID)
		a.resolve(att, ReasonNoHospital)
		return
	}

	att.State = AttemptDispatched
	a.sleep(ctx, time.Duration(a.travel.Rand()))

	reason, accepted := a.dispatchWithFallback(ctx, att, chosen.Name)
	if accepted {
		att.State = AttemptSucceeded
		return
	}
	a.resolve(att, reason)
}

// queryResources fans a resource query out to every known hospital in list
// order. Best-effort: a hospital that does not answer in time, or answers
// with a malformed body, is simply absent from the result.
func (a *Ambulance) queryResources(ctx context.Context) []HospitalSnapshot {
	snapshots := make([]HospitalSnapshot, 0, len(a.hospitals))
	for _, h := range a.hospitals {
		reply, ok := Exchange(ctx, h.Inbox, KindResourceQuery, string(KindResourceQuery), a.Name, a.cfg.QueryTimeout)
		if !ok {
			logrus.Debugf("[%s] resource query to %s timed out", a.Name, h.Name)
			continue
		}
		snap, err := ParseSnapshot(reply.Body)
		if err != nil {
			logrus.Debugf("[%s] bad snapshot from %s: %v", a.Name, h.Name, err)
			continue
		}
		snapshots = append(snapshots, HospitalSnapshot{Name: h.Name, Resources: snap})
	}
	return snapshots
}

// dispatchWithFallback sends the admission request to the chosen hospital
// and, on rejection or timeout, falls back to the untried hospitals in list
// order. Fallback targets are not re-queried: selection state may be stale
// by then, which is accepted behavior. Returns the reason from the last
// reply when every target fails.
func (a *Ambulance) dispatchWithFallback(ctx context.Context, att *DispatchAttempt, first string) (RejectReason, bool) {
	targets := make([]HospitalHandle, 0, len(a.hospitals))
	for _, h := range a.hospitals {
		if h.Name == first {
			targets = append(targets, h)
		}
	}
	for _, h := range a.hospitals {
		if h.Name != first {
			targets = append(targets, h)
		}
	}

	body := FormatAdmissionRequest(att.Patient)
	lastReason := ReasonTimeout
	for i, h := range targets {
		if ctx.Err() != nil {
			return lastReason, false
		}
		if i > 0 {
			logrus.Infof("[%s] %s: falling back to %s", a.Name, att.Patient.ID, h.Name)
		}
		start := time.Now()
		reply, ok := Exchange(ctx, h.Inbox, KindAdmissionRequest, body, a.Name, a.cfg.AdmissionTimeout)
		if !ok {
			logrus.Warnf("[%s] %s: no reply from %s", a.Name, att.Patient.ID, h.Name)
			lastReason = ReasonTimeout
			continue
		}
		accepted, reason := ParseReply(reply.Body)
		if accepted || reply.Status == StatusAccepted {
			a.stats.RecordSuccess(time.Since(start))
			logrus.Infof("[%s] %s admitted at %s", a.Name, att.Patient.ID, h.Name)
			return "", true
		}
		lastReason = reason
	}
	return lastReason, false
}

// resolve applies the retry policy to a failed attempt, either re-queueing
// it with escalation and backoff or recording a terminal failure.
func (a *Ambulance) resolve(att *DispatchAttempt, reason RejectReason) {
	att.LastReason = reason
	if a.policy.PlanRetry(att, reason, time.Now()) {
		a.stats.Retries++
		a.retryQ.Push(att)
		logrus.Infof("[%s] %s retry %d/%d scheduled in %s (reason %s)",
			a.Name, att.Patient.ID, att.Retries, a.policy.MaxAttempts,
			time.Until(att.NextAttemptTime).Round(time.Millisecond), reason)
		return
	}
	att.State = AttemptFailed
	a.stats.RecordFailure(reason)
	logrus.Warnf("[%s] %s not admitted: %s", a.Name, att.Patient.ID, reason)
}

// sleep waits for d or until the context is cancelled.
func (a *Ambulance) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
