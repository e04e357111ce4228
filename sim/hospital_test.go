package sim

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHospital(beds, staff, supplies int) *Hospital {
	return NewHospital("h", beds, staff, supplies, testProfiles(), time.Hour)
}

func ask(t *testing.T, h *Hospital, kind MessageKind, body string) Message {
	t.Helper()
	reply := make(chan Message, 1)
	h.handle(Message{Kind: kind, Body: body, From: "test", reply: reply}, time.Now())
	select {
	case resp := <-reply:
		return resp
	default:
		t.Fatal("no reply delivered")
		return Message{}
	}
}

func TestHospital_HandleResourceQuery(t *testing.T) {
	h := newTestHospital(5, 8, 15)

	resp := ask(t, h, KindResourceQuery, "")
	assert.Equal(t, KindResourceResponse, resp.Kind)
	assert.Equal(t, "h", resp.From)

	snap, err := ParseSnapshot(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.BedsAvailable)
	assert.Equal(t, 8, snap.StaffAvailable)
	assert.Equal(t, 15, snap.SuppliesAvailable)
	assert.Equal(t, 0.0, snap.Occupancy)
}

// TestHospital_HandleBareQueryBody covers the legacy query form: body
// "resource_query" with no kind set.
func TestHospital_HandleBareQueryBody(t *testing.T) {
	h := newTestHospital(2, 3, 4)

	resp := ask(t, h, "", "resource_query")
	assert.Equal(t, KindResourceResponse, resp.Kind)
	_, err := ParseSnapshot(resp.Body)
	assert.NoError(t, err)
}

func TestHospital_HandleAdmission(t *testing.T) {
	h := newTestHospital(1, 2, 3)

	resp := ask(t, h, KindAdmissionRequest, "P1|1|north|emergency")
	assert.Equal(t, StatusAccepted, resp.Status)
	assert.Equal(t, "ACCEPTED|P1|0|h|emergency", resp.Body)

	// Pool is now bed-exhausted.
	resp = ask(t, h, KindAdmissionRequest, "P2|1|north|emergency")
	assert.Equal(t, StatusRejected, resp.Status)
	assert.Equal(t, "REJECTED|P2|NO_BEDS|h|emergency", resp.Body)
}

func TestHospital_HandleTransfer(t *testing.T) {
	h := newTestHospital(2, 4, 6)

	resp := ask(t, h, KindPatientTransfer, "P1|2||")
	assert.Equal(t, StatusAccepted, resp.Status)
	assert.Equal(t, "TRANSFER_ACCEPTED|P1|1|h|emergency", resp.Body)

	patients := h.Ledger().ActivePatients()
	require.Len(t, patients, 1)
	assert.Equal(t, "transferred", patients[0].Location)
}

// TestHospital_UnknownKindTreatedAsAdmission: an unrecognized kind still
// routes through the admission path rather than being dropped.
func TestHospital_UnknownKindTreatedAsAdmission(t *testing.T) {
	h := newTestHospital(1, 2, 3)

	resp := ask(t, h, "carrier_pigeon", "P1|4|south|routine")
	assert.Equal(t, StatusAccepted, resp.Status)
	assert.Equal(t, "ACCEPTED|P1|0|h|routine", resp.Body)
}

func TestHospital_HandleMalformedBody(t *testing.T) {
	h := newTestHospital(3, 6, 9)

	// Bare ID defaults to severity 3 routine and is still admitted.
	resp := ask(t, h, KindAdmissionRequest, "P9")
	assert.Equal(t, StatusAccepted, resp.Status)
	assert.Equal(t, "ACCEPTED|P9|2|h|routine", resp.Body)
}

// TestHospital_RunServicesExchanges spins up the actor and drives it through
// the channel transport end to end.
func TestHospital_RunServicesExchanges(t *testing.T) {
	h := newTestHospital(2, 4, 6)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	resp, ok := Exchange(ctx, h.Inbox, KindResourceQuery, "", "amb", time.Second)
	require.True(t, ok)
	snap, err := ParseSnapshot(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.BedsAvailable)

	for i := 0; i < 2; i++ {
		resp, ok = Exchange(ctx, h.Inbox, KindAdmissionRequest,
			FormatAdmissionRequest(PatientSpec{ID: fmt.Sprintf("P%d", i), Severity: 1, Location: "north", Type: TypeEmergency}),
			"amb", time.Second)
		require.True(t, ok)
		assert.Equal(t, StatusAccepted, resp.Status)
	}

	resp, ok = Exchange(ctx, h.Inbox, KindAdmissionRequest, "P3|1|north|emergency", "amb", time.Second)
	require.True(t, ok)
	assert.Equal(t, StatusRejected, resp.Status)
	accepted, reason := ParseReply(resp.Body)
	assert.False(t, accepted)
	assert.Equal(t, ReasonNoBeds, reason)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hospital did not stop on cancellation")
	}
}

// TestHospital_SweepFreesBedsWhileRunning uses a short sweep interval so
// discharges happen on the actor goroutine between admissions.
func TestHospital_SweepFreesBedsWhileRunning(t *testing.T) {
	profiles := ProfileTable{
		TypeEmergency: {Staff: 1, Supplies: 1, LengthOfStay: 20 * time.Millisecond},
		TypeRoutine:   {Staff: 1, Supplies: 1, LengthOfStay: 20 * time.Millisecond},
	}
	h := NewHospital("h", 1, 2, 3, profiles, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	resp, ok := Exchange(ctx, h.Inbox, KindAdmissionRequest, "P1|1|north|emergency", "amb", time.Second)
	require.True(t, ok)
	require.Equal(t, StatusAccepted, resp.Status)

	// After the stay elapses and at least one sweep fires, the bed is free.
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, ok = Exchange(ctx, h.Inbox, KindAdmissionRequest, "P2|1|north|emergency", "amb", time.Second)
		require.True(t, ok)
		if resp.Status == StatusAccepted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("bed never freed by the sweep")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestExchange_TimeoutOnSilentActor(t *testing.T) {
	inbox := make(chan Message, 1) // accepts the send, never replies

	start := time.Now()
	_, ok := Exchange(context.Background(), inbox, KindResourceQuery, "", "amb", 30*time.Millisecond)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}

func TestExchange_ContextCancellation(t *testing.T) {
	inbox := make(chan Message) // unbuffered, nobody receiving

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := Exchange(ctx, inbox, KindResourceQuery, "", "amb", time.Minute)
	assert.False(t, ok)
}
