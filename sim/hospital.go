package sim

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Hospital is an independent actor: a single goroutine blocking on its
// inbound-message channel and a discharge-sweep ticker. All mutation of the
// ledger happens on that goroutine, so admission handling and the discharge
// sweep never interleave destructively.
type Hospital struct {
	Name   string
	Inbox  chan Message
	ledger *AdmissionLedger

	sweepInterval time.Duration
}

// NewHospital creates a hospital actor with a fully-available resource pool.
func NewHospital(name string, beds, staff, supplies int, profiles ProfileTable, sweepInterval time.Duration) *Hospital {
	return &Hospital{
		Name:          name,
		Inbox:         make(chan Message, 16),
		ledger:        NewAdmissionLedger(name, beds, staff, supplies, profiles),
		sweepInterval: sweepInterval,
	}
}

// Ledger exposes the hospital's admission ledger for reporting after the
// actor has stopped. Not safe to call while Run is live.
func (h *Hospital) Ledger() *AdmissionLedger { return h.ledger }

// Run services the inbox until the context is cancelled, running the
// discharge sweep on its fixed interval in between messages.
func (h *Hospital) Run(ctx context.Context) {
	logrus.Infof("[%s] started with %d beds", h.Name, h.ledger.Snapshot().BedsTotal)

	ticker := time.NewTicker(h.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("[%s] stopped", h.Name)
			return
		case now := <-ticker.C:
			h.ledger.RunDischargeSweep(now)
		case msg := <-h.Inbox:
			h.handle(msg, time.Now())
		}
	}
}

// handle dispatches one message by kind. Messages without a recognized kind
// are treated as admission requests, and a bare "resource_query" body is
// answered as a query regardless of kind.
func (h *Hospital) handle(msg Message, now time.Time) {
	if msg.Kind == KindResourceQuery || msg.Body == string(KindResourceQuery) {
		msg.Reply(Message{
			Kind: KindResourceResponse,
			Body: FormatSnapshot(h.ledger.Snapshot()),
			From: h.Name,
		})
		return
	}

	transfer := msg.Kind == KindPatientTransfer
	req := ParseAdmissionRequest(msg.Body)

	var res AdmissionResult
	if transfer {
		// Transfers arrive from another hospital, not a field scene, so the
		// parser's "unknown" placeholder gives way to the transfer default.
		if req.Location == "unknown" {
			req.Location = ""
		}
		res = h.ledger.HandleTransfer(req, now)
	} else {
		res = h.ledger.Admit(req, now)
	}

	status := StatusRejected
	if res.Accepted {
		status = StatusAccepted
	}
	msg.Reply(Message{
		Kind:   msg.Kind,
		Body:   FormatAdmissionReply(res, req.PatientID, h.Name, transfer),
		Status: status,
		From:   h.Name,
	})
}
