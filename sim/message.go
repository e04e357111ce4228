package sim

import (
	"context"
	"time"
)

// MessageKind tags an exchange the way the wire metadata does.
type MessageKind string

const (
	KindAdmissionRequest MessageKind = "admission_request"
	KindPatientTransfer  MessageKind = "patient_transfer"
	KindResourceQuery    MessageKind = "resource_query"
	KindResourceResponse MessageKind = "resource_response"
)

// Status is the reply metadata flag.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Message is the envelope exchanged between actors. The transport is a
// plain channel per receiving actor; delivery is assumed reliable but slow,
// so every exchange is bounded by an explicit timeout.
type Message struct {
	Kind   MessageKind
	Body   string
	Status Status // set on replies
	From   string

	reply chan Message
}

// Reply delivers a response to the requester without blocking the replying
// actor. A requester that already timed out simply misses the reply.
func (m Message) Reply(resp Message) {
	if m.reply == nil {
		return
	}
	select {
	case m.reply <- resp:
	default:
	}
}

// Exchange performs one request/reply round trip against an actor inbox.
// The timeout bounds the whole exchange (send plus reply wait); ok is false
// on timeout or context cancellation, which downstream logic treats
// identically to an explicit TIMEOUT rejection.
func Exchange(ctx context.Context, inbox chan<- Message, kind MessageKind, body, from string, timeout time.Duration) (Message, bool) {
	reply := make(chan Message, 1)
	msg := Message{Kind: kind, Body: body, From: from, reply: reply}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case inbox <- msg:
	case <-timer.C:
		return Message{}, false
	case <-ctx.Done():
		return Message{}, false
	}

	select {
	case resp := <-reply:
		return resp, true
	case <-timer.C:
		return Message{}, false
	case <-ctx.Done():
		return Message{}, false
	}
}
