package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// Pipe-delimited wire codec for the hospital <-> ambulance exchanges.
// The format is a minimal placeholder: parse(format(x)) == x holds for all
// valid patient and resource tuples, and malformed request bodies are
// defaulted rather than rejected (spec'd defaults: severity 3, location
// "unknown", type inferred from severity).

// Reply body prefixes.
const (
	replyAccepted         = "ACCEPTED"
	replyRejected         = "REJECTED"
	replyTransferAccepted = "TRANSFER_ACCEPTED"
	replyTransferRejected = "TRANSFER_REJECTED"
)

// FormatSnapshot encodes a resource snapshot as
// "beds:<avail>/<total>|staff:<avail>/<total>|supplies:<avail>/<total>|occupancy:<ratio>"
// with the occupancy ratio printed to 2 decimals.
func FormatSnapshot(s ResourceSnapshot) string {
	return fmt.Sprintf("beds:%d/%d|staff:%d/%d|supplies:%d/%d|occupancy:%.2f",
		s.BedsAvailable, s.BedsTotal,
		s.StaffAvailable, s.StaffTotal,
		s.SuppliesAvailable, s.SuppliesTotal,
		s.Occupancy)
}

// ParseSnapshot decodes a snapshot body. Unlike request parsing, snapshot
// parsing is strict: a malformed response is dropped by the querier (the
// hospital is simply absent from the selection mapping).
func ParseSnapshot(body string) (ResourceSnapshot, error) {
	var s ResourceSnapshot
	seen := make(map[string]bool)
	for _, item := range strings.Split(body, "|") {
		key, value, ok := strings.Cut(item, ":")
		if !ok {
			return ResourceSnapshot{}, fmt.Errorf("snapshot field %q: missing ':'", item)
		}
		var err error
		switch key {
		case "beds":
			s.BedsAvailable, s.BedsTotal, err = parseRatio(value)
		case "staff":
			s.StaffAvailable, s.StaffTotal, err = parseRatio(value)
		case "supplies":
			s.SuppliesAvailable, s.SuppliesTotal, err = parseRatio(value)
		case "occupancy":
			s.Occupancy, err = strconv.ParseFloat(value, 64)
		default:
			return ResourceSnapshot{}, fmt.Errorf("snapshot field %q: unknown key", key)
		}
		if err != nil {
			return ResourceSnapshot{}, fmt.Errorf("snapshot field %q: %w", item, err)
		}
		seen[key] = true
	}
	for _, key := range []string{"beds", "staff", "supplies", "occupancy"} {
		if !seen[key] {
			return ResourceSnapshot{}, fmt.Errorf("snapshot missing %q", key)
		}
	}
	return s, nil
}

func parseRatio(value string) (avail, total int, err error) {
	a, t, ok := strings.Cut(value, "/")
	if !ok {
		return 0, 0, fmt.Errorf("missing '/'")
	}
	if avail, err = strconv.Atoi(a); err != nil {
		return 0, 0, err
	}
	if total, err = strconv.Atoi(t); err != nil {
		return 0, 0, err
	}
	return avail, total, nil
}

// FormatAdmissionRequest encodes a patient as "<id>|<severity>|<location>|<type>".
func FormatAdmissionRequest(p PatientSpec) string {
	return fmt.Sprintf("%s|%d|%s|%s", p.ID, p.Severity, p.Location, p.Type)
}

// ParseAdmissionRequest decodes a request body, defaulting missing or
// malformed fields: severity 3, location "unknown", type inferred from
// severity. Never fails; a completely unparseable body becomes a patient
// whose ID is the raw body.
func ParseAdmissionRequest(body string) AdmissionRequest {
	req := AdmissionRequest{
		PatientID: body,
		Severity:  3,
		Location:  "unknown",
	}
	parts := strings.Split(body, "|")
	if len(parts) > 0 && parts[0] != "" {
		req.PatientID = parts[0]
	}
	if len(parts) > 1 {
		if sev, err := strconv.Atoi(parts[1]); err == nil {
			req.Severity = sev
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		req.Location = parts[2]
	}
	if len(parts) > 3 {
		switch PatientType(parts[3]) {
		case TypeEmergency, TypeRoutine:
			req.Type = PatientType(parts[3])
		}
	}
	if req.Type == "" {
		req.Type = InferType(req.Severity)
	}
	return req
}

// FormatAdmissionReply encodes the ledger decision:
// accepted -> "ACCEPTED|<id>|<bedsAvailable>|<hospital>|<type>",
// rejected -> "REJECTED|<id>|<reason>|<hospital>|<type>".
// Transfers use the TRANSFER_-prefixed variants.
func FormatAdmissionReply(res AdmissionResult, patientID, hospital string, transfer bool) string {
	if res.Accepted {
		prefix := replyAccepted
		if transfer {
			prefix = replyTransferAccepted
		}
		return fmt.Sprintf("%s|%s|%d|%s|%s", prefix, patientID, res.BedsRemaining, hospital, res.PatientType)
	}
	prefix := replyRejected
	if transfer {
		prefix = replyTransferRejected
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s", prefix, patientID, res.Reason, hospital, res.PatientType)
}

// ParseReply interprets a reply body. accepted is true for the ACCEPTED
// prefixes. For rejections the carried reason is returned when it is a
// recognized resource reason; anything unintelligible degrades to TIMEOUT,
// which the retry policy treats the same as no response at all.
func ParseReply(body string) (accepted bool, reason RejectReason) {
	parts := strings.Split(body, "|")
	switch parts[0] {
	case replyAccepted, replyTransferAccepted:
		return true, ""
	}
	if len(parts) > 2 {
		switch r := RejectReason(parts[2]); r {
		case ReasonNoBeds, ReasonNoStaff, ReasonNoSupplies:
			return false, r
		}
	}
	return false, ReasonTimeout
}
