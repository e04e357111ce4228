package history

// Log collects resource records during a simulation run.
// Append-only: entries are added in event order and never changed.
type Log struct {
	records []ResourceRecord
}

// NewLog creates a Log ready for recording.
func NewLog() *Log {
	return &Log{records: make([]ResourceRecord, 0)}
}

// Append adds a record to the log.
func (l *Log) Append(r ResourceRecord) {
	l.records = append(l.records, r)
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	return len(l.records)
}

// Records returns the log contents for inspection.
// The returned slice is the log's internal storage -- callers may iterate
// over it but MUST NOT modify it.
func (l *Log) Records() []ResourceRecord {
	return l.records
}
