package entity

// QueuedSubmission is a payload waiting in the sync queue. RecordID is set when
// the submission edits an existing record.
type QueuedSubmission struct {
	RecordID    *int64      `json:"record_id,omitempty"`
	Observation Observation `json:"observation"`
	Images      []string    `json:"images"`
}
