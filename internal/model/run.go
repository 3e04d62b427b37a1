package model

import "time"

// RunStatus represents the outcome of one enrichment run.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is the persisted log entry for one enrichment request.
type Run struct {
	ID         string    `json:"id"`
	ProfileURL string    `json:"profile_url"`
	Channel    Channel   `json:"channel,omitempty"`
	Status     RunStatus `json:"status"`
	PageID     string    `json:"page_id,omitempty"`
	Diagnostic string    `json:"diagnostic,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
