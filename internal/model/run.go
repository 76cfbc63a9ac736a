package model

import "time"

// RunStatus is the outcome of an imagery filter run.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one fetch/filter/write pass.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Output    string    `json:"output"`
	Status    RunStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	Original  int       `json:"original"`
	Filtered  int       `json:"filtered"`
	Removed   int       `json:"removed"`
	CreatedAt time.Time `json:"created_at"`
}
