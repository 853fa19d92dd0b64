package dto

import "time"

// SchedulerStatusResponse estado del programador automático.
type SchedulerStatusResponse struct {
	Running         bool       `json:"running"`
	IntervalSeconds int64      `json:"interval_seconds"`
	LastRunAt       *time.Time `json:"last_run_at,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
	LastCreated     int        `json:"last_created"`
	Runs            int64      `json:"runs"`
}
