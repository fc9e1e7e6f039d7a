package monitor

import "time"

// Status is the latest snapshot of dependency health.
type Status struct {
	Healthy   bool            `json:"healthy"`
	Services  map[string]bool `json:"services"`
	LastCheck time.Time       `json:"last_check"`
}
