package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// RoleRate is a persisted role-default hourly rate. Per-user overrides
// are deliberately not stored; they live only in the running session.
type RoleRate struct {
	Role      string
	Rate      float64
	UpdatedAt time.Time
}
