package models

import "time"

// Project is the resource guarded by the admin role. CreatedBy is the ID of
// the account that created it.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
}
