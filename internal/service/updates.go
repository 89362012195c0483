package service

import "time"

// Partial-update carriers: a nil field means "leave it alone".

type ProjectUpdate struct {
	Name        *string
	Description *string
	EndDate     *time.Time
}

type TaskUpdate struct {
	Name          *string
	Description   *string
	ExecutionDate *time.Time
}
