package models

import "time"

type Status string

const StatusInProgress Status = "IN_PROGRESS"
const StatusFinished Status = "FINISHED"

type Project struct {
	ID          int           `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	StartDate   time.Time     `json:"startDateTime" db:"start_date"`
	EndDate     time.Time     `json:"endDateTime" db:"end_date"`
	Status      Status        `json:"status" db:"status"`
	Tasks       []ProjectTask `json:"projectTasks"`
}

type ProjectTask struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	ExecutionDate time.Time `json:"executionDateTime" db:"execution_date"`
	Status        Status    `json:"status" db:"status"`
	ProjectID     int       `json:"projectId" db:"project_id"`
}

// DateOnly strips the time component; all project and task dates are
// compared at day granularity. The result is always UTC midnight so dates
// parsed from requests and dates taken from the server clock compare in one
// frame regardless of the server's timezone.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
