package handlers

import (
	"fmt"
	"strings"
	"time"
)

// Date accepts either a bare date ("2025-01-31") or a full RFC3339
// timestamp; the time component is discarded either way.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	value := strings.Trim(string(b), `"`)
	if value == "" || value == "null" {
		return nil
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			d.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", value)
}

type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserRegistrationRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	IsAdministrator bool   `json:"isAdministrator"`
}

type ToggleUserStatusRequest struct {
	IsEnable *bool `json:"isEnable"`
}

type ChangePasswordRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   Date   `json:"startDateTime"`
	EndDate     Date   `json:"endDateTime"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	EndDate     *Date   `json:"endDateTime,omitempty"`
}

type CreateTaskRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	ExecutionDate Date   `json:"executionDateTime"`
	ProjectID     int    `json:"projectId"`
}

type UpdateTaskRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	ExecutionDate *Date   `json:"executionDateTime,omitempty"`
}
