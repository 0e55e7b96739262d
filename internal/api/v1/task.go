package v1

import (
	"fmt"
	"time"
)

// Task is a scheduled content-calendar entry.
type Task struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Date        time.Time `json:"fecha"`
	Time        string    `json:"hora"`
	Title       string    `json:"titulo"`
	Description string    `json:"descripcion"`
	Platform    string    `json:"plataforma"`
}

// Validate ensures all task fields are present.
func (t *Task) Validate() error {
	if t.Username == "" {
		return fmt.Errorf("username is required")
	}
	if t.Date.IsZero() {
		return fmt.Errorf("fecha is required")
	}
	if t.Time == "" {
		return fmt.Errorf("hora is required")
	}
	if _, err := parseClock(t.Time); err != nil {
		return fmt.Errorf("hora %q is not a valid time of day", t.Time)
	}
	if t.Title == "" {
		return fmt.Errorf("titulo is required")
	}
	if t.Description == "" {
		return fmt.Errorf("descripcion is required")
	}
	if t.Platform == "" {
		return fmt.Errorf("plataforma is required")
	}
	return nil
}
