package models

import "time"

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

const (
	StatusActive      = "active"
	StatusInactive    = "inactive"
	StatusUnavailable = "unavailable"
)

type Job struct {
	ID              string      `json:"id"`
	Category        string      `json:"category"`
	Subtype         string      `json:"subtype"`
	Address         string      `json:"address"`
	Location        *Coordinate `json:"location"`
	EquipmentNeeded []string    `json:"equipment_needed"`
	EmployeeIDs     []string    `json:"employee_ids"`
	Status          string      `json:"status"`
	ScheduledAt     time.Time   `json:"scheduled_at"`
	CreatedAt       time.Time   `json:"created_at"`
}

type Task struct {
	ID             string   `json:"id"`
	JobID          string   `json:"job_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Instructions   []string `json:"instructions"`
	DurationMin    int      `json:"duration_min"`
	Priority       string   `json:"priority"`
	Skills         []string `json:"skills"`
	Equipment      []string `json:"equipment"`
	MediaLinks     []string `json:"media_links"`
	DisplayOrder   int      `json:"display_order"`
	Completed      bool     `json:"completed"`
	AssignedTo     *string  `json:"assigned_to"`
	AssignedToName string   `json:"assigned_to_name,omitempty"`
}

type Employee struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Location   *Coordinate `json:"location"`
	Skills     []string    `json:"skills"`
	Equipment  []string    `json:"equipment"`
	Status     string      `json:"status"`
	ActiveJobs int         `json:"active_jobs"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type Run struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     string    `json:"status"`
	Summary    []byte    `json:"summary"`
}
