package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/sparkcrew/backend/internal/catalog"
	"github.com/sparkcrew/backend/internal/db"
	"github.com/sparkcrew/backend/internal/models"
)

const (
	StatusAssigned   = "ASSIGNED"
	StatusUnassigned = "UNASSIGNED"
)

// AssignService runs the smart-assign action for one job: generate the
// checklist if the job has none, optimize assignments, persist the result.
type AssignService struct {
	Store     *db.Store
	Generator *catalog.Generator
	Optimizer *Optimizer
	Logger    zerolog.Logger
}

type RunSummary struct {
	Events  []map[string]any `json:"events"`
	Counts  map[string]any   `json:"counts"`
	Samples []map[string]any `json:"samples,omitempty"`
}

func (s *AssignService) AssignJob(ctx context.Context, jobID string, debug bool) (RunSummary, error) {
	start := time.Now()
	summary := RunSummary{Counts: map[string]any{}}

	job, err := s.Store.GetJob(ctx, jobID)
	if err != nil {
		return RunSummary{}, err
	}

	tasks, err := s.Store.ListTasksByJob(ctx, job.ID)
	if err != nil {
		return RunSummary{}, err
	}
	generated := 0
	if len(tasks) == 0 {
		tasks = s.Generator.Generate(job.ID, job.Category, job.Subtype)
		if _, err := s.Store.InsertTasks(ctx, tasks); err != nil {
			return RunSummary{}, err
		}
		generated = len(tasks)
	}
	summary.Events = append(summary.Events, map[string]any{
		"type":      "task_generation",
		"message":   "Checklist ready",
		"generated": generated,
		"total":     len(tasks),
		"time":      time.Now().UTC(),
	})

	pool, err := s.candidatePool(ctx, job)
	if err != nil {
		return RunSummary{}, err
	}
	summary.Events = append(summary.Events, map[string]any{
		"type":       "candidate_pool",
		"candidates": len(pool),
		"crew_bound": len(job.EmployeeIDs) > 0,
		"time":       time.Now().UTC(),
	})

	at := time.Now().UTC()
	assigned, decisions := s.Optimizer.Assign(ctx, tasks, pool, job, at)

	var (
		assignedCount   int
		unassignedCount int
		passthrough     int
		byEmployee      = map[string]int{}
		reasonTally     = map[string]int{}
	)
	err = s.Store.WithTx(ctx, func(tx pgx.Tx) error {
		for i, d := range decisions {
			switch d.ReasonCode {
			case ReasonAssigned:
				assignedCount++
				byEmployee[*d.EmployeeID]++
				if err := s.Store.UpdateTaskAssignment(ctx, tx, d.TaskID, d.EmployeeID, assignedName(assigned, d.TaskID)); err != nil {
					return err
				}
				if err := s.Store.UpdateEmployeeActiveJobs(ctx, tx, *d.EmployeeID, 1); err != nil {
					return err
				}
			case ReasonAlreadyAssigned:
				passthrough++
			default:
				unassignedCount++
				reasonTally[d.ReasonCode]++
				if debug && len(summary.Samples) < 5 {
					summary.Samples = append(summary.Samples, map[string]any{
						"task_id":     d.TaskID,
						"title":       d.Title,
						"reason_code": d.ReasonCode,
						"best_raw":    d.Raw,
						"adjusted":    d.Adjusted,
						"rank":        i,
					})
				}
			}
		}
		return nil
	})
	if err != nil {
		return RunSummary{}, err
	}

	summary.Events = append(summary.Events, map[string]any{
		"type":             "assignment",
		"assigned":         assignedCount,
		"unassigned":       unassignedCount,
		"already_assigned": passthrough,
		"time":             time.Now().UTC(),
	})
	summary.Events = append(summary.Events, map[string]any{
		"type":       "db_save",
		"message":    "Assignments saved",
		"elapsed_ms": time.Since(start).Milliseconds(),
		"time":       time.Now().UTC(),
	})

	summary.Counts["tasks_total"] = len(tasks)
	summary.Counts["assigned"] = assignedCount
	summary.Counts["unassigned"] = unassignedCount
	summary.Counts["already_assigned"] = passthrough
	summary.Counts["by_employee"] = byEmployee
	summary.Counts["unassigned_reasons"] = reasonTally

	s.Logger.Info().
		Str("job_id", job.ID).
		Int("assigned", assignedCount).
		Int("unassigned", unassignedCount).
		Msg("smart assign complete")

	return summary, nil
}

// candidatePool honors the job's crew when one is set; otherwise every active
// employee is a candidate. Non-active employees are never offered to the
// optimizer.
func (s *AssignService) candidatePool(ctx context.Context, job models.Job) ([]models.Employee, error) {
	all, err := s.Store.ListEmployees(ctx, models.StatusActive, "")
	if err != nil {
		return nil, err
	}
	if len(job.EmployeeIDs) == 0 {
		return all, nil
	}
	crew := map[string]bool{}
	for _, id := range job.EmployeeIDs {
		crew[strings.TrimSpace(id)] = true
	}
	out := make([]models.Employee, 0, len(job.EmployeeIDs))
	for _, e := range all {
		if crew[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func assignedName(tasks []models.Task, taskID string) string {
	for _, t := range tasks {
		if t.ID == taskID {
			return t.AssignedToName
		}
	}
	return ""
}
