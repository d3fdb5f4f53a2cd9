package service

import (
	"context"
	"sort"
	"time"

	"github.com/sparkcrew/backend/internal/models"
)

const (
	// WorkloadPenalty is deducted from a candidate's raw score per task
	// already on their plate during this run, so the best scorer does not
	// absorb every task.
	WorkloadPenalty = 10.0

	// MinAcceptScore is the adjusted-score floor below which a task stays
	// unassigned rather than forcing a poor fit.
	MinAcceptScore = 35.0
)

const (
	ReasonAssigned        = "ASSIGNED"
	ReasonAlreadyAssigned = "ALREADY_ASSIGNED"
	ReasonBelowThreshold  = "BELOW_THRESHOLD"
	ReasonNoCandidates    = "NO_CANDIDATES"
)

type CandidateScore struct {
	EmployeeID string         `json:"employee_id"`
	Name       string         `json:"name"`
	Raw        float64        `json:"raw"`
	Adjusted   float64        `json:"adjusted"`
	Workload   int            `json:"workload"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
}

// Decision records what happened to one task during an optimizer run.
type Decision struct {
	TaskID     string  `json:"task_id"`
	Title      string  `json:"title"`
	Priority   string  `json:"priority"`
	EmployeeID *string `json:"employee_id"`
	Raw        float64 `json:"raw,omitempty"`
	Adjusted   float64 `json:"adjusted,omitempty"`
	ReasonCode string  `json:"reason_code"`
}

// Optimizer commits greedy workload-balanced assignments. It is a heuristic,
// not a global assignment solver: tasks are ranked and committed one at a
// time with a running per-employee penalty.
type Optimizer struct {
	Scorer *Scorer
}

// Assign fills the assignment fields of every unassigned task it can place.
// High-priority tasks are processed to completion first, then Medium, then
// Low, so high-value work gets first pick of the best-fit employees. Ties in
// adjusted score go to the first-listed employee, which keeps the output
// deterministic for identical inputs.
func (o *Optimizer) Assign(ctx context.Context, tasks []models.Task, employees []models.Employee, job models.Job, at time.Time) ([]models.Task, []Decision) {
	out := append([]models.Task(nil), tasks...)
	decisions := make([]Decision, 0, len(out))

	workload := map[string]int{}
	for _, t := range out {
		if t.AssignedTo != nil {
			workload[*t.AssignedTo]++
		}
	}

	for tier := 0; tier <= 2; tier++ {
		for i := range out {
			t := &out[i]
			if priorityRank(t.Priority) != tier {
				continue
			}
			if t.AssignedTo != nil {
				decisions = append(decisions, Decision{
					TaskID: t.ID, Title: t.Title, Priority: t.Priority,
					EmployeeID: t.AssignedTo, ReasonCode: ReasonAlreadyAssigned,
				})
				continue
			}
			if len(employees) == 0 {
				decisions = append(decisions, Decision{
					TaskID: t.ID, Title: t.Title, Priority: t.Priority,
					ReasonCode: ReasonNoCandidates,
				})
				continue
			}

			ranked := o.RankCandidates(ctx, *t, employees, job, at, workload)
			best := ranked[0]
			if best.Adjusted < MinAcceptScore {
				decisions = append(decisions, Decision{
					TaskID: t.ID, Title: t.Title, Priority: t.Priority,
					Raw: best.Raw, Adjusted: best.Adjusted,
					ReasonCode: ReasonBelowThreshold,
				})
				continue
			}

			id := best.EmployeeID
			t.AssignedTo = &id
			t.AssignedToName = best.Name
			workload[id]++
			decisions = append(decisions, Decision{
				TaskID: t.ID, Title: t.Title, Priority: t.Priority,
				EmployeeID: &id, Raw: best.Raw, Adjusted: best.Adjusted,
				ReasonCode: ReasonAssigned,
			})
		}
	}

	return out, decisions
}

// RankCandidates scores every candidate for one task and orders them by
// adjusted score, best first. The sort is stable over input order.
func (o *Optimizer) RankCandidates(ctx context.Context, t models.Task, employees []models.Employee, job models.Job, at time.Time, workload map[string]int) []CandidateScore {
	ranked := make([]CandidateScore, 0, len(employees))
	for _, e := range employees {
		b := o.Scorer.Breakdown(ctx, e, t, job, at)
		load := workload[e.ID]
		ranked = append(ranked, CandidateScore{
			EmployeeID: e.ID,
			Name:       e.Name,
			Raw:        b.Total,
			Adjusted:   b.Total - float64(load)*WorkloadPenalty,
			Workload:   load,
			Breakdown:  b,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Adjusted > ranked[j].Adjusted
	})
	return ranked
}

func priorityRank(priority string) int {
	switch priority {
	case models.PriorityHigh:
		return 0
	case models.PriorityLow:
		return 2
	default:
		return 1
	}
}
