package service

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/sparkcrew/backend/internal/models"
)

func newTestOptimizer(stub *routeStub) *Optimizer {
	return &Optimizer{Scorer: NewScorer(stub, nil)}
}

func basicEmployee(id string) models.Employee {
	return models.Employee{ID: id, Name: "Employee " + id, Status: models.StatusActive, Skills: []string{"basic"}}
}

func mediumTasks(n int) []models.Task {
	tasks := make([]models.Task, 0, n)
	for i := 0; i < n; i++ {
		tasks = append(tasks, models.Task{
			ID:       fmt.Sprintf("t%d", i+1),
			Title:    fmt.Sprintf("Task %d", i+1),
			Priority: models.PriorityMedium,
		})
	}
	return tasks
}

func TestAssignDeterministic(t *testing.T) {
	opt := newTestOptimizer(&routeStub{})
	employees := []models.Employee{basicEmployee("e1"), basicEmployee("e2"), basicEmployee("e3")}
	tasks := mediumTasks(5)

	out1, dec1 := opt.Assign(context.Background(), tasks, employees, models.Job{}, weekday())
	out2, dec2 := opt.Assign(context.Background(), tasks, employees, models.Job{}, weekday())

	if !reflect.DeepEqual(out1, out2) {
		t.Fatalf("expected identical task output across runs")
	}
	if !reflect.DeepEqual(dec1, dec2) {
		t.Fatalf("expected identical decisions across runs")
	}
}

func TestAssignSpreadsWorkload(t *testing.T) {
	opt := newTestOptimizer(&routeStub{})
	employees := []models.Employee{basicEmployee("e1"), basicEmployee("e2")}
	tasks := mediumTasks(4)

	out, _ := opt.Assign(context.Background(), tasks, employees, models.Job{}, weekday())

	counts := map[string]int{}
	for _, task := range out {
		if task.AssignedTo == nil {
			t.Fatalf("expected every task assigned, %s is not", task.ID)
		}
		counts[*task.AssignedTo]++
	}
	if counts["e1"] != 2 || counts["e2"] != 2 {
		t.Fatalf("expected a 2/2 split between equal employees, got %v", counts)
	}
}

func TestAssignTieGoesToFirstListed(t *testing.T) {
	opt := newTestOptimizer(&routeStub{})
	employees := []models.Employee{basicEmployee("e1"), basicEmployee("e2")}
	tasks := mediumTasks(1)

	out, _ := opt.Assign(context.Background(), tasks, employees, models.Job{}, weekday())
	if out[0].AssignedTo == nil || *out[0].AssignedTo != "e1" {
		t.Fatalf("expected tie to go to first-listed employee, got %+v", out[0].AssignedTo)
	}
}

func TestAssignRespectsThreshold(t *testing.T) {
	opt := newTestOptimizer(&routeStub{})
	// No required skill or equipment held: 40*0.1 + 0 + 25*0.5 + 15 = 31.5,
	// below the acceptance floor.
	employees := []models.Employee{{ID: "e1", Name: "Employee e1", Status: models.StatusActive, Skills: []string{"vacuuming"}}}
	tasks := []models.Task{{
		ID: "t1", Title: "Pressure wash driveway", Priority: models.PriorityHigh,
		Skills: []string{"pressure-washing"}, Equipment: []string{"pressure washer"},
	}}

	out, decisions := opt.Assign(context.Background(), tasks, employees, models.Job{}, weekday())
	if out[0].AssignedTo != nil {
		t.Fatalf("expected task to stay unassigned, got %q", *out[0].AssignedTo)
	}
	if len(decisions) != 1 || decisions[0].ReasonCode != ReasonBelowThreshold {
		t.Fatalf("expected BELOW_THRESHOLD decision, got %+v", decisions)
	}
}

func TestAssignKeepsExistingAssignments(t *testing.T) {
	opt := newTestOptimizer(&routeStub{})
	owner := "e9"
	tasks := mediumTasks(2)
	tasks[0].AssignedTo = &owner
	tasks[0].AssignedToName = "Manual pick"

	out, decisions := opt.Assign(context.Background(), tasks, []models.Employee{basicEmployee("e1")}, models.Job{}, weekday())

	if out[0].AssignedTo == nil || *out[0].AssignedTo != owner {
		t.Fatalf("expected manual assignment preserved, got %+v", out[0].AssignedTo)
	}
	var found bool
	for _, d := range decisions {
		if d.TaskID == "t1" && d.ReasonCode == ReasonAlreadyAssigned {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ALREADY_ASSIGNED decision, got %+v", decisions)
	}
}

func TestAssignNoCandidates(t *testing.T) {
	opt := newTestOptimizer(&routeStub{})
	tasks := mediumTasks(2)

	out, decisions := opt.Assign(context.Background(), tasks, nil, models.Job{}, weekday())
	for _, task := range out {
		if task.AssignedTo != nil {
			t.Fatalf("expected no assignments without candidates")
		}
	}
	for _, d := range decisions {
		if d.ReasonCode != ReasonNoCandidates {
			t.Fatalf("expected NO_CANDIDATES decisions, got %+v", d)
		}
	}
}

func TestAssignHighPriorityFirst(t *testing.T) {
	// e1 is 10 minutes out, e2 is 20; the raw gap (~4.2 points) is smaller
	// than the workload penalty, so once e1 takes the High task the Low task
	// falls to e2.
	stub := &routeStub{durations: map[float64]time.Duration{
		1: 10 * time.Minute,
		2: 20 * time.Minute,
	}}
	opt := newTestOptimizer(stub)

	e1 := basicEmployee("e1")
	e1.Location = coord(1)
	e2 := basicEmployee("e2")
	e2.Location = coord(2)
	job := models.Job{Location: coord(50)}

	// Low-priority task listed first to prove ordering is by tier, not slice
	// position.
	tasks := []models.Task{
		{ID: "low", Title: "Dust shelves", Priority: models.PriorityLow},
		{ID: "high", Title: "Disinfect restrooms", Priority: models.PriorityHigh},
	}

	out, _ := opt.Assign(context.Background(), tasks, []models.Employee{e1, e2}, job, weekday())

	byID := map[string]models.Task{}
	for _, task := range out {
		byID[task.ID] = task
	}
	if got := byID["high"].AssignedTo; got == nil || *got != "e1" {
		t.Fatalf("expected best candidate on the High task, got %+v", got)
	}
	if got := byID["low"].AssignedTo; got == nil || *got != "e2" {
		t.Fatalf("expected workload penalty to push the Low task to e2, got %+v", got)
	}
}

func TestRankCandidatesAppliesWorkloadPenalty(t *testing.T) {
	opt := newTestOptimizer(&routeStub{})
	employees := []models.Employee{basicEmployee("e1"), basicEmployee("e2")}

	ranked := opt.RankCandidates(context.Background(), models.Task{ID: "t1"}, employees, models.Job{}, weekday(), map[string]int{"e1": 2})
	if ranked[0].EmployeeID != "e2" {
		t.Fatalf("expected unloaded employee first, got %q", ranked[0].EmployeeID)
	}
	if ranked[1].Workload != 2 {
		t.Fatalf("expected workload recorded, got %d", ranked[1].Workload)
	}
	if diff := ranked[1].Raw - ranked[1].Adjusted; diff != 2*WorkloadPenalty {
		t.Fatalf("expected penalty of %f, got %f", 2*WorkloadPenalty, diff)
	}
}
