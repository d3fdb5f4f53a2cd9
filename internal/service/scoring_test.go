package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/sparkcrew/backend/internal/models"
	"github.com/sparkcrew/backend/internal/travel"
)

// routeStub returns a canned duration keyed by origin latitude.
type routeStub struct {
	durations map[float64]time.Duration
	err       error
	calls     int
}

func (s *routeStub) Estimate(_ context.Context, origin, _ models.Coordinate) (travel.Estimate, error) {
	s.calls++
	if s.err != nil {
		return travel.Estimate{}, s.err
	}
	return travel.Estimate{Duration: s.durations[origin.Lat]}, nil
}

// weekday returns a fixed Wednesday morning so availability scoring is stable.
func weekday() time.Time {
	return time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
}

func coord(lat float64) *models.Coordinate {
	return &models.Coordinate{Lat: lat, Lon: 0}
}

func TestEquipmentScoreFullWhenNoneRequired(t *testing.T) {
	scorer := NewScorer(nil, nil)
	e := models.Employee{ID: "e1", Status: models.StatusActive}
	b := scorer.Breakdown(context.Background(), e, models.Task{}, models.Job{}, weekday())
	if b.Equipment != 1.0 {
		t.Fatalf("expected full equipment credit, got %f", b.Equipment)
	}
}

func TestEquipmentScorePartialMatch(t *testing.T) {
	scorer := NewScorer(nil, nil)
	e := models.Employee{ID: "e1", Status: models.StatusActive, Equipment: []string{"Vacuum Cleaner Pro"}}
	task := models.Task{Equipment: []string{"vacuum", "steam cleaner"}}
	b := scorer.Breakdown(context.Background(), e, task, models.Job{}, weekday())
	if b.Equipment != 0.5 {
		t.Fatalf("expected half equipment credit, got %f", b.Equipment)
	}
}

func TestSkillDefaultsToBasic(t *testing.T) {
	scorer := NewScorer(nil, nil)
	withBasic := models.Employee{ID: "e1", Status: models.StatusActive, Skills: []string{"basic"}}
	without := models.Employee{ID: "e2", Status: models.StatusActive, Skills: []string{"mopping"}}

	task := models.Task{} // no skill requirements
	if got := scorer.Breakdown(context.Background(), withBasic, task, models.Job{}, weekday()).Skill; got != 1.0 {
		t.Fatalf("expected full skill credit for basic holder, got %f", got)
	}
	// "mopping" is not "basic", so only the floor applies.
	if got := scorer.Breakdown(context.Background(), without, task, models.Job{}, weekday()).Skill; got != minSkillCredit {
		t.Fatalf("expected floor skill credit, got %f", got)
	}
}

func TestSkillFloorNeverZero(t *testing.T) {
	scorer := NewScorer(nil, nil)
	e := models.Employee{ID: "e1", Status: models.StatusActive, Skills: []string{"vacuuming"}}
	task := models.Task{Skills: []string{"pressure-washing"}}
	b := scorer.Breakdown(context.Background(), e, task, models.Job{}, weekday())
	if b.Skill != minSkillCredit {
		t.Fatalf("expected %f, got %f", minSkillCredit, b.Skill)
	}
}

func TestSkillWeightedDifficulty(t *testing.T) {
	scorer := NewScorer(nil, nil)
	e := models.Employee{ID: "e1", Status: models.StatusActive, Skills: []string{"basic", "disinfection"}}
	task := models.Task{Skills: []string{"basic", "disinfection"}}
	b := scorer.Breakdown(context.Background(), e, task, models.Job{}, weekday())
	// (1.0 + 1.3) / 2 exceeds 1, so the cap applies.
	if b.Skill != 1.0 {
		t.Fatalf("expected capped skill credit, got %f", b.Skill)
	}
}

func TestTravelScoreDecays(t *testing.T) {
	stub := &routeStub{durations: map[float64]time.Duration{
		1: 0,
		2: 15 * time.Minute,
		3: 30 * time.Minute,
		4: 60 * time.Minute,
		5: 90 * time.Minute,
	}}
	scorer := NewScorer(stub, nil)
	job := models.Job{Location: coord(50)}

	prev := math.Inf(1)
	for _, lat := range []float64{1, 2, 3, 4, 5} {
		e := models.Employee{ID: "e1", Status: models.StatusActive, Location: coord(lat)}
		got := scorer.Breakdown(context.Background(), e, models.Task{}, job, weekday()).Travel
		if got > prev {
			t.Fatalf("travel score increased with travel time: %f > %f", got, prev)
		}
		prev = got
	}
	// At or beyond an hour the credit bottoms out.
	far := models.Employee{ID: "e1", Status: models.StatusActive, Location: coord(5)}
	if got := scorer.Breakdown(context.Background(), far, models.Task{}, job, weekday()).Travel; got != 0 {
		t.Fatalf("expected zero travel credit past an hour, got %f", got)
	}
}

func TestTravelDefaultCreditOnEstimatorError(t *testing.T) {
	stub := &routeStub{err: travel.ErrUnavailable}
	scorer := NewScorer(stub, nil)
	e := models.Employee{ID: "e1", Status: models.StatusActive, Location: coord(1)}
	job := models.Job{Location: coord(2)}
	got := scorer.Breakdown(context.Background(), e, models.Task{}, job, weekday()).Travel
	if got != travelDefaultCredit {
		t.Fatalf("expected default travel credit, got %f", got)
	}
}

func TestTravelDefaultCreditWithoutCoordinates(t *testing.T) {
	stub := &routeStub{}
	scorer := NewScorer(stub, nil)
	e := models.Employee{ID: "e1", Status: models.StatusActive}
	got := scorer.Breakdown(context.Background(), e, models.Task{}, models.Job{Location: coord(2)}, weekday()).Travel
	if got != travelDefaultCredit {
		t.Fatalf("expected default travel credit, got %f", got)
	}
	if stub.calls != 0 {
		t.Fatalf("estimator should not be called without both coordinates")
	}
}

func TestAvailabilityInactiveScoresZero(t *testing.T) {
	scorer := NewScorer(nil, nil)
	e := models.Employee{ID: "e1", Status: models.StatusInactive, Skills: []string{"basic"}}
	b := scorer.Breakdown(context.Background(), e, models.Task{}, models.Job{}, weekday())
	if b.Availability != 0 {
		t.Fatalf("expected zero availability for inactive employee, got %f", b.Availability)
	}
}

func TestAvailabilityBands(t *testing.T) {
	cases := []struct {
		name string
		at   time.Time
		jobs int
		want float64
	}{
		{"weekday free", weekday(), 0, 1.0},
		{"after hours", time.Date(2025, 3, 12, 20, 0, 0, 0, time.UTC), 0, 0.5},
		{"weekend", time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), 0, 0.8},
		{"two jobs", weekday(), 2, 0.6},
		{"saturated", weekday(), 3, 0.3},
	}
	for _, tc := range cases {
		e := models.Employee{ID: "e1", Status: models.StatusActive, ActiveJobs: tc.jobs}
		if got := availabilityScore(e, tc.at); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: expected %f, got %f", tc.name, tc.want, got)
		}
	}
}

func TestScoreWeightedExample(t *testing.T) {
	stub := &routeStub{durations: map[float64]time.Duration{
		1: 10 * time.Minute,
		2: 1 * time.Minute,
	}}
	scorer := NewScorer(stub, nil)
	job := models.Job{Location: coord(50)}
	task := models.Task{Skills: []string{"basic", "disinfection"}, Equipment: []string{"vacuum"}}

	// A holds every requirement but is farther away; B is nearly on site but
	// lacks disinfection. Skill weight should dominate the travel edge.
	a := models.Employee{ID: "a", Status: models.StatusActive, Location: coord(1),
		Skills: []string{"basic", "disinfection"}, Equipment: []string{"Vacuum Cleaner"}}
	b := models.Employee{ID: "b", Status: models.StatusActive, Location: coord(2),
		Skills: []string{"basic"}, Equipment: []string{"Vacuum Cleaner"}}

	scoreA := scorer.Score(context.Background(), a, task, job, weekday())
	scoreB := scorer.Score(context.Background(), b, task, job, weekday())

	if scoreA <= scoreB {
		t.Fatalf("expected the fully qualified candidate to win: %f vs %f", scoreA, scoreB)
	}
	// 40 + 20 + 25*(50/60) + 15
	if math.Abs(scoreA-95.8333) > 0.01 {
		t.Fatalf("unexpected score for A: %f", scoreA)
	}
	// 40*0.5 + 20 + 25*(59/60) + 15
	if math.Abs(scoreB-79.5833) > 0.01 {
		t.Fatalf("unexpected score for B: %f", scoreB)
	}
}
