package service

import (
	"context"
	"strings"
	"time"

	"github.com/sparkcrew/backend/internal/models"
	"github.com/sparkcrew/backend/internal/travel"
)

// Sub-score weights. The four raw sub-scores each range 0..1; the final
// suitability score is their weighted sum clamped into 0..100.
const (
	WeightSkill        = 40.0
	WeightEquipment    = 20.0
	WeightTravel       = 25.0
	WeightAvailability = 15.0

	// travelDefaultCredit applies when no estimate can be produced, so
	// missing location data does not veto a candidate.
	travelDefaultCredit = 0.5

	// minSkillCredit is the floor when a candidate holds none of the
	// required skills.
	minSkillCredit = 0.1
)

// DefaultSkillWeights maps skill tags to difficulty weights. Unlisted skills
// weigh 1.
func DefaultSkillWeights() map[string]float64 {
	return map[string]float64{
		"basic":             1.0,
		"vacuuming":         1.0,
		"mopping":           1.0,
		"degreasing":        1.2,
		"window-cleaning":   1.2,
		"disinfection":      1.3,
		"carpet-shampooing": 1.4,
		"floor-polishing":   1.4,
		"pressure-washing":  1.5,
	}
}

type ScoreBreakdown struct {
	Skill        float64 `json:"skill"`
	Equipment    float64 `json:"equipment"`
	Travel       float64 `json:"travel"`
	Availability float64 `json:"availability"`
	Total        float64 `json:"total"`
}

// Scorer computes how well one employee fits one task within a job. The
// travel estimator is its only I/O dependency; everything else is pure.
type Scorer struct {
	Travel       travel.Estimator
	SkillWeights map[string]float64
}

func NewScorer(estimator travel.Estimator, skillWeights map[string]float64) *Scorer {
	if skillWeights == nil {
		skillWeights = DefaultSkillWeights()
	}
	return &Scorer{Travel: estimator, SkillWeights: skillWeights}
}

// Score returns the 0..100 suitability of employee for task. The evaluation
// instant is passed in so callers and tests control the clock.
func (s *Scorer) Score(ctx context.Context, e models.Employee, t models.Task, j models.Job, at time.Time) float64 {
	return s.Breakdown(ctx, e, t, j, at).Total
}

func (s *Scorer) Breakdown(ctx context.Context, e models.Employee, t models.Task, j models.Job, at time.Time) ScoreBreakdown {
	b := ScoreBreakdown{
		Skill:        s.skillScore(e, t),
		Equipment:    equipmentScore(e, t),
		Travel:       s.travelScore(ctx, e, j),
		Availability: availabilityScore(e, at),
	}
	total := WeightSkill*b.Skill + WeightEquipment*b.Equipment +
		WeightTravel*b.Travel + WeightAvailability*b.Availability
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	b.Total = total
	return b
}

// skillScore sums the difficulty weight of every required skill the employee
// holds, normalized by the number of required skills. A task with no skill
// requirements defaults to requiring "basic".
func (s *Scorer) skillScore(e models.Employee, t models.Task) float64 {
	required := t.Skills
	if len(required) == 0 {
		required = []string{"basic"}
	}
	total := 0.0
	for _, skill := range required {
		if hasSkill(e.Skills, skill) {
			total += s.skillWeight(skill)
		}
	}
	score := total / float64(len(required))
	if score > 1 {
		score = 1
	}
	if score == 0 {
		return minSkillCredit
	}
	return score
}

func (s *Scorer) skillWeight(skill string) float64 {
	if w, ok := s.SkillWeights[strings.ToLower(strings.TrimSpace(skill))]; ok {
		return w
	}
	return 1.0
}

// equipmentScore is the fraction of required equipment tags matched by a
// case-insensitive substring of something the employee owns. No requirements
// means full credit.
func equipmentScore(e models.Employee, t models.Task) float64 {
	if len(t.Equipment) == 0 {
		return 1.0
	}
	matched := 0
	for _, req := range t.Equipment {
		needle := strings.ToLower(strings.TrimSpace(req))
		for _, owned := range e.Equipment {
			if strings.Contains(strings.ToLower(owned), needle) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(t.Equipment))
}

// travelScore decays linearly from 1 to 0 over 60 minutes of travel. Missing
// coordinates or estimator failure yields partial credit instead of zero.
func (s *Scorer) travelScore(ctx context.Context, e models.Employee, j models.Job) float64 {
	if e.Location == nil || j.Location == nil || s.Travel == nil {
		return travelDefaultCredit
	}
	est, err := s.Travel.Estimate(ctx, *e.Location, *j.Location)
	if err != nil {
		return travelDefaultCredit
	}
	score := (60 - est.Duration.Minutes()) / 60
	if score < 0 {
		return 0
	}
	return score
}

// availabilityScore is an on-call suitability check against the evaluation
// instant, not the job's scheduled slot. Inactive or unavailable employees
// score zero outright.
func availabilityScore(e models.Employee, at time.Time) float64 {
	if !strings.EqualFold(e.Status, models.StatusActive) {
		return 0
	}
	score := 1.0
	if h := at.Hour(); h < 7 || h >= 18 {
		score = 0.5
	}
	if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
		score *= 0.8
	}
	switch {
	case e.ActiveJobs >= 3:
		score *= 0.3
	case e.ActiveJobs == 2:
		score *= 0.6
	}
	return score
}

func hasSkill(skills []string, target string) bool {
	for _, s := range skills {
		if strings.EqualFold(strings.TrimSpace(s), target) {
			return true
		}
	}
	return false
}
