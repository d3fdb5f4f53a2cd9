package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/sparkcrew/backend/internal/models"
)

// SubtypeAny matches any property subtype within a category.
const SubtypeAny = "any"

type TemplateKey struct {
	Category string
	Subtype  string
}

type TemplateTask struct {
	Title        string
	Description  string
	Instructions []string
	DurationMin  int
	Priority     string
	Skills       []string
	Equipment    []string
	MediaLinks   []string
}

// Generator turns a job category and property subtype into a concrete task
// checklist. Templates are injected so tests can substitute their own catalog.
type Generator struct {
	templates map[TemplateKey][]TemplateTask
}

func NewGenerator(templates map[TemplateKey][]TemplateTask) *Generator {
	if templates == nil {
		templates = DefaultTemplates()
	}
	return &Generator{templates: templates}
}

// Generate never returns an empty list: lookup falls through
// (category, subtype) -> (category, any) -> the generic office checklist.
func (g *Generator) Generate(jobID, category, subtype string) []models.Task {
	cat := NormalizeKey(category)
	sub := NormalizeKey(subtype)

	template, ok := g.templates[TemplateKey{Category: cat, Subtype: sub}]
	if !ok {
		template, ok = g.templates[TemplateKey{Category: cat, Subtype: SubtypeAny}]
	}
	if !ok {
		template = genericChecklist()
	}

	out := make([]models.Task, 0, len(template))
	for i, tt := range template {
		out = append(out, models.Task{
			ID:           uuid.NewString(),
			JobID:        jobID,
			Title:        tt.Title,
			Description:  tt.Description,
			Instructions: append([]string(nil), tt.Instructions...),
			DurationMin:  tt.DurationMin,
			Priority:     tt.Priority,
			Skills:       append([]string(nil), tt.Skills...),
			Equipment:    append([]string(nil), tt.Equipment...),
			MediaLinks:   append([]string(nil), tt.MediaLinks...),
			DisplayOrder: i + 1,
			Completed:    false,
			AssignedTo:   nil,
		})
	}
	return out
}

// NormalizeKey canonicalizes category/subtype input: "Small Office" and
// "small_office" both become "small-office".
func NormalizeKey(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, "_", " ")
	v = strings.Join(strings.Fields(v), "-")
	return v
}
