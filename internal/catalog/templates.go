package catalog

import "github.com/sparkcrew/backend/internal/models"

// DefaultTemplates is the standard checklist catalog. Keys use normalized
// category/subtype form (see NormalizeKey).
func DefaultTemplates() map[TemplateKey][]TemplateTask {
	return map[TemplateKey][]TemplateTask{
		{Category: "office-cleaning", Subtype: "small-office"}: {
			{
				Title:       "Empty trash bins and replace liners",
				Description: "Collect waste from all bins, replace liners, take bags to disposal area",
				Instructions: []string{
					"Collect waste from every bin including under-desk bins",
					"Replace liners, wipe bin rims if soiled",
					"Carry bags to the building disposal area",
				},
				DurationMin: 15,
				Priority:    models.PriorityHigh,
				Skills:      []string{"basic"},
				Equipment:   []string{"trash liners"},
			},
			{
				Title:       "Vacuum carpets and rugs",
				Description: "Vacuum all carpeted areas, entrance mats and rugs",
				DurationMin: 20,
				Priority:    models.PriorityHigh,
				Skills:      []string{"vacuuming"},
				Equipment:   []string{"vacuum cleaner"},
			},
			{
				Title:       "Clean and disinfect restrooms",
				Description: "Full restroom service: toilets, sinks, mirrors, floors, supplies restock",
				Instructions: []string{
					"Apply disinfectant to toilets and urinals, let it sit",
					"Clean sinks, counters and mirrors",
					"Mop floor last, restock paper and soap",
				},
				DurationMin: 25,
				Priority:    models.PriorityHigh,
				Skills:      []string{"disinfection"},
				Equipment:   []string{"disinfectant", "gloves"},
			},
			{
				Title:       "Wipe down desks and common surfaces",
				Description: "Dust and wipe desks, tables, door handles and switch plates",
				DurationMin: 20,
				Priority:    models.PriorityMedium,
				Skills:      []string{"basic"},
				Equipment:   []string{"microfiber cloths", "all-purpose cleaner"},
			},
			{
				Title:       "Mop hard floors",
				Description: "Sweep and damp-mop all hard floor areas",
				DurationMin: 20,
				Priority:    models.PriorityMedium,
				Skills:      []string{"mopping"},
				Equipment:   []string{"mop", "bucket"},
			},
			{
				Title:       "Clean kitchen and break area",
				Description: "Wipe counters, clean microwave and fridge exterior, run dishwasher",
				DurationMin: 15,
				Priority:    models.PriorityMedium,
				Skills:      []string{"basic"},
				Equipment:   []string{"all-purpose cleaner"},
			},
			{
				Title:       "Clean windows and glass surfaces",
				Description: "Interior windows, glass partitions and entrance doors",
				DurationMin: 15,
				Priority:    models.PriorityLow,
				Skills:      []string{"window-cleaning"},
				Equipment:   []string{"glass cleaner", "squeegee"},
				MediaLinks:  []string{"https://docs.sparkcrew.app/guides/streak-free-glass"},
			},
		},
		{Category: "office-cleaning", Subtype: SubtypeAny}: genericChecklist(),
		{Category: "residential", Subtype: "apartment"}: {
			{
				Title:       "Clean kitchen",
				Description: "Counters, stovetop, sink, appliance exteriors, floor",
				DurationMin: 40,
				Priority:    models.PriorityHigh,
				Skills:      []string{"basic", "degreasing"},
				Equipment:   []string{"all-purpose cleaner", "degreaser"},
			},
			{
				Title:       "Clean bathroom",
				Description: "Toilet, shower/tub, sink, mirror, floor",
				DurationMin: 35,
				Priority:    models.PriorityHigh,
				Skills:      []string{"disinfection"},
				Equipment:   []string{"disinfectant", "gloves", "scrub brush"},
			},
			{
				Title:       "Dust and wipe all rooms",
				Description: "Furniture, shelves, window sills, skirting boards",
				DurationMin: 30,
				Priority:    models.PriorityMedium,
				Skills:      []string{"basic"},
				Equipment:   []string{"microfiber cloths"},
			},
			{
				Title:       "Vacuum and mop floors",
				Description: "All rooms, under furniture where reachable",
				DurationMin: 30,
				Priority:    models.PriorityMedium,
				Skills:      []string{"vacuuming", "mopping"},
				Equipment:   []string{"vacuum cleaner", "mop"},
			},
			{
				Title:       "Take out trash and recycling",
				DurationMin: 10,
				Priority:    models.PriorityLow,
				Skills:      []string{"basic"},
				Equipment:   []string{"trash liners"},
			},
		},
		{Category: "residential", Subtype: SubtypeAny}: {
			{
				Title:       "Clean kitchen and dining area",
				DurationMin: 45,
				Priority:    models.PriorityHigh,
				Skills:      []string{"basic", "degreasing"},
				Equipment:   []string{"all-purpose cleaner", "degreaser"},
			},
			{
				Title:       "Clean bathrooms",
				DurationMin: 40,
				Priority:    models.PriorityHigh,
				Skills:      []string{"disinfection"},
				Equipment:   []string{"disinfectant", "gloves"},
			},
			{
				Title:       "Dust, vacuum and mop all living areas",
				DurationMin: 50,
				Priority:    models.PriorityMedium,
				Skills:      []string{"vacuuming", "mopping"},
				Equipment:   []string{"vacuum cleaner", "mop", "microfiber cloths"},
			},
			{
				Title:       "Make beds and tidy bedrooms",
				DurationMin: 20,
				Priority:    models.PriorityLow,
				Skills:      []string{"basic"},
			},
		},
		{Category: "deep-clean", Subtype: SubtypeAny}: {
			{
				Title:       "Shampoo carpets",
				Description: "Pre-treat stains, machine shampoo, extract",
				DurationMin: 60,
				Priority:    models.PriorityHigh,
				Skills:      []string{"carpet-shampooing"},
				Equipment:   []string{"carpet shampooer", "stain remover"},
			},
			{
				Title:       "Degrease kitchen surfaces and appliances",
				Description: "Oven interior, hood filters, backsplash",
				DurationMin: 50,
				Priority:    models.PriorityHigh,
				Skills:      []string{"degreasing"},
				Equipment:   []string{"degreaser", "gloves", "scraper"},
			},
			{
				Title:       "Scrub and disinfect bathrooms",
				DurationMin: 45,
				Priority:    models.PriorityHigh,
				Skills:      []string{"disinfection"},
				Equipment:   []string{"disinfectant", "scrub brush", "gloves"},
			},
			{
				Title:       "Polish hard floors",
				DurationMin: 40,
				Priority:    models.PriorityMedium,
				Skills:      []string{"floor-polishing"},
				Equipment:   []string{"floor polisher"},
			},
			{
				Title:       "Wash interior windows and frames",
				DurationMin: 30,
				Priority:    models.PriorityMedium,
				Skills:      []string{"window-cleaning"},
				Equipment:   []string{"glass cleaner", "squeegee"},
			},
			{
				Title:       "Dust high surfaces and vents",
				DurationMin: 25,
				Priority:    models.PriorityLow,
				Skills:      []string{"basic"},
				Equipment:   []string{"extension duster", "step ladder"},
			},
		},
		{Category: "post-construction", Subtype: SubtypeAny}: {
			{
				Title:       "Remove construction debris and stickers",
				DurationMin: 45,
				Priority:    models.PriorityHigh,
				Skills:      []string{"basic"},
				Equipment:   []string{"heavy-duty bags", "scraper", "gloves"},
			},
			{
				Title:       "Dust removal from all surfaces",
				Description: "Walls, ledges, fixtures, inside cabinets",
				DurationMin: 60,
				Priority:    models.PriorityHigh,
				Skills:      []string{"basic"},
				Equipment:   []string{"hepa vacuum", "microfiber cloths"},
			},
			{
				Title:       "Pressure-wash exterior entrances",
				DurationMin: 30,
				Priority:    models.PriorityMedium,
				Skills:      []string{"pressure-washing"},
				Equipment:   []string{"pressure washer"},
			},
			{
				Title:       "Clean windows inside and out",
				DurationMin: 40,
				Priority:    models.PriorityMedium,
				Skills:      []string{"window-cleaning"},
				Equipment:   []string{"glass cleaner", "squeegee", "step ladder"},
			},
			{
				Title:       "Final floor scrub and mop",
				DurationMin: 45,
				Priority:    models.PriorityLow,
				Skills:      []string{"mopping"},
				Equipment:   []string{"mop", "bucket", "floor cleaner"},
			},
		},
	}
}

// genericChecklist is the fallback for unrecognized categories, so Generate
// never produces an empty task list.
func genericChecklist() []TemplateTask {
	return []TemplateTask{
		{
			Title:       "Empty trash bins and replace liners",
			DurationMin: 15,
			Priority:    models.PriorityHigh,
			Skills:      []string{"basic"},
			Equipment:   []string{"trash liners"},
		},
		{
			Title:       "Clean and disinfect restrooms",
			DurationMin: 30,
			Priority:    models.PriorityHigh,
			Skills:      []string{"disinfection"},
			Equipment:   []string{"disinfectant", "gloves"},
		},
		{
			Title:       "Vacuum carpets and mop hard floors",
			DurationMin: 30,
			Priority:    models.PriorityMedium,
			Skills:      []string{"vacuuming", "mopping"},
			Equipment:   []string{"vacuum cleaner", "mop"},
		},
		{
			Title:       "Wipe down surfaces and touch points",
			DurationMin: 20,
			Priority:    models.PriorityMedium,
			Skills:      []string{"basic"},
			Equipment:   []string{"microfiber cloths", "all-purpose cleaner"},
		},
		{
			Title:       "Clean glass and entrance doors",
			DurationMin: 15,
			Priority:    models.PriorityLow,
			Skills:      []string{"window-cleaning"},
			Equipment:   []string{"glass cleaner"},
		},
	}
}
