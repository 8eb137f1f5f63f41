// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import (
	"github.com/taibuivan/laureate/pkg/slice"
	"github.com/taibuivan/laureate/pkg/slug"
)

// Category is one of the fixed award categories.
type Category struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type categorySeed struct {
	name        string
	description string
}

// categorySeeds lists the award categories in display order.
var categorySeeds = []categorySeed{
	{"Academic Excellence", "Outstanding performance in studies, research or academic competitions."},
	{"Leadership", "Leading peers, clubs or initiatives that changed how others act."},
	{"Community Service", "Sustained volunteering that improved the lives of others."},
	{"Innovation & Technology", "Building products, tools or ideas that solve real problems."},
	{"Arts & Culture", "Creative work in music, visual arts, writing, film or heritage."},
	{"Sports", "Excellence and sportsmanship at school, county or national level."},
	{"Environmental Conservation", "Protecting ecosystems, climate action and sustainability."},
	{"Entrepreneurship", "Starting and running a venture that creates value or jobs."},
	{"Courage & Resilience", "Overcoming exceptional hardship and inspiring others."},
	{"Peace & Cohesion", "Bridging divides and promoting tolerance in the community."},
}

var categories = slice.Map(categorySeeds, func(entry categorySeed) Category {
	return Category{Name: entry.name, Slug: slug.From(entry.name), Description: entry.description}
})

// Categories returns the award categories in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// CategoryNames returns the accepted awardCategory values.
func CategoryNames() []string {
	return slice.Map(categories, func(category Category) string { return category.Name })
}

// LookupCategory accepts the display name or the slug in any letter case.
func LookupCategory(value string) (Category, bool) {
	for _, category := range categories {
		if slug.Match(category.Name, value) {
			return category, true
		}
	}
	return Category{}, false
}
