package domain

import (
	"fmt"
	"strings"
)

// LeagueCategory is a coarse licensing bucket that aggregates raw league codes.
type LeagueCategory string

const (
	CategoryMLB           LeagueCategory = "MLB"
	CategoryNBA           LeagueCategory = "NBA"
	CategoryNFL           LeagueCategory = "NFL"
	CategoryMotorsport    LeagueCategory = "MOTORSPORT"
	CategoryEntertainment LeagueCategory = "ENTERTAINMENT"
)

// Categories returns the closed category set in display order.
func Categories() []LeagueCategory {
	return []LeagueCategory{
		CategoryMLB,
		CategoryNBA,
		CategoryNFL,
		CategoryMotorsport,
		CategoryEntertainment,
	}
}

// ParseCategory returns the category for a case-insensitive name.
func ParseCategory(name string) (LeagueCategory, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, c := range Categories() {
		if string(c) == upper {
			return c, true
		}
	}
	return "", false
}

// CategoryFilter selects either every category (the zero value) or a single one.
type CategoryFilter struct {
	category LeagueCategory
}

// AllCategories is the full-mode filter.
var AllCategories = CategoryFilter{}

// OnlyCategory restricts the pipeline to one category.
func OnlyCategory(c LeagueCategory) CategoryFilter {
	return CategoryFilter{category: c}
}

// ParseCategoryFilter accepts "", "ALL" or a category name.
func ParseCategoryFilter(raw string) (CategoryFilter, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "ALL") {
		return AllCategories, nil
	}
	c, ok := ParseCategory(trimmed)
	if !ok {
		return AllCategories, fmt.Errorf("unknown category %q", raw)
	}
	return OnlyCategory(c), nil
}

// Single reports the selected category when the filter is in single-category mode.
func (f CategoryFilter) Single() (LeagueCategory, bool) {
	return f.category, f.category != ""
}

// Includes reports whether rows of category c pass the filter.
func (f CategoryFilter) Includes(c LeagueCategory) bool {
	return f.category == "" || f.category == c
}

// Categories returns the categories covered by the filter, in display order.
func (f CategoryFilter) Categories() []LeagueCategory {
	if f.category != "" {
		return []LeagueCategory{f.category}
	}
	return Categories()
}

func (f CategoryFilter) String() string {
	if f.category == "" {
		return "ALL"
	}
	return string(f.category)
}

func (f CategoryFilter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *CategoryFilter) UnmarshalText(text []byte) error {
	parsed, err := ParseCategoryFilter(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
