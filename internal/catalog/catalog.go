// Package catalog serves the static gallery of experiences.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"holosuite/internal/domain"
)

// All selects every category.
const All = "All"

// Row is one titled strip of experiences on the gallery page.
type Row struct {
	Title    string              `json:"title"`
	Category string              `json:"category"`
	Items    []domain.Experience `json:"items"`
}

// Catalog is a read-only view over a fixed list of experiences. All results
// are copies.
type Catalog struct {
	items      []domain.Experience
	categories []string
}

// New returns the built-in catalog.
func New() *Catalog {
	return NewFrom(experiences)
}

// NewFrom builds a catalog over items. Categories are listed in order of
// first appearance after All.
func NewFrom(items []domain.Experience) *Catalog {
	c := &Catalog{
		items:      append([]domain.Experience(nil), items...),
		categories: []string{All},
	}
	seen := map[string]bool{}
	for _, exp := range c.items {
		if !seen[exp.Category] {
			seen[exp.Category] = true
			c.categories = append(c.categories, exp.Category)
		}
	}
	return c
}

// Normalize maps user input onto a category name: blank means All and any
// casing of a name is accepted.
func Normalize(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return All
	}
	return cases.Title(language.Und).String(strings.ToLower(category))
}

// Categories returns All followed by each category.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// ByCategory returns every experience for All, otherwise those in category.
func (c *Catalog) ByCategory(category string) []domain.Experience {
	category = Normalize(category)
	if category == All {
		return append([]domain.Experience(nil), c.items...)
	}
	out := make([]domain.Experience, 0, len(c.items))
	for _, exp := range c.items {
		if exp.Category == category {
			out = append(out, exp)
		}
	}
	return out
}

// Featured returns the featured experience, if any.
func (c *Catalog) Featured() (domain.Experience, bool) {
	for _, exp := range c.items {
		if exp.Featured {
			return exp, true
		}
	}
	return domain.Experience{}, false
}

// Get looks an experience up by id.
func (c *Catalog) Get(id string) (domain.Experience, error) {
	id = strings.TrimSpace(id)
	for _, exp := range c.items {
		if exp.ID == id {
			return exp, nil
		}
	}
	return domain.Experience{}, domain.NewError(domain.ErrNotFound, "Experience not found")
}

// Rows lays out the gallery page. All yields one row per known category with
// its headline; a single category yields one "<Category> Experiences" row.
func (c *Catalog) Rows(category string) []Row {
	category = Normalize(category)
	if category != All {
		return []Row{{
			Title:    category + " Experiences",
			Category: category,
			Items:    c.ByCategory(category),
		}}
	}

	rows := make([]Row, 0, len(c.categories)-1)
	for _, cat := range c.categories[1:] {
		rows = append(rows, Row{
			Title:    rowTitle(cat),
			Category: cat,
			Items:    c.ByCategory(cat),
		})
	}
	return rows
}

func rowTitle(category string) string {
	for _, rt := range rowTitles {
		if rt.Category == category {
			return rt.Title
		}
	}
	return category + " Experiences"
}
