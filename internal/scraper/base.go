// Records produced by job-board scrapers and the interface they implement.

package scraper

import (
	"context"
	"errors"
)

// Sentinel stands in for any scalar field that could not be extracted.
const Sentinel = "—"

// Caps on record shape. Callers and tests depend on the exact values.
const (
	MaxSectionItems          = 12
	MaxDescriptionParagraphs = 3
	MaxResults               = 10
)

var (
	// ErrInvalidURL is returned for a detail URL that is not a job page of
	// the board. Nothing is fetched.
	ErrInvalidURL = errors.New("invalid job url")
	// ErrNoResults means the search pages loaded but held no job cards.
	ErrNoResults = errors.New("no results")
)

// JobSummary is one card of a search results page.
type JobSummary struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Company    string `json:"company"`
	Salary     string `json:"salary"`
	Employment string `json:"employment"`
}

// JobDetail is the full record of one job page.
type JobDetail struct {
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Salary       string   `json:"salary"`
	Posted       string   `json:"posted"`
	Employment   string   `json:"employment"`
	Tasks        []string `json:"tasks"`
	Expectations []string `json:"expectations"`
	Description  []string `json:"description"`
}

// Source defines what every job-board scraper must implement.
type Source interface {
	// Search returns at most limit summaries for a free-text query.
	Search(ctx context.Context, query string, limit int) ([]JobSummary, error)

	// Job scrapes one detail page.
	Job(ctx context.Context, url string) (JobDetail, error)

	// Name is the board name (Work.ua, ...)
	Name() string
}

// OrSentinel returns s, or Sentinel when s is blank.
func OrSentinel(s string) string {
	if s == "" {
		return Sentinel
	}
	return s
}
