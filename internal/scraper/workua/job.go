// Package workua scrapes job listings and job pages of work.ua.
package workua

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go-workua-scraper/internal/dom"
	"go-workua-scraper/internal/scraper"
	"go-workua-scraper/internal/textnorm"
)

// Fetcher returns the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Scraper runs the fetch → parse → extract pipeline. Every call is
// independent; a Scraper is safe for concurrent use.
type Scraper struct {
	fetcher   Fetcher
	vocab     *Vocabulary
	fields    Fields
	segmenter *Segmenter
}

// NewScraper builds a Scraper. A nil vocabulary means the embedded one.
func NewScraper(f Fetcher, v *Vocabulary) *Scraper {
	if v == nil {
		v = DefaultVocabulary()
	}
	return &Scraper{
		fetcher:   f,
		vocab:     v,
		fields:    DefaultFields(v),
		segmenter: NewSegmenter(v),
	}
}

var _ scraper.Source = (*Scraper)(nil)

func (s *Scraper) Name() string {
	return "Work.ua"
}

// Search returns up to limit job summaries for a free-text query. A blank
// query returns nothing without touching the network. When every search page
// loaded but none held a card the error is scraper.ErrNoResults; when no
// page could be loaded at all it is the last fetch error.
func (s *Scraper) Search(ctx context.Context, query string, limit int) ([]scraper.JobSummary, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []scraper.JobSummary{}, nil
	}
	if limit <= 0 || limit > scraper.MaxResults {
		limit = scraper.MaxResults
	}

	cleaned, remote := StripRemoteToken(q)
	log.Printf("🔍 Searching Work.ua: %q (remote: %v)", cleaned, remote)

	out := []scraper.JobSummary{}
	seen := map[string]bool{}
	loaded := false
	var lastErr error
	for _, searchURL := range SearchURLs(cleaned, remote) {
		html, err := s.fetcher.Fetch(ctx, searchURL)
		if err != nil {
			log.Printf("⚠️ Search page failed %s: %v", searchURL, err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		doc, err := dom.ParseString(html)
		if err != nil {
			log.Printf("⚠️ Search page unparsable %s: %v", searchURL, err)
			lastErr = err
			continue
		}
		loaded = true

		found := ParseListing(doc, limit-len(out), seen, s.vocab.Employment)
		log.Printf("    📦 Found %d job cards on %s", len(found), searchURL)
		out = append(out, found...)
		if len(out) >= limit {
			break
		}
	}

	if len(out) > 0 {
		return out, nil
	}
	if !loaded && lastErr != nil {
		return out, lastErr
	}
	return out, scraper.ErrNoResults
}

// ValidateJobURL rejects anything that is not a work.ua job page.
func ValidateJobURL(raw string) error {
	if !IsJobURL(raw) {
		return fmt.Errorf("%w: %q", scraper.ErrInvalidURL, raw)
	}
	return nil
}

// Job fetches and extracts one job page. Only a bad URL or a failed fetch
// is an error; anything missing on the page degrades to the sentinel.
func (s *Scraper) Job(ctx context.Context, url string) (scraper.JobDetail, error) {
	url = strings.TrimSpace(url)
	if err := ValidateJobURL(url); err != nil {
		return scraper.JobDetail{}, err
	}

	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return scraper.JobDetail{}, err
	}
	doc, err := dom.ParseString(html)
	if err != nil {
		return scraper.JobDetail{}, fmt.Errorf("parse job page: %w", err)
	}

	job := s.ParseJob(doc, url)
	log.Printf("      ✅ %s - %s", job.Title, job.Company)
	return job, nil
}

// ParseJob extracts the full record from a parsed job page.
func (s *Scraper) ParseJob(doc *dom.Document, url string) scraper.JobDetail {
	pageText := textnorm.Normalize(doc.Text())
	vals := s.fields.Extract(doc, pageText)

	host := doc.First("#job-description")
	if host == nil {
		host = doc.Root()
	}

	return scraper.JobDetail{
		URL:          url,
		Title:        vals[FieldTitle],
		Company:      vals[FieldCompany],
		Salary:       vals[FieldSalary],
		Posted:       vals[FieldPosted],
		Employment:   vals[FieldEmployment],
		Tasks:        runLines("tasks", func() []string { return s.segmenter.Segment(host, SectionTasks) }),
		Expectations: runLines("expectations", func() []string { return s.segmenter.Segment(host, SectionExpectations) }),
		Description:  runLines("description", func() []string { return description(doc) }),
	}
}

// runLines contains a panic in one list field to an empty list.
func runLines(name string, fn func() []string) (lines []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ field %s degraded: %v", name, r)
			lines = []string{}
		}
	}()
	if lines = fn(); lines == nil {
		lines = []string{}
	}
	return lines
}

// description is the first few non-empty paragraphs of the job body.
func description(doc *dom.Document) []string {
	out := []string{}
	body := doc.First("#job-description")
	if body == nil {
		body = doc.First("div.card.wordwrap")
	}
	if body == nil {
		return out
	}
	for _, p := range body.Find("p") {
		if txt := textnorm.Normalize(p.Text(" ")); txt != "" {
			out = append(out, txt)
		}
		if len(out) >= scraper.MaxDescriptionParagraphs {
			break
		}
	}
	return out
}
