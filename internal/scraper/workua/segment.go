package workua

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go-workua-scraper/internal/dom"
	"go-workua-scraper/internal/scraper"
	"go-workua-scraper/internal/textnorm"
)

// headingCandidates are scanned in document order for a section start.
const headingCandidates = "h2, h3, p, strong, b"

var leadingBullet = regexp.MustCompile(`^[•\-–—·]+\s*`)

// Segmenter pulls the content lines of one logical section out of a job
// description. It holds only read-only vocabulary data.
type Segmenter struct {
	vocab *Vocabulary
}

func NewSegmenter(v *Vocabulary) *Segmenter {
	if v == nil {
		v = DefaultVocabulary()
	}
	return &Segmenter{vocab: v}
}

// Segment returns up to scraper.MaxSectionItems unique lines of the kind
// section found inside host. Lines under a heading belonging to any other
// known section are never included.
func (s *Segmenter) Segment(host dom.Element, kind SectionKind) []string {
	want := s.vocab.Phrases(kind)
	stop := s.vocab.StopSet()

	start := findHeading(host, want)
	if start == nil {
		return finish(listItems(host))
	}

	c := &collector{stop: stop}
walk:
	for _, sib := range start.NextSiblings() {
		if isSectionHeading(sib) && textnorm.HasAnyPrefix(headingText(sib), stop) {
			break
		}
		switch sib.Tag() {
		case "ul", "ol":
			for _, li := range sib.Find("li") {
				c.add(textnorm.Normalize(li.Text(" ")))
			}
		case "p":
			if textnorm.HasAnyPrefix(textnorm.NormalizeLower(sib.Text(" ")), stop) {
				break walk
			}
			c.addParagraph(sib)
		}
	}

	if len(c.items) == 0 && start.Tag() == "p" {
		c.addParagraph(start)
	}
	if len(c.items) == 0 {
		return finish(listItems(host))
	}
	return finish(c.items)
}

// findHeading returns the first heading-like element whose text starts with
// one of want. There is no best-match fallback.
func findHeading(host dom.Element, want []string) dom.Element {
	for _, el := range host.Find(headingCandidates) {
		if !isSectionHeading(el) {
			continue
		}
		if textnorm.HasAnyPrefix(headingText(el), want) {
			return el
		}
	}
	return nil
}

func isSectionHeading(el dom.Element) bool {
	switch el.Tag() {
	case "h2", "h3", "strong", "b":
		return true
	case "p":
		lead := leadingBold(el)
		return lead != nil && textnorm.NormalizeLower(lead.Text(" ")) != ""
	}
	return false
}

func headingText(el dom.Element) string {
	switch el.Tag() {
	case "h2", "h3", "strong", "b":
		return textnorm.NormalizeLower(el.Text(" "))
	case "p":
		if lead := leadingBold(el); lead != nil {
			return textnorm.NormalizeLower(lead.Text(" "))
		}
	}
	return ""
}

// leadingBold is the first direct b or strong child of el.
func leadingBold(el dom.Element) dom.Element {
	for _, c := range el.Children() {
		if t := c.Tag(); t == "b" || t == "strong" {
			return c
		}
	}
	return nil
}

type collector struct {
	stop  []string
	items []string
}

func (c *collector) add(line string) {
	if line == "" {
		return
	}
	for _, it := range c.items {
		if it == line {
			return
		}
	}
	c.items = append(c.items, line)
}

// addParagraph splits a paragraph into lines, strips bullet glyphs and skips
// lines that open another section.
func (c *collector) addParagraph(p dom.Element) {
	for _, raw := range strings.Split(p.Text("\n"), "\n") {
		line := textnorm.Normalize(raw)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(leadingBullet.ReplaceAllString(line, ""))
		if textnorm.HasAnyPrefix(strings.ToLower(line), c.stop) {
			continue
		}
		c.add(line)
	}
}

// listItems is the low-confidence path: every unique list item of host.
func listItems(host dom.Element) []string {
	c := &collector{}
	for _, li := range host.Find("ul li") {
		c.add(textnorm.Normalize(li.Text(" ")))
	}
	return c.items
}

// finish drops one-character lines and applies the item cap.
func finish(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if utf8.RuneCountInString(it) <= 1 {
			continue
		}
		out = append(out, it)
		if len(out) == scraper.MaxSectionItems {
			break
		}
	}
	return out
}
