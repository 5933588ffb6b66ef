package workua

import (
	"log"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go-workua-scraper/internal/dom"
	"go-workua-scraper/internal/scraper"
	"go-workua-scraper/internal/textnorm"
)

// Field names of the scalar part of a JobDetail.
const (
	FieldTitle      = "title"
	FieldCompany    = "company"
	FieldSalary     = "salary"
	FieldPosted     = "posted"
	FieldEmployment = "employment"
)

const (
	// employmentWindow is how many elements after the h1 are searched for tags.
	employmentWindow = 60
	// maxCompanyRunes bounds a company name taken from free text.
	maxCompanyRunes = 80
)

// FieldFunc extracts one field from a parsed page and its flattened,
// normalized text. An empty result means not found.
type FieldFunc func(doc *dom.Document, pageText string) string

// Fields maps a field name to its extractor. Extractors share no state, so
// the map can be applied in any order.
type Fields map[string]FieldFunc

// DefaultFields returns the extractors for work.ua detail pages.
func DefaultFields(v *Vocabulary) Fields {
	return Fields{
		FieldTitle:      extractTitle,
		FieldCompany:    extractCompany,
		FieldSalary:     extractSalary,
		FieldPosted:     extractPosted,
		FieldEmployment: employmentExtractor(v.Employment),
	}
}

// Extract runs every extractor. A miss or a panic inside one extractor sets
// that field to the sentinel and leaves the others untouched.
func (f Fields) Extract(doc *dom.Document, pageText string) map[string]string {
	out := make(map[string]string, len(f))
	for name, fn := range f {
		out[name] = runField(name, fn, doc, pageText)
	}
	return out
}

func runField(name string, fn FieldFunc, doc *dom.Document, pageText string) (v string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ field %s degraded: %v", name, r)
			v = scraper.Sentinel
		}
	}()
	return scraper.OrSentinel(fn(doc, pageText))
}

func extractTitle(doc *dom.Document, _ string) string {
	if h1 := doc.First("h1"); h1 != nil {
		return textnorm.Normalize(h1.Text(" "))
	}
	return ""
}

var (
	companyInMeta = regexp.MustCompile(`(?i)компанія\s+(.+?)(?:[,—-]|робота|дистанційно)`)
	companyInText = regexp.MustCompile(`(?i)компанія\s+(.+?)(?:[,—-]|робота|дистанційно|$)`)
)

func extractCompany(doc *dom.Document, pageText string) string {
	if a := doc.First("a[href*='/company/']"); a != nil {
		if name := textnorm.Normalize(a.Text(" ")); name != "" {
			return name
		}
	}
	if desc := metaDescription(doc); desc != "" {
		if m := companyInMeta.FindStringSubmatch(desc); m != nil {
			if name := textnorm.Normalize(m[1]); name != "" {
				return name
			}
		}
	}
	if m := companyInText.FindStringSubmatch(pageText); m != nil {
		name := textnorm.Normalize(m[1])
		if utf8.RuneCountInString(name) <= maxCompanyRunes {
			return name
		}
	}
	return ""
}

// salaryPattern matches a hryvnia amount with one or two bounds:
// "15000 – 25000 грн", "від 15 000 до 25 000 грн", "від 20 000 грн",
// "до 30000 грн", "₴ 40000".
var salaryPattern = regexp.MustCompile(
	`(?i)(від\s*\d[\d\s]*\s*до\s*\d[\d\s]*\s*грн|(?:від|до)?\s*\d[\d\s]*\s*[–-]\s*\d[\d\s]*\s*грн|(?:від|до)\s*\d[\d\s]*\s*грн|\d[\d\s]*\s*грн|₴\s*\d[\d\s]*)`,
)

// findSalary expects already normalized text.
func findSalary(s string) string {
	if m := salaryPattern.FindStringSubmatch(s); m != nil {
		return textnorm.Clean(m[1])
	}
	return ""
}

func extractSalary(doc *dom.Document, pageText string) string {
	if desc := metaDescription(doc); desc != "" {
		if s := findSalary(desc); s != "" {
			return s
		}
	}
	return findSalary(pageText)
}

var (
	postedDate  = regexp.MustCompile(`(?i)Вакансія від\s+(\d{1,2}\s+\p{L}+\s+\d{4}|\d{1,2}\.\d{1,2}\.\d{2,4})`)
	postedLoose = regexp.MustCompile(`(?i)Вакансія від\s+([^.]{1,40}?)(?:\.|$)`)
)

func extractPosted(doc *dom.Document, pageText string) string {
	if t := doc.First("time[datetime]"); t != nil {
		if dt, _ := t.Attr("datetime"); strings.TrimSpace(dt) != "" {
			dt = strings.ReplaceAll(strings.TrimSpace(dt), "T", " ")
			return strings.Fields(dt)[0]
		}
	}
	if m := postedDate.FindStringSubmatch(pageText); m != nil {
		return textnorm.Normalize(m[1])
	}
	if m := postedLoose.FindStringSubmatch(pageText); m != nil {
		return textnorm.Normalize(m[1])
	}
	return ""
}

func employmentExtractor(tags []string) FieldFunc {
	return func(doc *dom.Document, pageText string) string {
		found := map[string]bool{}
		if h1 := doc.First("h1"); h1 != nil {
			for _, el := range doc.After(h1, employmentWindow) {
				txt := textnorm.Normalize(el.Text(" "))
				for _, tag := range tags {
					if strings.Contains(txt, tag) {
						found[tag] = true
					}
				}
			}
		}
		for _, tag := range tags {
			if containsWord(pageText, tag) {
				found[tag] = true
			}
		}
		return joinInOrder(tags, found)
	}
}

// joinInOrder joins the found tags in vocabulary order, not discovery order.
func joinInOrder(tags []string, found map[string]bool) string {
	var out []string
	for _, tag := range tags {
		if found[tag] {
			out = append(out, tag)
		}
	}
	return strings.Join(out, ", ")
}

// containsWord reports whether phrase occurs in s with no letter, digit or
// underscore directly before or after it.
func containsWord(s, phrase string) bool {
	if phrase == "" {
		return false
	}
	for i := 0; i <= len(s)-len(phrase); {
		j := strings.Index(s[i:], phrase)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(phrase)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(s) || !isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		i = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func metaDescription(doc *dom.Document) string {
	if m := doc.First(`meta[property="og:description"]`); m != nil {
		if c, ok := m.Attr("content"); ok {
			return textnorm.Normalize(c)
		}
	}
	return ""
}
