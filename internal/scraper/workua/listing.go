package workua

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"go-workua-scraper/internal/dom"
	"go-workua-scraper/internal/scraper"
	"go-workua-scraper/internal/textnorm"
)

const baseURL = "https://www.work.ua"

var (
	jobPath = regexp.MustCompile(`^/jobs/\d+/?$`)
	jobURL  = regexp.MustCompile(`(?i)^https?://(www\.)?work\.ua/jobs/\d+/?$`)
)

// remoteTokens switch a search to remote-only jobs.
var remoteTokens = map[string]bool{
	"remote":      true,
	"віддалено":   true,
	"дистанційно": true,
}

// IsJobURL reports whether raw is a work.ua job detail URL.
func IsJobURL(raw string) bool {
	return jobURL.MatchString(strings.TrimSpace(raw))
}

// StripRemoteToken removes remote keywords from a query and reports whether
// any was present.
func StripRemoteToken(q string) (string, bool) {
	var kept []string
	remote := false
	for _, tok := range strings.Fields(q) {
		bare := strings.ToLower(strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if remoteTokens[bare] {
			remote = true
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " "), remote
}

// SearchURLs builds the slug form and the query-parameter form of a search,
// in the order they are tried.
func SearchURLs(query string, remote bool) []string {
	prefix := baseURL + "/jobs"
	if remote {
		prefix += "-remote"
	}
	words := strings.Fields(query)
	pretty := prefix + "/?notitle=1"
	if len(words) > 0 {
		slug := make([]string, len(words))
		for i, w := range words {
			slug[i] = url.PathEscape(w)
		}
		pretty = prefix + "-" + strings.Join(slug, "+") + "/?notitle=1"
	}

	params := url.Values{}
	params.Set("search", strings.Join(words, " "))
	params.Set("ss", "1")
	params.Set("notitle", "1")
	return []string{pretty, baseURL + "/jobs/?" + params.Encode()}
}

// ParseListing collects job cards from a search results page in document
// order. URLs already in seen are skipped and newly found ones are added.
// At most limit summaries are returned.
func ParseListing(doc *dom.Document, limit int, seen map[string]bool, employment []string) []scraper.JobSummary {
	var out []scraper.JobSummary
	for _, card := range doc.Find("div") {
		if len(out) >= limit {
			break
		}
		if !isCard(card) {
			continue
		}
		sum, ok := parseCard(card, employment)
		if !ok || seen[sum.URL] {
			continue
		}
		seen[sum.URL] = true
		out = append(out, sum)
	}
	return out
}

// isCard is deliberately loose: any div whose class mentions "card" and
// whose markup links to a job.
func isCard(el dom.Element) bool {
	class, _ := el.Attr("class")
	if !strings.Contains(class, "card") {
		return false
	}
	return strings.Contains(strings.ToLower(el.HTML()), "/jobs/")
}

func parseCard(card dom.Element, employment []string) (scraper.JobSummary, bool) {
	var link dom.Element
	var href string
	for _, a := range card.Find("a[href]") {
		h, _ := a.Attr("href")
		h = strings.TrimSpace(h)
		if jobPath.MatchString(h) || jobURL.MatchString(h) {
			link, href = a, h
			break
		}
	}
	if link == nil {
		return scraper.JobSummary{}, false
	}

	abs, err := resolve(href)
	if err != nil {
		return scraper.JobSummary{}, false
	}

	company := ""
	if cos := card.Find("a[href*='/company/']"); len(cos) > 0 {
		company = textnorm.Normalize(cos[0].Text(" "))
	}

	raw := textnorm.Normalize(card.Text(" "))
	found := map[string]bool{}
	for _, tag := range employment {
		if strings.Contains(raw, tag) {
			found[tag] = true
		}
	}

	return scraper.JobSummary{
		URL:        abs,
		Title:      scraper.OrSentinel(textnorm.Normalize(link.Text(" "))),
		Company:    scraper.OrSentinel(company),
		Salary:     scraper.OrSentinel(findSalary(raw)),
		Employment: scraper.OrSentinel(joinInOrder(employment, found)),
	}, true
}

func resolve(href string) (string, error) {
	base, _ := url.Parse(baseURL)
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
