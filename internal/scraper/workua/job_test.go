package workua

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-workua-scraper/internal/fetch"
	"go-workua-scraper/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned pages and records every requested URL.
type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	errs   map[string]error
	called []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called = append(f.called, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	if html, ok := f.pages[url]; ok {
		return html, nil
	}
	return "<html><body></body></html>", nil
}

const (
	prettyPython = "https://www.work.ua/jobs-python/?notitle=1"
	paramsPython = "https://www.work.ua/jobs/?notitle=1&search=python&ss=1"
)

func TestScraper_Name(t *testing.T) {
	assert.Equal(t, "Work.ua", NewScraper(&fakeFetcher{}, nil).Name())
}

func TestSearch_BlankQuery(t *testing.T) {
	f := &fakeFetcher{}
	got, err := NewScraper(f, nil).Search(context.Background(), "   ", 5)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, f.called)
}

func TestSearch_FirstPageFillsLimit(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{prettyPython: loadFixture(t, "search.html")}}

	got, err := NewScraper(f, nil).Search(context.Background(), "python", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{prettyPython}, f.called)
}

func TestSearch_MergesBothFormsWithoutDuplicates(t *testing.T) {
	second := `<body>
		<div class="card"><h2><a href="/jobs/7208953/">Python Developer</a></h2></div>
		<div class="card"><h2><a href="/jobs/7300001/">Backend Python</a></h2></div>
	</body>`
	f := &fakeFetcher{pages: map[string]string{
		prettyPython: loadFixture(t, "search.html"),
		paramsPython: second,
	}}

	got, err := NewScraper(f, nil).Search(context.Background(), "python", 10)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "https://www.work.ua/jobs/7300001/", got[3].URL)
	assert.Equal(t, []string{prettyPython, paramsPython}, f.called)
}

func TestSearch_LimitIsClamped(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{prettyPython: loadFixture(t, "search.html")}}

	for _, limit := range []int{0, -3, 50} {
		f.called = nil
		got, err := NewScraper(f, nil).Search(context.Background(), "python", limit)
		require.NoError(t, err)
		assert.Len(t, got, 3)
		assert.LessOrEqual(t, len(got), scraper.MaxResults)
	}
}

func TestSearch_RemoteQuery(t *testing.T) {
	f := &fakeFetcher{}
	_, err := NewScraper(f, nil).Search(context.Background(), "python remote", 5)

	assert.ErrorIs(t, err, scraper.ErrNoResults)
	assert.Equal(t, []string{
		"https://www.work.ua/jobs-remote-python/?notitle=1",
		"https://www.work.ua/jobs/?notitle=1&search=python&ss=1",
	}, f.called)
}

func TestSearch_NoCards(t *testing.T) {
	got, err := NewScraper(&fakeFetcher{}, nil).Search(context.Background(), "python", 5)

	assert.ErrorIs(t, err, scraper.ErrNoResults)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearch_AllFetchesFail(t *testing.T) {
	fetchErr := &fetch.FetchError{URL: paramsPython, Attempts: 3, Err: errors.New("timeout")}
	f := &fakeFetcher{errs: map[string]error{
		prettyPython: &fetch.FetchError{URL: prettyPython, Attempts: 3, Err: errors.New("timeout")},
		paramsPython: fetchErr,
	}}

	_, err := NewScraper(f, nil).Search(context.Background(), "python", 5)
	require.Error(t, err)
	assert.True(t, fetch.IsFetchError(err))
	assert.Same(t, fetchErr, err)
}

func TestSearch_OneFormFails(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{paramsPython: loadFixture(t, "search.html")},
		errs:  map[string]error{prettyPython: errors.New("blocked")},
	}

	got, err := NewScraper(f, nil).Search(context.Background(), "python", 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestJob_InvalidURL(t *testing.T) {
	f := &fakeFetcher{}
	for _, raw := range []string{"", "https://www.work.ua/jobs/", "https://example.com/jobs/1/", "not a url"} {
		_, err := NewScraper(f, nil).Job(context.Background(), raw)
		assert.ErrorIs(t, err, scraper.ErrInvalidURL, raw)
	}
	assert.Empty(t, f.called)
}

func TestJob_FetchError(t *testing.T) {
	url := "https://www.work.ua/jobs/7208953/"
	f := &fakeFetcher{errs: map[string]error{url: &fetch.FetchError{URL: url, Attempts: 3, Err: errors.New("reset")}}}

	_, err := NewScraper(f, nil).Job(context.Background(), url)
	assert.True(t, fetch.IsFetchError(err))
}

func TestJob_Fixture(t *testing.T) {
	url := "https://www.work.ua/jobs/7208953/"
	f := &fakeFetcher{pages: map[string]string{url: loadFixture(t, "job.html")}}

	got, err := NewScraper(f, nil).Job(context.Background(), " "+url+" ")
	require.NoError(t, err)

	assert.Equal(t, scraper.JobDetail{
		URL:          url,
		Title:        "Python Developer",
		Company:      "Acme Soft",
		Salary:       "40 000 – 60 000 грн",
		Posted:       "2025-03-12",
		Employment:   "Повна зайнятість, Дистанційна робота",
		Tasks:        []string{"Писати сервіси на FastAPI", "Рев'ю коду"},
		Expectations: []string{"Python 3+", "Досвід з SQL"},
		Description: []string{
			"Ми шукаємо розробника в команду платформи даних.",
			"Що ми очікуємо:",
			"Буде плюсом:",
		},
	}, got)
}

func TestParseJob_EmptyPage(t *testing.T) {
	doc := mustDoc(t, `<html><body></body></html>`)
	got := NewScraper(&fakeFetcher{}, nil).ParseJob(doc, "https://www.work.ua/jobs/1/")

	assert.Equal(t, scraper.Sentinel, got.Title)
	assert.Equal(t, scraper.Sentinel, got.Company)
	assert.Equal(t, scraper.Sentinel, got.Salary)
	assert.Equal(t, scraper.Sentinel, got.Posted)
	assert.Equal(t, scraper.Sentinel, got.Employment)
	assert.NotNil(t, got.Tasks)
	assert.Empty(t, got.Tasks)
	assert.NotNil(t, got.Expectations)
	assert.Empty(t, got.Expectations)
	assert.NotNil(t, got.Description)
	assert.Empty(t, got.Description)
}

func TestParseJob_SegmenterPanicDegradesLists(t *testing.T) {
	s := NewScraper(&fakeFetcher{}, nil)
	s.segmenter = &Segmenter{}

	doc := mustDoc(t, `<body><h1>Go Developer</h1>
		<div id="job-description"><p>Про нас</p><h2>Вимоги</h2><ul><li>Go</li></ul></div></body>`)

	var job scraper.JobDetail
	require.NotPanics(t, func() { job = s.ParseJob(doc, "https://www.work.ua/jobs/1/") })
	assert.Equal(t, "Go Developer", job.Title)
	assert.NotNil(t, job.Tasks)
	assert.Empty(t, job.Tasks)
	assert.NotNil(t, job.Expectations)
	assert.Empty(t, job.Expectations)
	assert.Equal(t, []string{"Про нас"}, job.Description)
}
