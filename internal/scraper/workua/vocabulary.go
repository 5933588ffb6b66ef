package workua

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"go-workua-scraper/internal/textnorm"

	"gopkg.in/yaml.v3"
)

// SectionKind names a logical free-text section of a job page.
type SectionKind string

const (
	SectionTasks        SectionKind = "tasks"
	SectionExpectations SectionKind = "expectations"
	// SectionOffer is never extracted; its headings only end other sections.
	SectionOffer SectionKind = "offer"
)

//go:embed vocabulary.yaml
var vocabularyYAML []byte

// Vocabulary is the static heading and tag data the extractors match against.
type Vocabulary struct {
	Version    int                      `yaml:"version"`
	Sections   map[SectionKind][]string `yaml:"sections"`
	Employment []string                 `yaml:"employment"`

	phrases map[SectionKind][]string
	stop    []string
}

// ParseVocabulary decodes vocabulary YAML and precomputes the normalized
// phrase sets.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	v := &Vocabulary{}
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if len(v.Sections) == 0 {
		return nil, fmt.Errorf("vocabulary has no sections")
	}

	v.phrases = make(map[SectionKind][]string, len(v.Sections))
	all := map[string]bool{}
	for kind, raw := range v.Sections {
		seen := map[string]bool{}
		for _, p := range raw {
			n := textnorm.NormalizeLower(p)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			all[n] = true
			v.phrases[kind] = append(v.phrases[kind], n)
		}
	}
	for p := range all {
		v.stop = append(v.stop, p)
	}
	sort.Strings(v.stop)
	return v, nil
}

var defaultVocabulary = sync.OnceValue(func() *Vocabulary {
	v, err := ParseVocabulary(vocabularyYAML)
	if err != nil {
		panic(err)
	}
	return v
})

// DefaultVocabulary is the embedded vocabulary.
func DefaultVocabulary() *Vocabulary {
	return defaultVocabulary()
}

// Phrases returns the normalized, lowercased heading phrases of kind.
func (v *Vocabulary) Phrases(kind SectionKind) []string {
	return v.phrases[kind]
}

// StopSet is the union of every kind's phrases.
func (v *Vocabulary) StopSet() []string {
	return v.stop
}
