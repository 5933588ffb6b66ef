// Package session keeps per-chat-user state for the bot: the last result
// list and whether the user was asked for a job URL.
package session

import (
	"log"
	"sync"
	"time"

	"go-workua-scraper/internal/scraper"
)

type entry struct {
	rows    []scraper.JobSummary
	savedAt time.Time
}

// Store is safe for concurrent use. Go maps are not, hence the mutex.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	results  map[int64]entry
	awaiting map[int64]time.Time
	now      func() time.Time
}

// NewStore returns a store whose entries expire after ttl. A non-positive
// ttl keeps entries until they are replaced.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		results:  make(map[int64]entry),
		awaiting: make(map[int64]time.Time),
		now:      time.Now,
	}
}

// SaveResults replaces the user's list.
func (s *Store) SaveResults(userID int64, rows []scraper.JobSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]scraper.JobSummary, len(rows))
	copy(cp, rows)
	s.results[userID] = entry{rows: cp, savedAt: s.now()}
}

// Row returns the idx-th (0-based) summary of the user's last list. ok is
// false when the index is out of range or the list expired.
func (s *Store) Row(userID int64, idx int) (scraper.JobSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.results[userID]
	if !exists {
		return scraper.JobSummary{}, false
	}
	if s.expired(e.savedAt) {
		delete(s.results, userID)
		return scraper.JobSummary{}, false
	}
	if idx < 0 || idx >= len(e.rows) {
		return scraper.JobSummary{}, false
	}
	return e.rows[idx], true
}

// SetAwaitingURL marks that the user's next plain message is a job URL.
func (s *Store) SetAwaitingURL(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaiting[userID] = s.now()
}

// TakeAwaitingURL reports whether the user was awaiting a URL and clears it.
func (s *Store) TakeAwaitingURL(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.awaiting[userID]
	if !ok {
		return false
	}
	delete(s.awaiting, userID)
	return !s.expired(at)
}

// Prune drops every expired entry and returns how many were removed.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.results {
		if s.expired(e.savedAt) {
			delete(s.results, id)
			removed++
		}
	}
	for id, at := range s.awaiting {
		if s.expired(at) {
			delete(s.awaiting, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("🧹 Pruned %d expired sessions", removed)
	}
	return removed
}

func (s *Store) expired(at time.Time) bool {
	return s.ttl > 0 && s.now().Sub(at) > s.ttl
}
