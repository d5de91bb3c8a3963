package storage

import (
	"context"
	"sync"

	"newshub/internal/feed"
	"newshub/internal/profile"
)

// Memory is an in-memory HistoryStore/SavedStore pair for tests and
// local development.
type Memory struct {
	mu           sync.RWMutex
	historyLimit int
	history      map[string][]profile.ReadingEvent
	saved        map[string][]feed.Article
}

func NewMemory(historyLimit int) *Memory {
	if historyLimit <= 0 {
		historyLimit = profile.MaxHistory
	}
	return &Memory{
		historyLimit: historyLimit,
		history:      make(map[string][]profile.ReadingEvent),
		saved:        make(map[string][]feed.Article),
	}
}

func (m *Memory) Append(_ context.Context, userID string, ev profile.ReadingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := append(m.history[userID], ev)
	if len(events) > m.historyLimit {
		events = events[len(events)-m.historyLimit:]
	}
	m.history[userID] = events
	return nil
}

func (m *Memory) List(_ context.Context, userID string) ([]profile.ReadingEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]profile.ReadingEvent, len(m.history[userID]))
	copy(out, m.history[userID])
	return out, nil
}

func (m *Memory) Saved() SavedStore { return (*memorySaved)(m) }

func (m *Memory) History() HistoryStore { return m }

type memorySaved Memory

func (m *memorySaved) Toggle(_ context.Context, userID string, art feed.Article) (bool, error) {
	s := (*Memory)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.saved[userID]
	for i, existing := range list {
		if existing.ID == art.ID {
			s.saved[userID] = append(list[:i], list[i+1:]...)
			return false, nil
		}
	}
	s.saved[userID] = append(list, art)
	return true, nil
}

func (m *memorySaved) List(_ context.Context, userID string) ([]feed.Article, error) {
	s := (*Memory)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]feed.Article, len(s.saved[userID]))
	copy(out, s.saved[userID])
	return out, nil
}
