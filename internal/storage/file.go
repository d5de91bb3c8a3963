package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"newshub/internal/feed"
	"newshub/internal/profile"
)

type fileUser struct {
	History []profile.ReadingEvent `json:"history,omitempty"`
	Saved   []feed.Article         `json:"saved,omitempty"`
}

// FileStore keeps per-user history and saved articles in a JSON file.
// The default persistence collaborator when no database is configured.
type FileStore struct {
	filePath     string
	historyLimit int
	users        map[string]*fileUser
	mu           sync.RWMutex
}

func NewFileStore(filePath string, historyLimit int) *FileStore {
	if historyLimit <= 0 {
		historyLimit = profile.MaxHistory
	}
	return &FileStore{
		filePath:     filePath,
		historyLimit: historyLimit,
		users:        make(map[string]*fileUser),
	}
}

// Load reads existing state from disk. A missing file starts empty.
func (fs *FileStore) Load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read store file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &fs.users); err != nil {
		return fmt.Errorf("unmarshal store file: %w", err)
	}
	return nil
}

func (fs *FileStore) save() error {
	data, err := json.MarshalIndent(fs.users, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	if err := os.WriteFile(fs.filePath, data, 0644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}

func (fs *FileStore) user(userID string) *fileUser {
	u, ok := fs.users[userID]
	if !ok {
		u = &fileUser{}
		fs.users[userID] = u
	}
	return u
}

func (fs *FileStore) Append(_ context.Context, userID string, ev profile.ReadingEvent) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	u := fs.user(userID)
	u.History = append(u.History, ev)
	if len(u.History) > fs.historyLimit {
		u.History = u.History[len(u.History)-fs.historyLimit:]
	}
	return fs.save()
}

func (fs *FileStore) List(_ context.Context, userID string) ([]profile.ReadingEvent, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	u, ok := fs.users[userID]
	if !ok {
		return nil, nil
	}
	out := make([]profile.ReadingEvent, len(u.History))
	copy(out, u.History)
	return out, nil
}

// Saved returns a SavedStore view of this store.
func (fs *FileStore) Saved() SavedStore { return (*fileSaved)(fs) }

// History returns a HistoryStore view of this store.
func (fs *FileStore) History() HistoryStore { return fs }

type fileSaved FileStore

func (fs *fileSaved) Toggle(_ context.Context, userID string, art feed.Article) (bool, error) {
	s := (*FileStore)(fs)
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	for i, existing := range u.Saved {
		if existing.ID == art.ID || (art.URL != "" && existing.URL == art.URL) {
			u.Saved = append(u.Saved[:i], u.Saved[i+1:]...)
			return false, s.save()
		}
	}
	u.Saved = append(u.Saved, art)
	return true, s.save()
}

func (fs *fileSaved) List(_ context.Context, userID string) ([]feed.Article, error) {
	s := (*FileStore)(fs)
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	out := make([]feed.Article, len(u.Saved))
	copy(out, u.Saved)
	return out, nil
}
