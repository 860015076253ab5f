package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mkoskela/whisperdesk/internal/files"
	"github.com/mkoskela/whisperdesk/internal/logger"
)

// Store is the persistence surface handed to application state. It mirrors
// fyne.Preferences so either a FileStore or the toolkit's own preferences
// can back it.
type Store interface {
	String(key string) string
	StringWithFallback(key, fallback string) string
	SetString(key, value string)

	Bool(key string) bool
	BoolWithFallback(key string, fallback bool) bool
	SetBool(key string, value bool)

	Float(key string) float64
	FloatWithFallback(key string, fallback float64) float64
	SetFloat(key string, value float64)

	StringMap(key string) map[string]string
	SetStringMap(key string, value map[string]string)

	RemoveValue(key string)
}

// FileStore keeps settings in a single JSON file. Every mutation is written
// back synchronously so a crash never loses more than the in-flight change.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]any
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("settings path is empty")
	}
	s := &FileStore{
		path:   path,
		values: make(map[string]any),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) String(key string) string {
	return s.StringWithFallback(key, "")
}

func (s *FileStore) StringWithFallback(key, fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return fallback
}

func (s *FileStore) SetString(key, value string) {
	s.set(key, value)
}

func (s *FileStore) Bool(key string) bool {
	return s.BoolWithFallback(key, false)
}

func (s *FileStore) BoolWithFallback(key string, fallback bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return fallback
}

func (s *FileStore) SetBool(key string, value bool) {
	s.set(key, value)
}

func (s *FileStore) Float(key string) float64 {
	return s.FloatWithFallback(key, 0)
}

func (s *FileStore) FloatWithFallback(key string, fallback float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key].(float64); ok {
		return v
	}
	return fallback
}

func (s *FileStore) SetFloat(key string, value float64) {
	s.set(key, value)
}

func (s *FileStore) StringMap(key string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string)
	switch v := s.values[key].(type) {
	case map[string]string:
		for k, val := range v {
			out[k] = val
		}
	case map[string]any:
		// JSON decoding produces map[string]any.
		for k, val := range v {
			if str, ok := val.(string); ok {
				out[k] = str
			}
		}
	}
	return out
}

func (s *FileStore) SetStringMap(key string, value map[string]string) {
	copied := make(map[string]string, len(value))
	for k, v := range value {
		copied[k] = v
	}
	s.set(key, copied)
}

func (s *FileStore) RemoveValue(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.persistLocked()
}

func (s *FileStore) set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.persistLocked()
}

func (s *FileStore) persistLocked() {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		logger.Error("Failed to encode settings", "path", s.path, "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		logger.Error("Failed to create settings directory", "path", s.path, "error", err)
		return
	}
	if err := files.AtomicWrite(s.path, data, 0600); err != nil {
		logger.Error("Failed to write settings", "path", s.path, "error", err)
	}
}
