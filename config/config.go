// Package config loads and persists triage settings and ignore-filter
// rules from a JSON file.
package config

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Settings controls fetching, classification, and timeouts.
type Settings struct {
	Model           string `json:"model"`           // reasoning model name
	FetchCount      int64  `json:"fetchCount"`      // unread messages per poll
	PollSeconds     int    `json:"pollSeconds"`     // poll interval
	ClassifySeconds int    `json:"classifySeconds"` // reasoning call timeout
}

// Filters defines which messages are dropped before triage.
type Filters struct {
	IgnoreSenders           []string `json:"ignoreSenders"`
	IgnoreKeywordsInSubject []string `json:"ignoreKeywordsInSubject"`
}

type fileConfig struct {
	Settings Settings `json:"settings"`
	Filters  Filters  `json:"filters"`
}

// Manager handles loading, saving, and accessing the configuration.
type Manager struct {
	filePath string
	cfg      *fileConfig
	mu       sync.RWMutex
}

func defaults() *fileConfig {
	return &fileConfig{
		Settings: Settings{
			Model:           "gemini-2.5-flash-lite",
			FetchCount:      10,
			PollSeconds:     30,
			ClassifySeconds: 30,
		},
		Filters: Filters{
			IgnoreSenders:           []string{},
			IgnoreKeywordsInSubject: []string{},
		},
	}
}

// NewManager creates a manager backed by filePath. A missing file is
// created with defaults.
func NewManager(filePath string) (*Manager, error) {
	m := &Manager{filePath: filePath, cfg: defaults()}
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads the config file, creating it with defaults when absent.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.cfg = defaults()
			return m.save()
		}
		return err
	}

	cfg := defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return err
	}
	if cfg.Settings.FetchCount <= 0 {
		cfg.Settings.FetchCount = 10
	}
	if cfg.Settings.PollSeconds <= 0 {
		cfg.Settings.PollSeconds = 30
	}
	if cfg.Settings.ClassifySeconds <= 0 {
		cfg.Settings.ClassifySeconds = 30
	}
	m.cfg = cfg
	return nil
}

// save writes the current configuration. Callers hold m.mu.
func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.filePath, data, 0644)
}

// GetSettings returns a copy of the current settings.
func (m *Manager) GetSettings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Settings
}

// GetFilters returns a copy of the current filters.
func (m *Manager) GetFilters() Filters {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Filters
}

// PollInterval returns the poll interval as a duration.
func (m *Manager) PollInterval() time.Duration {
	return time.Duration(m.GetSettings().PollSeconds) * time.Second
}

// ClassifyTimeout returns the reasoning call timeout as a duration.
func (m *Manager) ClassifyTimeout() time.Duration {
	return time.Duration(m.GetSettings().ClassifySeconds) * time.Second
}

// AddIgnoreSender adds a sender to the ignore list and saves.
func (m *Manager) AddIgnoreSender(sender string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.cfg.Filters.IgnoreSenders {
		if s == sender {
			return nil
		}
	}
	m.cfg.Filters.IgnoreSenders = append(m.cfg.Filters.IgnoreSenders, sender)
	return m.save()
}

// AddIgnoreKeywordInSubject adds a subject keyword to the ignore list and
// saves.
func (m *Manager) AddIgnoreKeywordInSubject(keyword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.cfg.Filters.IgnoreKeywordsInSubject {
		if k == keyword {
			return nil
		}
	}
	m.cfg.Filters.IgnoreKeywordsInSubject = append(m.cfg.Filters.IgnoreKeywordsInSubject, keyword)
	return m.save()
}
