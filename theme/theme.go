// Package theme owns the light/dark preference of a visitor.
//
// A Service holds the current theme, persists every change through exactly
// one Store and notifies subscribers. The server builds one Service per
// request on top of the session cookie; the browser side is covered by
// BootstrapScript.
package theme

import (
	"errors"
	"fmt"
	"sync"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

var ErrInvalidTheme = errors.New("theme: invalid theme")

// Parse accepts "light" or "dark".
func Parse(s string) (Theme, error) {
	switch t := Theme(s); t {
	case Light, Dark:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func (t Theme) String() string { return string(t) }

// Store persists a theme. Load reports false when nothing has been stored.
type Store interface {
	Load() (Theme, bool, error)
	Save(Theme) error
}

// Service is safe for concurrent use.
type Service struct {
	mu        sync.RWMutex
	store     Store
	current   Theme
	nextID    int
	listeners map[int]func(Theme)
}

// NewService loads the stored theme, or uses fallback when none is stored.
func NewService(store Store, fallback Theme) (*Service, error) {
	if _, err := Parse(string(fallback)); err != nil {
		return nil, err
	}
	s := &Service{store: store, current: fallback, listeners: make(map[int]func(Theme))}
	t, ok, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("theme: load: %w", err)
	}
	if ok {
		s.current = t
	}
	return s, nil
}

// Get returns the current theme.
func (s *Service) Get() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set persists t and makes it current. Subscribers are notified only when
// the theme actually changes.
func (s *Service) Set(t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	s.mu.Lock()
	if err := s.store.Save(t); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("theme: save: %w", err)
	}
	changed := s.current != t
	s.current = t
	listeners := make([]func(Theme), 0, len(s.listeners))
	if changed {
		for _, fn := range s.listeners {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(t)
	}
	return nil
}

// Toggle switches to the opposite theme and returns it.
func (s *Service) Toggle() (Theme, error) {
	next := s.Get().Opposite()
	if err := s.Set(next); err != nil {
		return s.Get(), err
	}
	return next, nil
}

// Subscribe registers fn for theme changes. The returned function removes
// it; calling it more than once is harmless.
func (s *Service) Subscribe(fn func(Theme)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// MemoryStore keeps the theme in memory.
type MemoryStore struct {
	mu    sync.Mutex
	theme Theme
	saved bool
	// Saves counts successful Save calls.
	Saves int
}

func (m *MemoryStore) Load() (Theme, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme, m.saved, nil
}

func (m *MemoryStore) Save(t Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = t
	m.saved = true
	m.Saves++
	return nil
}
