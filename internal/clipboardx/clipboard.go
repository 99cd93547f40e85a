// Package clipboardx wraps system clipboard access behind a small interface
// so the session manager can be tested without touching the real clipboard.
package clipboardx

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard writes text to a clipboard. Write with an empty string clears it.
type Clipboard interface {
	Write(text string) error
}

// System is the real clipboard backed by github.com/atotto/clipboard.
type System struct{}

func NewSystem() *System {
	return &System{}
}

func (s *System) Write(text string) error {
	return clipboard.WriteAll(text)
}

// Memory is an in-process fake used in tests. It records every write.
// Safe for concurrent use: clear timers write from their own goroutine.
type Memory struct {
	mu      sync.Mutex
	content string
	writes  []string
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = text
	m.writes = append(m.writes, text)
	return nil
}

// Current returns the last written content.
func (m *Memory) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content
}

// WriteCount returns how many writes happened.
func (m *Memory) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}
