// Package testutil holds deterministic stand-ins shared by package tests.
package testutil

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/sakif/snipshare/internal/repository/memory"
	"github.com/sakif/snipshare/internal/storage"
)

// Logger discards everything below error level.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// StubClock returns a fixed time that advances by one second per call.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewStubClock() *StubClock {
	return &StubClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(time.Second)
	return t
}

// SequentialIDs yields "id-1", "id-2", ...
type SequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (g *SequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// NewStorage returns storage over a fresh in-memory backend, with the backend
// exposed so tests can plant raw values.
func NewStorage() (*storage.Storage, *memory.Backend) {
	backend := memory.New()
	return storage.New(backend, Logger()), backend
}
