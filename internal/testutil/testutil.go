// Package testutil provides shared test helpers: temporary databases and
// directories, deterministic clocks and ids, and a scripted AI provider.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/starford/notewise/internal/ai"
	"github.com/starford/notewise/internal/index"
	"github.com/starford/notewise/internal/storage"
)

// TestDB creates an in-memory SQLite index that is closed on cleanup.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(index.MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDir creates a temporary directory with a storage.FS on top.
func TestDir(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}

// Clock is a deterministic time source that advances by a fixed step on
// every call, so successive timestamps are strictly increasing.
type Clock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{next: start, step: step}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

// SeqIDs returns a generator yielding prefix-1, prefix-2, ...
func SeqIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// StubProvider is an ai.Provider that returns scripted replies and records
// the prompts it receives.
type StubProvider struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
	// Block, when non-nil, is waited on before replying.
	Block chan struct{}
}

var _ ai.Provider = (*StubProvider)(nil)

// NewStubProvider replies with each of replies in turn, repeating the last.
func NewStubProvider(replies ...string) *StubProvider {
	return &StubProvider{replies: replies}
}

// FailingProvider returns err from every call.
func FailingProvider(err error) *StubProvider {
	return &StubProvider{err: err}
}

func (p *StubProvider) Generate(ctx context.Context, prompt string, _ ...ai.Option) (string, error) {
	if p.Block != nil {
		select {
		case <-p.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	if len(p.replies) == 0 {
		return "", fmt.Errorf("stub provider: no reply scripted")
	}
	reply := p.replies[0]
	if len(p.replies) > 1 {
		p.replies = p.replies[1:]
	}
	return reply, nil
}

// Calls returns how many prompts were received.
func (p *StubProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

// Prompts returns a copy of the received prompts.
func (p *StubProvider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}

// Eventually polls fn every tick until it returns true or timeout elapses.
func Eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}
