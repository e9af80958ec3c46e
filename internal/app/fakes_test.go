package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"copaweb/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCounts struct {
	pools, guesses, users int
	failOn                string
	block                 bool
}

var errBackendDown = errors.New("backend down")

func (f *fakeCounts) read(ctx context.Context, name string, n int) (int, error) {
	if f.failOn == name {
		return 0, errBackendDown
	}
	if f.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return n, nil
}

func (f *fakeCounts) PoolCount(ctx context.Context) (int, error) {
	return f.read(ctx, "pools", f.pools)
}

func (f *fakeCounts) GuessCount(ctx context.Context) (int, error) {
	return f.read(ctx, "guesses", f.guesses)
}

func (f *fakeCounts) UserCount(ctx context.Context) (int, error) {
	return f.read(ctx, "users", f.users)
}

type fakeCreator struct {
	mu      sync.Mutex
	code    string
	err     error
	titles  []string
	started chan struct{}
	release chan struct{}
}

func (f *fakeCreator) CreatePool(ctx context.Context, title string) (string, error) {
	f.mu.Lock()
	f.titles = append(f.titles, title)
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.code, f.err
}

func (f *fakeCreator) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.titles...)
}

// feedback records clipboard writes, notifications and published states in
// the order they happen.
type feedback struct {
	mu       sync.Mutex
	steps    []string
	clip     []string
	toasts   []string
	states   []domain.FormState
	clipErr  error
	snapshot func() domain.FormState
}

func (f *feedback) WriteText(ctx context.Context, text string) error {
	step := "clipboard"
	if f.snapshot != nil && f.snapshot().Value == "" {
		step = "clipboard(reset)"
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, step)
	f.clip = append(f.clip, text)
	return f.clipErr
}

func (f *feedback) Notify(ctx context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, "notify")
	f.toasts = append(f.toasts, message)
	return nil
}

func (f *feedback) PublishState(state domain.FormState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, state)
}

func (f *feedback) clipboard() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.clip...)
}

func (f *feedback) notifications() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.toasts...)
}

func (f *feedback) order() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.steps...)
}
