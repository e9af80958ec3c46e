package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"copaweb/internal/domain"
)

func TestBootstrapperLoad(t *testing.T) {
	b := NewBootstrapper(&fakeCounts{pools: 5, guesses: 12, users: 100}, testLogger())

	got, err := b.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := domain.Counters{Pools: 5, Guesses: 12, Users: 100}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("counters mismatch (-want +got):\n%s", diff)
	}
}

func TestBootstrapperLoadFailsOnAnyError(t *testing.T) {
	for _, name := range []string{"pools", "guesses", "users"} {
		t.Run(name, func(t *testing.T) {
			b := NewBootstrapper(&fakeCounts{pools: 5, guesses: 12, users: 100, failOn: name}, testLogger())

			got, err := b.Load(context.Background())
			if !errors.Is(err, errBackendDown) {
				t.Fatalf("expected backend error, got %v", err)
			}
			if diff := cmp.Diff(domain.Counters{}, got); diff != "" {
				t.Fatalf("expected no partial counters (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBootstrapperFailureCancelsPendingReads(t *testing.T) {
	// users fails while pools and guesses would block forever
	src := &fakeCounts{failOn: "users", block: true}
	b := NewBootstrapper(src, testLogger())

	done := make(chan error, 1)
	go func() {
		_, err := b.Load(context.Background())
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, errBackendDown) {
			t.Fatalf("expected backend error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("load did not fail fast")
	}
}
