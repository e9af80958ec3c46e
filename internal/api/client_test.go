package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"copaweb/internal/domain"
)

func TestCounts(t *testing.T) {
	counts := map[string]int{
		PathPoolCount:  5,
		PathGuessCount: 12,
		PathUserCount:  100,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		n, ok := counts[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.CountResponse{Count: n})
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", 0)
	ctx := context.Background()

	tests := []struct {
		name string
		get  func(context.Context) (int, error)
		want int
	}{
		{name: "pools", get: client.PoolCount, want: 5},
		{name: "guesses", get: client.GuessCount, want: 12},
		{name: "users", get: client.UserCount, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get(ctx)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).PoolCount(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable || statusErr.Path != PathPoolCount {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
}

func TestCountDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 0).UserCount(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCreatePool(t *testing.T) {
	var got domain.CreatePoolRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != PathPools {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.CreatePoolResponse{Code: "ABC123"})
	}))
	defer srv.Close()

	code, err := NewClient(srv.URL, 0).CreatePool(context.Background(), "Bolão da firma")
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	if code != "ABC123" {
		t.Fatalf("expected code ABC123, got %q", code)
	}
	if got.Title != "Bolão da firma" {
		t.Fatalf("expected title to be forwarded, got %q", got.Title)
	}
}

func TestCreatePoolEmptyCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).CreatePool(context.Background(), "x")
	if !errors.Is(err, domain.ErrEmptyCode) {
		t.Fatalf("expected ErrEmptyCode, got %v", err)
	}
}
