package views

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"copaweb/internal/domain"
)

func stubT(key string, args ...interface{}) string {
	if key == "stats.count" {
		return fmt.Sprintf("+%d", args...)
	}
	return "[" + key + "]"
}

func TestHomeRendersCounters(t *testing.T) {
	var buf bytes.Buffer
	err := Home(HomeProps{
		Lang:      "pt-BR",
		SessionID: "session-1",
		WSPath:    "/ws",
		Counters:  domain.Counters{Pools: 5, Guesses: 12, Users: 100},
		T:         stubT,
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		`<html lang="pt-BR">`,
		`data-counter="pools">+5</span>`,
		`data-counter="guesses">+12</span>`,
		`data-counter="users">+100</span>`,
		`data-session="session-1"`,
		`data-ws="/ws"`,
		`<button type="submit" id="submit" disabled>[form.submit]</button>`,
		`id="toasts"`,
		`<img class="preview" src="/static/app-preview.svg" alt="[home.preview_alt]">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if got := strings.Count(html, `id="toasts"`); got != 1 {
		t.Errorf("expected exactly one toast container, got %d", got)
	}
}

func TestHomeEscapesText(t *testing.T) {
	var buf bytes.Buffer
	err := Home(HomeProps{
		Lang:      "pt-BR",
		SessionID: `"><script>`,
		T:         stubT,
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), `"><script>`) {
		t.Fatal("expected attribute value to be escaped")
	}
}

func TestErrorPage(t *testing.T) {
	var buf bytes.Buffer
	err := ErrorPage(ErrorProps{Lang: "en-US", Title: "Something went wrong", Message: "Try later"}).
		Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "Something went wrong") || !strings.Contains(html, "Try later") {
		t.Fatalf("unexpected output %s", html)
	}
	if strings.Contains(html, "data-counter") {
		t.Fatal("error page must not render counters")
	}
}
