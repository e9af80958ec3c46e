// Package views renders the landing page.
package views

import "copaweb/internal/domain"

// Translate formats a message key for the page's language
type Translate func(key string, args ...interface{}) string

// HomeProps is the render input of the landing page
type HomeProps struct {
	Lang      string
	SessionID string
	// WSPath is where the page script attaches to its session.
	WSPath   string
	Counters domain.Counters
	T        Translate
}

// ErrorProps is the render input of the error page
type ErrorProps struct {
	Lang    string
	Title   string
	Message string
}

func count(t Translate, n int) string {
	return t("stats.count", n)
}
