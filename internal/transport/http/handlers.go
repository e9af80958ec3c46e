package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"copaweb/internal/app"
	"copaweb/internal/i18n"
	"copaweb/internal/views"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	Sessions  int `json:"sessions"`
	Connected int `json:"connected"`
}

// handleHome handles GET /. The page is only rendered once all three
// counters are known.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	tag, persist := s.i18n.Resolve(r)
	loc := s.i18n.Localizer(tag)

	counters, err := s.bootstrap.Load(r.Context())
	if err != nil {
		s.logger.Error("page bootstrap failed", "error", err)
		s.renderPage(w, r, http.StatusBadGateway, views.ErrorPage(views.ErrorProps{
			Lang:    loc.Lang(),
			Title:   loc.T("error.title"),
			Message: loc.T("error.bootstrap"),
		}))
		return
	}

	session := s.hub.CreateSession(loc.Lang(), app.Messages{
		Required:     loc.T("form.required"),
		Confirm:      loc.T("toast.created"),
		SubmitFailed: loc.T("form.failed"),
	})

	if persist {
		i18n.SetLanguageCookie(w, tag)
	}

	s.renderPage(w, r, http.StatusOK, views.Home(views.HomeProps{
		Lang:      loc.Lang(),
		SessionID: session.GetID(),
		WSPath:    "/ws",
		Counters:  counters,
		T:         loc.T,
	}))
}

// handleCounters handles GET /api/counters
func (s *Server) handleCounters(w http.ResponseWriter, r *http.Request) {
	counters, err := s.bootstrap.Load(r.Context())
	if err != nil {
		s.logger.Error("counter load failed", "error", err)
		s.sendError(w, http.StatusBadGateway, "BOOTSTRAP_FAILED", "Failed to load counters")
		return
	}

	s.sendSuccess(w, &counters)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		Sessions:  s.hub.GetSessionCount(),
		Connected: s.hub.GetConnectedCount(),
	})
}

// handleStatic serves static files
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	// Strip /static/ prefix
	path := strings.TrimPrefix(r.URL.Path, "/static/")
	if path == "" || strings.HasSuffix(path, "/") {
		http.NotFound(w, r)
		return
	}

	// Try to open from webFS
	file, err := s.webFS.Open("static/" + path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	// Get file info for content type and modification time
	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	seeker, ok := file.(io.ReadSeeker)
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Serve the file
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), seeker)
}

// renderPage renders a component fully before writing, so a failed render
// never leaves a half-written page behind.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	var buf bytes.Buffer
	if err := page.Render(r.Context(), &buf); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
