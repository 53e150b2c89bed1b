package http

import (
	"encoding/json"
	"io"
	"net/http"
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

// ControlResponse is the response for host control endpoints
type ControlResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	Players int    `json:"players"`
	Phase   string `json:"phase"`
}

// handleStart handles POST /api/start: reset scores and begin at item zero
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Start(); err != nil {
		s.sendError(w, http.StatusInternalServerError, "START_FAILED", err.Error())
		return
	}
	s.sendSuccess(w, &ControlResponse{OK: true})
}

// handleNext handles POST /api/next: force reveal or advance. Idempotent;
// a no-op in the lobby still succeeds.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.session.Next()
	s.sendSuccess(w, &ControlResponse{OK: true})
}

// handleReset handles POST /api/reset: back to the lobby, scores kept
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	s.sendSuccess(w, &ControlResponse{OK: true})
}

// handleState handles GET /api/state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.session.GetSnapshot())
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
		Players: s.session.GetPlayerCount(),
		Phase:   s.session.GetPhase().String(),
	})
}

// handleStatic serves static files from the embedded web FS
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path[len("/static/"):]

	file, err := s.webFS.Open("static/" + path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}

	http.ServeContent(w, r, stat.Name(), stat.ModTime(), file.(io.ReadSeeker))
}

// handleHostPage serves the host console
func (s *Server) handleHostPage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, "host.html")
}

// handleIndex serves the participant page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.servePage(w, r, "index.html")
}

// servePage serves an embedded HTML page
func (s *Server) servePage(w http.ResponseWriter, r *http.Request, name string) {
	file, err := s.webFS.Open(name)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, name, stat.ModTime(), file.(io.ReadSeeker))
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
