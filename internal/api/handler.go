package api

import (
	"log/slog"
	"net/http"

	"probgen/internal/problem"
	"probgen/internal/ratelimit"
)

// maxBodyBytes caps request bodies; the largest legitimate body is a
// graded test with a few dozen answers.
const maxBodyBytes = 1 << 20

// Config wires dependencies for the HTTP handler.
type Config struct {
	Engine *problem.Engine
	Logger *slog.Logger
	// CORSOrigins lists allowed browser origins; "*" allows any origin.
	// Empty disables CORS headers.
	CORSOrigins []string
	// Limiter caps POST requests per client address. Nil disables it.
	Limiter *ratelimit.Limiter
}

// NewHandler builds an HTTP handler for the problem generator API.
func NewHandler(cfg Config) http.Handler {
	h := &handler{
		engine: cfg.Engine,
		logger: cfg.Logger,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/questions", h.handleQuestions)
	mux.HandleFunc("/questions/", h.handleQuestionByID)
	mux.HandleFunc("/topics", h.handleTopics)
	mux.HandleFunc("/generate-problem", h.handleGenerateProblem)
	mux.HandleFunc("/generate-test", h.handleGenerateTest)
	mux.HandleFunc("/grade-test", h.handleGradeTest)
	return logRequests(h.logger, withCORS(cfg.CORSOrigins, withRateLimit(cfg.Limiter, mux)))
}

type handler struct {
	engine *problem.Engine
	logger *slog.Logger
}

func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "probgen problem generator is running"})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "engine_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Questions: h.engine.Catalog().Len()})
}
