package api

import (
	"net/http"
	"strings"
)

func (h *handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "engine_unavailable")
		return
	}
	questions := h.engine.Catalog().List()
	out := make([]questionSummary, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionSummary{ID: q.ID, Topic: q.Topic, DocURL: q.DocURL})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) handleQuestionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "engine_unavailable")
		return
	}
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/questions/"))
	if id == "" {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	q, ok := h.engine.Catalog().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *handler) handleTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "engine_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, topicsResponse{Topics: h.engine.Catalog().Topics()})
}
