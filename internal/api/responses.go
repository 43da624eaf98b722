package api

import (
	"encoding/json"
	"net/http"

	"probgen/internal/problem"
)

type errorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message,omitempty"`
	Instance *problem.Instance `json:"instance,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Questions int    `json:"questions"`
}

type questionSummary struct {
	ID     string `json:"id"`
	Topic  string `json:"topic"`
	DocURL string `json:"doc_url,omitempty"`
}

type topicsResponse struct {
	Topics []string `json:"topics"`
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeErrorResponse(w, status, errorResponse{Error: code})
}

func writeErrorResponse(w http.ResponseWriter, status int, payload errorResponse) {
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		data, _ = json.Marshal(errorResponse{Error: "encoding_error", Message: err.Error()})
		status = http.StatusInternalServerError
	}
	writeBytes(w, status, data)
}

func writeBytes(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// errorCode maps engine failures onto stable API error codes.
func errorCode(err error) string {
	switch problem.Kind(err) {
	case "not_found":
		return "not_found"
	case "configuration":
		return "configuration_error"
	case "evaluation":
		return "evaluation_error"
	case "template":
		return "template_error"
	}
	return "internal_error"
}
