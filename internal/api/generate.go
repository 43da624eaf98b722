package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"probgen/internal/ctxlog"
	"probgen/internal/problem"
	"probgen/internal/quiz"
)

type generateProblemRequest struct {
	ID string `json:"id"`
	// Mode is accepted for client compatibility; overrides decide whether
	// parameters are sampled.
	Mode           string               `json:"mode,omitempty"`
	ParamsOverride problem.ParameterSet `json:"params_override,omitempty"`
	Seed           *uint64              `json:"seed,omitempty"`
}

type generateTestRequest struct {
	NumQuestions int     `json:"num_questions"`
	Seed         *uint64 `json:"seed,omitempty"`
}

type gradeTestRequest struct {
	Answers []quiz.Answer `json:"answers"`
}

func (h *handler) handleGenerateProblem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "engine_unavailable")
		return
	}
	var req generateProblemRequest
	if err := decodeBody(w, r, &req, false); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	instance, err := h.engine.Generate(r.Context(), problem.Request{
		QuestionID: req.ID,
		Overrides:  req.ParamsOverride,
		Seed:       req.Seed,
	})
	if err != nil {
		h.writeEngineError(w, r, err, &instance)
		return
	}
	writeJSON(w, http.StatusOK, instance)
}

func (h *handler) handleGenerateTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "engine_unavailable")
		return
	}
	var req generateTestRequest
	if err := decodeBody(w, r, &req, true); err != nil || req.NumQuestions < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	test, err := h.engine.GenerateTest(r.Context(), problem.TestRequest{Count: req.NumQuestions, Seed: req.Seed})
	if errors.Is(err, problem.ErrNotEnoughQuestions) {
		writeErrorResponse(w, http.StatusBadRequest, errorResponse{Error: "not_enough_questions", Message: err.Error()})
		return
	}
	if err != nil {
		h.writeEngineError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, test)
}

func (h *handler) handleGradeTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req gradeTestRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	result, err := quiz.Grade(req.Answers)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeEngineError reports a failed generation. Unknown questions are 404;
// content failures are 422 and carry whatever part of the instance was
// rendered.
func (h *handler) writeEngineError(w http.ResponseWriter, r *http.Request, err error, instance *problem.Instance) {
	code := errorCode(err)
	ctxlog.FromContext(r.Context()).Warn("generation failed", "error", err, "code", code)
	switch code {
	case "not_found":
		writeError(w, http.StatusNotFound, code)
	case "internal_error":
		writeErrorResponse(w, http.StatusInternalServerError, errorResponse{Error: code, Message: err.Error()})
	default:
		payload := errorResponse{Error: code, Message: err.Error()}
		if instance != nil && instance.InstanceID != "" {
			payload.Instance = instance
		}
		writeErrorResponse(w, http.StatusUnprocessableEntity, payload)
	}
}

// decodeBody strictly decodes a JSON body into target. An empty body is
// accepted only when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, target any, allowEmpty bool) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if decoder.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
