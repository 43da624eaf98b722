package api

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"probgen/internal/logging"
	"probgen/internal/problem"
	"probgen/internal/question"
	"probgen/internal/quiz"
	"probgen/internal/ratelimit"
	"probgen/internal/testutil"
)

func newShippedServer(t *testing.T) *httptest.Server {
	t.Helper()
	catalog, err := question.Load("../../catalog/questions.yaml")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return newServer(t, catalog)
}

func newServer(t *testing.T, catalog *question.Catalog) *httptest.Server {
	t.Helper()
	engine, err := problem.NewEngine(catalog)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	srv := httptest.NewServer(NewHandler(Config{
		Engine:      engine,
		Logger:      logging.Discard(),
		CORSOrigins: []string{"*"},
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestHTTP_CatalogEndpoints verifies the read-only catalog routes.
func TestHTTP_CatalogEndpoints(t *testing.T) {
	srv := newShippedServer(t)

	status, body := testutil.DoJSON(t, http.MethodGet, srv.URL+"/", nil)
	if status != http.StatusOK || !strings.Contains(string(body), "running") {
		t.Fatalf("root: status %d body %s", status, body)
	}

	status, body = testutil.DoJSON(t, http.MethodGet, srv.URL+"/questions", nil)
	if status != http.StatusOK {
		t.Fatalf("questions: expected 200, got %d", status)
	}
	var summaries []questionSummary
	testutil.DecodeJSON(t, body, &summaries)
	if len(summaries) != 10 || summaries[0].ID != "binomial_al_menos" || summaries[0].Topic != "Binomial" {
		t.Fatalf("unexpected summaries %+v", summaries)
	}

	status, body = testutil.DoJSON(t, http.MethodGet, srv.URL+"/questions/binomial_al_menos", nil)
	if status != http.StatusOK {
		t.Fatalf("question: expected 200, got %d", status)
	}
	var q question.Question
	testutil.DecodeJSON(t, body, &q)
	if diff := cmp.Diff([]string{"n", "k", "p"}, q.Params.Names()); diff != "" {
		t.Fatalf("param order mismatch (-want +got):\n%s", diff)
	}

	status, _ = testutil.DoJSON(t, http.MethodGet, srv.URL+"/questions/missing", nil)
	if status != http.StatusNotFound {
		t.Fatalf("missing question: expected 404, got %d", status)
	}

	status, body = testutil.DoJSON(t, http.MethodGet, srv.URL+"/topics", nil)
	if status != http.StatusOK {
		t.Fatalf("topics: expected 200, got %d", status)
	}
	var topics topicsResponse
	testutil.DecodeJSON(t, body, &topics)
	want := []string{"Binomial", "Discrete random variables", "Exponential", "Hypergeometric", "Multinomial", "Normal", "Poisson", "Weibull"}
	if diff := cmp.Diff(want, topics.Topics); diff != "" {
		t.Fatalf("topics mismatch (-want +got):\n%s", diff)
	}
}

// TestHTTP_GenerateProblem verifies overrides produce the expected result.
func TestHTTP_GenerateProblem(t *testing.T) {
	srv := newShippedServer(t)
	status, body := testutil.DoJSON(t, http.MethodPost, srv.URL+"/generate-problem", map[string]any{
		"id":              "binomial_al_menos",
		"mode":            "custom",
		"params_override": map[string]float64{"n": 5, "k": 5, "p": 0.5},
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var instance problem.Instance
	testutil.DecodeJSON(t, body, &instance)
	if instance.QuestionID != "binomial_al_menos" || instance.InstanceID == "" {
		t.Fatalf("unexpected instance header %+v", instance)
	}
	if !strings.Contains(instance.Statement, "$n = 5$") {
		t.Fatalf("statement not rendered: %q", instance.Statement)
	}
	if len(instance.Results) != 1 || instance.Results[0].Value != "0.0313" || instance.Results[0].Raw != 0.03125 {
		t.Fatalf("unexpected results %+v", instance.Results)
	}
}

// TestHTTP_GenerateProblemSeeded verifies a seed reproduces the instance.
func TestHTTP_GenerateProblemSeeded(t *testing.T) {
	srv := newShippedServer(t)
	payload := map[string]any{"id": "poisson_mas_de_un", "seed": 77}
	var first, second problem.Instance
	_, body := testutil.DoJSON(t, http.MethodPost, srv.URL+"/generate-problem", payload)
	testutil.DecodeJSON(t, body, &first)
	_, body = testutil.DoJSON(t, http.MethodPost, srv.URL+"/generate-problem", payload)
	testutil.DecodeJSON(t, body, &second)
	if first.Seed != 77 || first.Statement != second.Statement || first.Results[0].Value != second.Results[0].Value {
		t.Fatalf("seeded instances differ: %+v vs %+v", first, second)
	}
}

// TestHTTP_GenerateProblemErrors verifies request and content failures map
// onto status codes.
func TestHTTP_GenerateProblemErrors(t *testing.T) {
	srv := newShippedServer(t)
	cases := []struct {
		name    string
		payload any
		status  int
		code    string
	}{
		{name: "unknown_question", payload: map[string]any{"id": "nope"}, status: http.StatusNotFound, code: "not_found"},
		{name: "missing_id", payload: map[string]any{"mode": "random"}, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "unknown_field", payload: map[string]any{"id": "binomial_al_menos", "extra": 1}, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "malformed", payload: []byte(`{"id":`), status: http.StatusBadRequest, code: "invalid_request"},
	}
	for _, tc := range cases {
		status, body := testutil.DoJSON(t, http.MethodPost, srv.URL+"/generate-problem", tc.payload)
		if status != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, status)
		}
		var parsed errorResponse
		testutil.DecodeJSON(t, body, &parsed)
		if parsed.Error != tc.code {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.code, parsed.Error)
		}
	}

	status, _ := testutil.DoJSON(t, http.MethodGet, srv.URL+"/generate-problem", nil)
	if status != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", status)
	}
}

// TestHTTP_GenerateProblemPartialFailure verifies a failing result returns
// 422 together with the results that rendered.
func TestHTTP_GenerateProblemPartialFailure(t *testing.T) {
	format := question.NumericFormat{Type: "decimal", Rounding: "half_up"}
	catalog, err := question.NewCatalog([]question.Question{{
		ID:       "roto",
		Topic:    "Test",
		Template: "x = {x}",
		Params: question.Params{
			{Name: "x", Min: question.Literal(1), Max: question.Literal(2), Type: question.TypeInt},
		},
		Math: question.Math{Results: []question.Result{
			{ID: "bad", ExpressionSymbolic: "foo + 1", NumericFormat: format},
			{ID: "good", ExpressionSymbolic: "x * 2", NumericFormat: format},
		}},
	}})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	srv := newServer(t, catalog)
	status, body := testutil.DoJSON(t, http.MethodPost, srv.URL+"/generate-problem", map[string]any{
		"id":              "roto",
		"params_override": map[string]float64{"x": 2},
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", status, body)
	}
	var parsed errorResponse
	testutil.DecodeJSON(t, body, &parsed)
	if parsed.Error != "evaluation_error" || parsed.Instance == nil {
		t.Fatalf("unexpected error response %s", body)
	}
	if len(parsed.Instance.Results) != 1 || parsed.Instance.Results[0].Value != "4.0000" {
		t.Fatalf("expected the good result, got %+v", parsed.Instance.Results)
	}
	if len(parsed.Instance.Failures) != 1 || parsed.Instance.Failures[0].ResultID != "bad" {
		t.Fatalf("expected one failure, got %+v", parsed.Instance.Failures)
	}
}

// TestHTTP_GenerateTest verifies test generation and its size limit.
func TestHTTP_GenerateTest(t *testing.T) {
	srv := newShippedServer(t)
	status, body := testutil.DoJSON(t, http.MethodPost, srv.URL+"/generate-test", map[string]any{"num_questions": 3, "seed": 7})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var test problem.Test
	testutil.DecodeJSON(t, body, &test)
	if test.TestID == "" || len(test.Items) != 3 {
		t.Fatalf("unexpected test %+v", test)
	}
	for _, item := range test.Items {
		if len(item.Options) != quiz.OptionCount {
			t.Fatalf("expected %d options, got %v", quiz.OptionCount, item.Options)
		}
	}

	status, body = testutil.DoJSON(t, http.MethodPost, srv.URL+"/generate-test", nil)
	if status != http.StatusOK {
		t.Fatalf("empty body: expected 200, got %d: %s", status, body)
	}
	testutil.DecodeJSON(t, body, &test)
	if len(test.Items) != problem.DefaultTestSize {
		t.Fatalf("expected default size %d, got %d", problem.DefaultTestSize, len(test.Items))
	}

	status, body = testutil.DoJSON(t, http.MethodPost, srv.URL+"/generate-test", map[string]any{"num_questions": 8})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	var parsed errorResponse
	testutil.DecodeJSON(t, body, &parsed)
	if parsed.Error != "not_enough_questions" {
		t.Fatalf("expected not_enough_questions, got %q", parsed.Error)
	}
}

// TestHTTP_GradeTest verifies grading and the empty submission error.
func TestHTTP_GradeTest(t *testing.T) {
	srv := newShippedServer(t)
	status, body := testutil.DoJSON(t, http.MethodPost, srv.URL+"/grade-test", gradeTestRequest{Answers: []quiz.Answer{
		{ID: "a", Selected: 0.0313, Correct: 0.0313},
		{ID: "b", Selected: 0.5, Correct: 0.25},
	}})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var result quiz.Result
	testutil.DecodeJSON(t, body, &result)
	if result.Score != 50 || !result.Details[0].IsCorrect || result.Details[1].IsCorrect {
		t.Fatalf("unexpected grade %+v", result)
	}

	status, _ = testutil.DoJSON(t, http.MethodPost, srv.URL+"/grade-test", gradeTestRequest{Answers: []quiz.Answer{}})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

// TestHTTP_CORSPreflight verifies preflight requests are answered directly.
func TestHTTP_CORSPreflight(t *testing.T) {
	srv := newShippedServer(t)
	req, err := http.NewRequestWithContext(testutil.Context(t, 0), http.MethodOptions, srv.URL+"/generate-problem", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

// TestCORSRestrictedOrigins verifies only listed origins are echoed.
func TestCORSRestrictedOrigins(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := withCORS([]string{"https://app.example"}, next)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/topics", nil)
	req.Header.Set("Origin", "https://app.example")
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("expected echoed origin, got %q", got)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/topics", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("expected forbidden preflight, got %d", rec.Code)
	}
}

// TestServeStopsOnCancel verifies Serve answers requests and returns once
// its context is cancelled.
func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(testutil.Context(t, 0))
	defer cancel()
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ServerConfig{
			Addr:  "127.0.0.1:0",
			Ready: func(addr string) { ready <- addr },
		}, NewHandler(Config{Logger: logging.Discard()}))
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	}
	status, _ := testutil.DoJSON(t, http.MethodGet, "http://"+addr+"/", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("serve: %v", err)
	}
	testutil.Eventually(t, time.Second, 10*time.Millisecond, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return true
		}
		_ = conn.Close()
		return false
	}, "listener still accepting after shutdown")
}

// TestHTTP_RateLimit verifies POST requests beyond the window get 429 while
// reads stay available.
func TestHTTP_RateLimit(t *testing.T) {
	catalog, err := question.Load("../../catalog/questions.yaml")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	engine, err := problem.NewEngine(catalog)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	srv := httptest.NewServer(NewHandler(Config{
		Engine:  engine,
		Logger:  logging.Discard(),
		Limiter: ratelimit.New(2, time.Minute),
	}))
	t.Cleanup(srv.Close)

	payload := map[string]any{"id": "binomial_al_menos", "seed": 1}
	for i := 0; i < 2; i++ {
		status, body := testutil.DoJSON(t, http.MethodPost, srv.URL+"/generate-problem", payload)
		if status != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d: %s", i, status, body)
		}
	}
	status, body := testutil.DoJSON(t, http.MethodPost, srv.URL+"/generate-problem", payload)
	if status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
	var parsed errorResponse
	testutil.DecodeJSON(t, body, &parsed)
	if parsed.Error != "rate_limited" {
		t.Fatalf("unexpected error %q", parsed.Error)
	}
	status, _ = testutil.DoJSON(t, http.MethodGet, srv.URL+"/questions", nil)
	if status != http.StatusOK {
		t.Fatalf("reads should not be limited, got %d", status)
	}
}
