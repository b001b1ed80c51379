package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/relocator/pkg/api"
	"github.com/matzehuels/relocator/pkg/observability"
	"github.com/matzehuels/relocator/pkg/pipeline"
)

func newServer(t *testing.T, cfg api.Config) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	cfg.Logger = logger
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, logger)
	}
	srv := httptest.NewServer(api.New(cfg).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/solve", contentType, strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestHealth(t *testing.T) {
	srv := newServer(t, api.Config{})
	resp, err := http.Get(srv.URL + "/v1/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h api.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Status != "ok" {
		t.Errorf("Status = %q", h.Status)
	}
}

func TestSolve(t *testing.T) {
	srv := newServer(t, api.Config{})

	tests := []struct {
		name        string
		contentType string
		body        string
		want        int
	}{
		{"json object", "application/json", `{"instance":{"tiers":3,"stacks":[[1,3],[2],[]]}}`, 1},
		{"json text", "application/json", `{"instance":"3 3 3\n2 1 3\n1 2\n0\n","time_limit_seconds":5}`, 1},
		{"plain text", "text/plain; charset=utf-8", "3 3 3\n2 1 3\n1 2\n0\n", 1},
		{"already sorted", "application/json", `{"instance":{"tiers":2,"stacks":[[2,1],[3]]}}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := post(t, srv, tt.contentType, tt.body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.StatusCode, data)
			}
			if resp.Header.Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID")
			}
			var got api.SolveResponse
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Relocations != tt.want || !got.Optimal {
				t.Errorf("relocations = %d optimal = %v, want %d optimal", got.Relocations, got.Optimal, tt.want)
			}
			if got.Report == nil || len(got.Report.Solution) != tt.want {
				t.Errorf("report = %+v", got.Report)
			}
			if got.ID != resp.Header.Get("X-Request-ID") {
				t.Errorf("ID = %q, header %q", got.ID, resp.Header.Get("X-Request-ID"))
			}
		})
	}
}

func TestSolveErrors(t *testing.T) {
	srv := newServer(t, api.Config{})

	tests := []struct {
		name        string
		contentType string
		body        string
		code        string
	}{
		{"not json", "application/json", `{"instance":`, "INVALID_FORMAT"},
		{"missing instance", "application/json", `{"tiers":3}`, "INVALID_INPUT"},
		{"instance number", "application/json", `{"instance":3}`, "INVALID_INPUT"},
		{"unknown field", "application/json", `{"instance":{"tiers":2,"height":1,"stacks":[[1]]}}`, "INVALID_FORMAT"},
		{"overfull", "application/json", `{"instance":{"tiers":1,"stacks":[[1,2],[]]}}`, "INVALID_INSTANCE"},
		{"bad time limit", "application/json", `{"instance":{"tiers":2,"stacks":[[1]]},"time_limit_seconds":-1}`, "INVALID_INPUT"},
		{"bad refresh", "application/json", `{"instance":{"tiers":2,"stacks":[[1]]},"refresh":"yes"}`, "INVALID_INPUT"},
		{"bad text", "text/plain", "2 2 x", "INVALID_FORMAT"},
		{"huge text header", "text/plain", "99999999999999 2 0", "INVALID_INSTANCE"},
		{"infeasible", "application/json", `{"instance":{"tiers":2,"stacks":[[1,2]]}}`, "INFEASIBLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := post(t, srv, tt.contentType, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", resp.StatusCode, data)
			}
			var got api.ErrorResponse
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", got.Code, tt.code, got.Error)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	srv := newServer(t, api.Config{RateLimit: 0.001, Burst: 1})
	body := `{"instance":{"tiers":2,"stacks":[[1]]}}`

	if resp, data := post(t, srv, "application/json", body); resp.StatusCode != http.StatusOK {
		t.Fatalf("first request: status = %d, body %s", resp.StatusCode, data)
	}
	resp, _ := post(t, srv, "application/json", body)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want 429", resp.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.Register(observability.NewPrometheus(reg))
	t.Cleanup(observability.Reset)

	srv := newServer(t, api.Config{Gatherer: reg})
	post(t, srv, "application/json", `{"instance":{"tiers":3,"stacks":[[1,3],[2],[]]}}`)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`relocator_http_requests_total{method="POST",route="/v1/solve",status="200"} 1`,
		`relocator_solver_solves_total{outcome="optimal"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestParseSolveRequest(t *testing.T) {
	req, err := api.ParseSolveRequest("application/json",
		[]byte(`{"instance":{"tiers":2,"stacks":[[1],[2]]},"time_limit_seconds":1.5,"refresh":true}`))
	if err != nil {
		t.Fatalf("ParseSolveRequest: %v", err)
	}
	if req.TimeLimit.Milliseconds() != 1500 {
		t.Errorf("TimeLimit = %v", req.TimeLimit)
	}
	if !req.Refresh {
		t.Error("Refresh not set")
	}
	if req.Instance.NumBlocks() != 2 {
		t.Errorf("NumBlocks = %d", req.Instance.NumBlocks())
	}
}

func TestParseSolveRequestHugeTimeLimit(t *testing.T) {
	for _, limit := range []string{"1e11", "1e300"} {
		req, err := api.ParseSolveRequest("application/json",
			[]byte(`{"instance":{"tiers":2,"stacks":[[1]]},"time_limit_seconds":`+limit+`}`))
		if err != nil {
			t.Fatalf("%s: ParseSolveRequest: %v", limit, err)
		}
		if req.TimeLimit < 24*time.Hour {
			t.Errorf("%s: TimeLimit = %v, want a saturated positive duration", limit, req.TimeLimit)
		}
	}
}

func TestSolveClampsHugeTimeLimit(t *testing.T) {
	srv := newServer(t, api.Config{MaxTimeLimit: time.Second})
	resp, data := post(t, srv, "application/json",
		`{"instance":{"tiers":2,"stacks":[[1,2],[]]},"time_limit_seconds":1e11}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	var got api.SolveResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Relocations != 1 || !got.Optimal {
		t.Errorf("response = %+v", got)
	}
}
