package api

import (
	"net/http"

	"github.com/matzehuels/relocator/pkg/errors"
	instio "github.com/matzehuels/relocator/pkg/io"
	"github.com/matzehuels/relocator/pkg/pipeline"
	"github.com/matzehuels/relocator/pkg/solver"
)

// SolveResponse is the body of a successful solve.
type SolveResponse struct {
	ID          string         `json:"id"`
	Relocations int            `json:"relocations"`
	LowerBound  int            `json:"lower_bound"`
	Optimal     bool           `json:"optimal"`
	TimedOut    bool           `json:"timed_out"`
	Cached      bool           `json:"cached"`
	Moves       string         `json:"moves"`
	Report      *solver.Report `json:"report"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func newSolveResponse(id string, res *pipeline.Result) SolveResponse {
	rep := res.Report
	return SolveResponse{
		ID:          id,
		Relocations: rep.BestUB,
		LowerBound:  rep.BestLB,
		Optimal:     rep.Optimal(),
		TimedOut:    rep.TimedOut,
		Cached:      res.Cached,
		Moves:       instio.FormatMoves(rep.Solution, true),
		Report:      rep,
	}
}

func newErrorResponse(id string, err error) ErrorResponse {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return ErrorResponse{ID: id, Error: errors.UserMessage(err), Code: string(code)}
}

// StatusCode maps an error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
