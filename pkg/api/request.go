package api

import (
	"bytes"
	"math"
	"mime"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/errors"
	instio "github.com/matzehuels/relocator/pkg/io"
)

// MaxBodyBytes bounds the size of a request body.
const MaxBodyBytes = 1 << 20

// maxLimitSeconds is the largest time limit representable as a Duration.
// Larger requests saturate here and are clamped by the server.
const maxLimitSeconds = float64(math.MaxInt64 / int64(time.Second))

// SolveRequest is a decoded solve request.
type SolveRequest struct {
	Instance *bay.Instance
	// TimeLimit is zero when the caller did not ask for one.
	TimeLimit time.Duration
	Refresh   bool
}

// ParseSolveRequest decodes body according to contentType. Plain text is
// read as the instance text format; anything else must be JSON.
func ParseSolveRequest(contentType string, body []byte) (*SolveRequest, error) {
	if len(body) > MaxBodyBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", MaxBodyBytes)
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "text/plain" {
		inst, err := instio.ReadText(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		return &SolveRequest{Instance: inst}, nil
	}
	return parseJSON(body)
}

func parseJSON(body []byte) (*SolveRequest, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "request body is not valid JSON")
	}

	req := &SolveRequest{}
	raw := gjson.GetBytes(body, "instance")
	var err error
	switch {
	case !raw.Exists():
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing instance field")
	case raw.Type == gjson.String:
		req.Instance, err = instio.ReadText(strings.NewReader(raw.String()))
	case raw.IsObject():
		req.Instance, err = instio.ReadJSON(strings.NewReader(raw.Raw))
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "instance must be an object or a string")
	}
	if err != nil {
		return nil, err
	}

	if v := gjson.GetBytes(body, "time_limit_seconds"); v.Exists() {
		if v.Type != gjson.Number || v.Float() <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "time_limit_seconds must be a positive number")
		}
		req.TimeLimit = time.Duration(min(v.Float(), maxLimitSeconds) * float64(time.Second))
	}
	if v := gjson.GetBytes(body, "refresh"); v.Exists() {
		if !v.IsBool() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "refresh must be a boolean")
		}
		req.Refresh = v.Bool()
	}
	return req, nil
}
