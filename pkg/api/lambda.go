package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/matzehuels/relocator/pkg/errors"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// HandleFunctionURL serves a solve request that arrives through an AWS Lambda
// function URL. Only POST is accepted; the path is ignored.
func (s *Server) HandleFunctionURL(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	id := event.RequestContext.RequestID
	if id == "" {
		id = uuid.NewString()
	}
	if m := event.RequestContext.HTTP.Method; m != "" && m != http.MethodPost {
		return lambdaResponse(http.StatusMethodNotAllowed, ErrorResponse{
			ID:    id,
			Error: "method " + m + " not allowed",
			Code:  string(errors.ErrCodeInvalidInput),
		}), nil
	}

	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid base64 body")
			return lambdaResponse(http.StatusBadRequest, newErrorResponse(id, err)), nil
		}
		body = string(decoded)
	}

	status, payload := s.Process(ctx, id, header(event.Headers, "Content-Type"), []byte(body))
	return lambdaResponse(status, payload), nil
}

func lambdaResponse(status int, v any) events.LambdaFunctionURLResponse {
	body, _ := json.Marshal(v)
	return events.LambdaFunctionURLResponse{StatusCode: status, Headers: jsonHeader, Body: string(body)}
}

// header looks up name in the lower-cased header map of a function URL event.
func header(h map[string]string, name string) string {
	if v, ok := h[strings.ToLower(name)]; ok {
		return v
	}
	return h[name]
}
