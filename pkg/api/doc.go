// Package api serves the solver over HTTP.
//
// # Endpoints
//
//	POST /v1/solve    solve an instance
//	GET  /v1/healthz  liveness probe
//	GET  /metrics     Prometheus metrics, when a gatherer is configured
//
// A solve request is either a JSON document
//
//	{"instance": {"tiers": 3, "stacks": [[1, 3], [2], []]}, "time_limit_seconds": 10}
//
// where "instance" may also be a string holding the text format, or a
// text/plain body holding the text format alone. Optional fields are
// "time_limit_seconds" and "refresh".
//
// Responses are JSON. Failures carry an [ErrorResponse] whose code is the
// code of the underlying [errors.Error]; caller mistakes map to 400.
//
// [Server.Process] holds the request handling without net/http types, which
// lets other front ends such as a Lambda function URL reuse it.
package api
