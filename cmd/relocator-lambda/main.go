//go:build lambda

// Command relocator-lambda serves solve requests behind an AWS Lambda
// function URL. Build with:
//
//	GOOS=linux GOARCH=arm64 go build -tags lambda -o bootstrap ./cmd/relocator-lambda
package main

import (
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/relocator/pkg/api"
	"github.com/matzehuels/relocator/pkg/pipeline"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Formatter:       log.JSONFormatter,
	})

	maxLimit := api.DefaultMaxTimeLimit
	if v := os.Getenv("RELOCATOR_MAX_TIME_LIMIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			logger.Fatal("invalid RELOCATOR_MAX_TIME_LIMIT", "value", v, "error", err)
		}
		maxLimit = d
	}

	srv := api.New(api.Config{
		Runner:       pipeline.NewRunner(nil, nil, logger),
		Logger:       logger,
		MaxTimeLimit: maxLimit,
	})
	lambda.Start(srv.HandleFunctionURL)
}
