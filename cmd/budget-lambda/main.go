package main

import (
	"context"
	"os"

	"budget-app-go/internal/app"
	"budget-app-go/pkg/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

var adapter *httpadapter.HandlerAdapter

// init runs once per container; the database pool lives as long as the
// container does. Containers run side by side, so states are not cached.
func init() {
	log := logger.NewFromEnv("budget-lambda")

	application, err := app.New(log, app.WithoutStateCache())
	if err != nil {
		log.Critical("lambda: init failed", "err", err)
		os.Exit(1)
	}
	adapter = httpadapter.New(application.Handler())
}

// Handler is the entrypoint for API Gateway proxy integrations.
func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
