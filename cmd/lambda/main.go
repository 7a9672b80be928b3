package main

import (
	"context"
	"log"

	"coldoutreach/internal/app"
	"coldoutreach/internal/config"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	service := app.New(ctx, cfg, app.NewLogger(cfg.LogLevel))

	lambda.Start(httpadapter.New(service.Handler).ProxyWithContext)
}
