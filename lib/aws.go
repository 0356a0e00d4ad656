package lib

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// Clients holds the service clients for one process. Build it once in main
// and hand the fields to the components that need them.
type Clients struct {
	Events   *eventbridge.Client
	Lambda   *lambda.Client
	DynamoDB *dynamodb.Client
}

func Session(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

func NewClients(ctx context.Context, region string) (*Clients, error) {
	cfg, err := Session(ctx, region)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return &Clients{
		Events:   eventbridge.NewFromConfig(cfg),
		Lambda:   lambda.NewFromConfig(cfg),
		DynamoDB: dynamodb.NewFromConfig(cfg),
	}, nil
}
