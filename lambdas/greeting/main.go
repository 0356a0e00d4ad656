package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nathants/cwevent/lib"
)

func main() {
	ctx := context.Background()
	env, err := lib.EnvFromOS(lib.EnvVarRegion, lib.EnvVarGreetingTableName)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	clients, err := lib.NewClients(ctx, env.Region)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	greeter := lib.NewGreeter(lib.NewGreetingTable(clients.DynamoDB, env.GreetingTableName))
	lambda.Start(func(ctx context.Context, event lib.GreetingRequest) error {
		lib.LogInvocation(ctx, event)
		_, err := greeter.Hello(ctx, event)
		return err
	})
}
