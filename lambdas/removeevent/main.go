package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nathants/cwevent/lib"
)

func main() {
	ctx := context.Background()
	env, err := lib.EnvFromOS(lib.EnvVarEnv, lib.EnvVarRegion, lib.EnvVarGreetingLambdaArn)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	clients, err := lib.NewClients(ctx, env.Region)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	scheduler := lib.NewScheduler(env, clients.Events, clients.Lambda)
	lambda.Start(func(ctx context.Context, event lib.CreateRuleResult) error {
		lib.LogInvocation(ctx, event)
		return scheduler.RemoveRule(ctx, event)
	})
}
