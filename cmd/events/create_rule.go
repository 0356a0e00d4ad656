package clicwevent

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/nathants/cwevent/lib"
)

func init() {
	lib.Commands["events-create-rule"] = eventsCreateRule
	lib.Args["events-create-rule"] = eventsCreateRuleArgs{}
}

type eventsCreateRuleArgs struct {
	lib.Env
	Name   string `arg:"positional,required" help:"rule name, prefixed with the environment"`
	Hour   int    `arg:"positional,required" help:"utc hour, 0-23"`
	Minute int    `arg:"positional,required" help:"minute, 0-59"`
}

func (eventsCreateRuleArgs) Description() string {
	return `

create a daily cron rule that invokes the greeting function

>> cwevent events-create-rule --env dev morning 8 30
dev-morning

`
}

func eventsCreateRule() {
	var args eventsCreateRuleArgs
	arg.MustParse(&args)
	err := args.Env.Validate(lib.EnvVarEnv, lib.EnvVarRegion, lib.EnvVarGreetingLambdaArn)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	ctx := context.Background()
	clients, err := lib.NewClients(ctx, args.Region)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	scheduler := lib.NewScheduler(&args.Env, clients.Events, clients.Lambda)
	res, err := scheduler.CreateRule(ctx, lib.CreateEventRequest{
		RuleName:       args.Name,
		TriggerHour:    args.Hour,
		TriggerMinutes: args.Minute,
	})
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(res.RuleName)
}
