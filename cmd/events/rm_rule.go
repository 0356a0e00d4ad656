package clicwevent

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/nathants/cwevent/lib"
)

func init() {
	lib.Commands["events-rm-rule"] = eventsRmRule
	lib.Args["events-rm-rule"] = eventsRmRuleArgs{}
}

type eventsRmRuleArgs struct {
	lib.Env
	RuleName string `arg:"positional,required" help:"full rule name as returned by events-create-rule"`
	Preview  bool   `arg:"-p,--preview"`
}

func (eventsRmRuleArgs) Description() string {
	return "\ndelete a rule, its targets, and its lambda permission\n"
}

func eventsRmRule() {
	var args eventsRmRuleArgs
	arg.MustParse(&args)
	err := args.Env.Validate(lib.EnvVarRegion, lib.EnvVarGreetingLambdaArn)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	ctx := context.Background()
	clients, err := lib.NewClients(ctx, args.Region)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if !args.Preview {
		scheduler := lib.NewScheduler(&args.Env, clients.Events, clients.Lambda)
		err := scheduler.RemoveRule(ctx, lib.CreateRuleResult{RuleName: args.RuleName})
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		return
	}
	policy, err := lib.LambdaGetPolicy(ctx, clients.Lambda, args.GreetingLambdaArn)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if policy != nil {
		statement, ok := policy.FindRuleStatement(args.RuleName)
		if ok {
			fmt.Println(lib.PreviewString(args.Preview)+"delete permission:", lib.Pformat(statement))
		}
	}
	targets, err := lib.EventsListRuleTargets(ctx, clients.Events, args.RuleName)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	for _, target := range targets {
		fmt.Println(lib.PreviewString(args.Preview)+"delete target:", lib.Pformat(target))
	}
	fmt.Println(lib.PreviewString(args.Preview)+"delete rule:", args.RuleName)
}
