package clicwevent

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/nathants/cwevent/lib"
	"gopkg.in/yaml.v3"
)

func init() {
	lib.Commands["events-ls-rules"] = eventsLsRules
	lib.Args["events-ls-rules"] = eventsLsRulesArgs{}
}

type eventsLsRulesArgs struct {
	lib.Env
	All         bool `arg:"-a,--all" help:"list every rule, not only those prefixed with the environment"`
	Concurrency int  `arg:"-c,--concurrency" default:"8" help:"max concurrent target lookups"`
}

func (eventsLsRulesArgs) Description() string {
	return "\nlist rules and their targets as yaml\n"
}

func eventsLsRules() {
	var args eventsLsRulesArgs
	arg.MustParse(&args)
	err := args.Env.Validate(lib.EnvVarRegion)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	prefix := ""
	if !args.All {
		err := args.Env.Validate(lib.EnvVarEnv)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		prefix = args.Tag + "-"
	}
	ctx := context.Background()
	clients, err := lib.NewClients(ctx, args.Region)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	rules, err := lib.EventsDescribeRules(ctx, clients.Events, prefix, args.Concurrency)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	for _, rule := range rules {
		data, err := yaml.Marshal(rule)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		fmt.Print("---\n" + string(data))
	}
}
