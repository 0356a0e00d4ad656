package clicwevent

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/nathants/cwevent/lib"
)

func init() {
	lib.Commands["lambda-permissions"] = lambdaPermissions
	lib.Args["lambda-permissions"] = lambdaPermissionsArgs{}
}

type lambdaPermissionsArgs struct {
	lib.Env
}

func (lambdaPermissionsArgs) Description() string {
	return "\nget the greeting function's resource policy, with the rule each statement belongs to\n"
}

type lambdaPermission struct {
	Sid        string
	Rule       string `json:",omitempty"`
	SourceArns []string
}

func lambdaPermissions() {
	var args lambdaPermissionsArgs
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
	policy, err := lib.LambdaGetPolicy(ctx, clients.Lambda, args.GreetingLambdaArn)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if policy == nil {
		return
	}
	for _, statement := range policy.Statement {
		fmt.Println(lib.Pformat(lambdaPermission{
			Sid:        statement.Sid,
			Rule:       statement.RuleName(),
			SourceArns: statement.SourceArns(),
		}))
	}
}
