package clicwevent

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/nathants/cwevent/lib"
)

func init() {
	lib.Commands["greeting-put"] = greetingPut
	lib.Args["greeting-put"] = greetingPutArgs{}
}

type greetingPutArgs struct {
	lib.Env
	Greet string `arg:"positional,required"`
}

func (greetingPutArgs) Description() string {
	return `

store a greeting and print its generated id

>> cwevent greeting-put --greeting-table-name greetings "good morning"

`
}

func greetingPut() {
	var args greetingPutArgs
	arg.MustParse(&args)
	err := args.Env.Validate(lib.EnvVarRegion, lib.EnvVarGreetingTableName)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	ctx := context.Background()
	clients, err := lib.NewClients(ctx, args.Region)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	greeter := lib.NewGreeter(lib.NewGreetingTable(clients.DynamoDB, args.GreetingTableName))
	id, err := greeter.Hello(ctx, lib.GreetingRequest{Greet: args.Greet})
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(id)
}
