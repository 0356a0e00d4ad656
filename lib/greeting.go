package lib

import (
	"context"
)

const GreetingTitle = "hello, lambda!"

type GreetingRequest struct {
	Greet string `json:"greet"`
}

type Greeting struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func NewGreeting(req GreetingRequest) Greeting {
	return Greeting{
		Title:       GreetingTitle,
		Description: req.Greet,
	}
}

type Greeter struct {
	table *GreetingTable
}

func NewGreeter(table *GreetingTable) *Greeter {
	return &Greeter{table: table}
}

// Hello stores the greeting and returns the generated greetingId.
func (g *Greeter) Hello(ctx context.Context, req GreetingRequest) (string, error) {
	id, err := g.table.Put(ctx, NewGreeting(req))
	if err != nil {
		return "", err
	}
	Logger.Println("stored greeting:", id)
	return id, nil
}
