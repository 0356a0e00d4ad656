package lib

import (
	"fmt"
	"os"
	"strings"
)

const (
	EnvVarEnv               = "ENV"
	EnvVarRegion            = "REGION"
	EnvVarGreetingLambdaArn = "GREETING_LAMBDA_ARN"
	EnvVarGreetingTableName = "GREETING_TABLE_NAME"
)

// Env is the process configuration, read once at cold start and passed to
// every component that needs it. The arg tags let cli commands embed it and
// accept either flags or the same environment variables the lambdas use.
type Env struct {
	Tag               string `arg:"--env,env:ENV" help:"deployment environment, prefixed to rule names"`
	Region            string `arg:"--region,env:REGION"`
	GreetingLambdaArn string `arg:"--greeting-lambda-arn,env:GREETING_LAMBDA_ARN" help:"function invoked by created rules"`
	GreetingTableName string `arg:"--greeting-table-name,env:GREETING_TABLE_NAME"`
}

func (e *Env) value(name string) (string, error) {
	switch name {
	case EnvVarEnv:
		return e.Tag, nil
	case EnvVarRegion:
		return e.Region, nil
	case EnvVarGreetingLambdaArn:
		return e.GreetingLambdaArn, nil
	case EnvVarGreetingTableName:
		return e.GreetingTableName, nil
	default:
		return "", fmt.Errorf("unknown environment variable: %s", name)
	}
}

// Validate reports every required variable that is empty in a single error.
func (e *Env) Validate(required ...string) error {
	var missing []string
	for _, name := range required {
		val, err := e.value(name)
		if err != nil {
			return err
		}
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func envFromLookup(lookup func(string) string, required ...string) (*Env, error) {
	env := &Env{
		Tag:               lookup(EnvVarEnv),
		Region:            lookup(EnvVarRegion),
		GreetingLambdaArn: lookup(EnvVarGreetingLambdaArn),
		GreetingTableName: lookup(EnvVarGreetingTableName),
	}
	err := env.Validate(required...)
	if err != nil {
		return nil, err
	}
	return env, nil
}

func EnvFromOS(required ...string) (*Env, error) {
	return envFromLookup(os.Getenv, required...)
}
