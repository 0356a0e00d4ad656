package lib

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LogInvocation logs the function name and request id of a lambda
// invocation along with its event. Outside of lambda only the event is logged.
func LogInvocation(ctx context.Context, event interface{}) {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok {
		Logger.Println("event:", Pformat(event))
		return
	}
	Logger.Println("invoke:", lambdacontext.FunctionName, lc.AwsRequestID, Pformat(event))
}
