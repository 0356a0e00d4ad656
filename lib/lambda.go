package lib

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

const (
	lambdaActionInvoke    = "lambda:InvokeFunction"
	lambdaPrincipalEvents = "events.amazonaws.com"
)

// LambdaAPI is the subset of *lambda.Client used here.
type LambdaAPI interface {
	AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error)
	GetPolicy(ctx context.Context, params *lambda.GetPolicyInput, optFns ...func(*lambda.Options)) (*lambda.GetPolicyOutput, error)
	RemovePermission(ctx context.Context, params *lambda.RemovePermissionInput, optFns ...func(*lambda.Options)) (*lambda.RemovePermissionOutput, error)
}

func LambdaAddPermission(ctx context.Context, api LambdaAPI, sid, functionName, callerPrincipal, callerArn string) error {
	_, err := api.AddPermission(ctx, &lambda.AddPermissionInput{
		FunctionName: aws.String(functionName),
		StatementId:  aws.String(sid),
		Action:       aws.String(lambdaActionInvoke),
		Principal:    aws.String(callerPrincipal),
		SourceArn:    aws.String(callerArn),
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	return nil
}

// LambdaGetPolicy returns the parsed resource policy of a function, or nil
// when the function has no policy.
func LambdaGetPolicy(ctx context.Context, api LambdaAPI, functionName string) (*IamPolicyDocument, error) {
	out, err := api.GetPolicy(ctx, &lambda.GetPolicyInput{
		FunctionName: aws.String(functionName),
	})
	if err != nil {
		var rnf *lambdatypes.ResourceNotFoundException
		if errors.As(err, &rnf) {
			return nil, nil
		}
		Logger.Println("error:", err)
		return nil, err
	}
	if out.Policy == nil || *out.Policy == "" {
		return nil, nil
	}
	return IamParsePolicyDocument(*out.Policy)
}

// LambdaRemovePermission deletes a statement by sid. A statement that is
// already gone is not an error.
func LambdaRemovePermission(ctx context.Context, api LambdaAPI, functionName, sid string) error {
	_, err := api.RemovePermission(ctx, &lambda.RemovePermissionInput{
		FunctionName: aws.String(functionName),
		StatementId:  aws.String(sid),
	})
	if err != nil {
		var rnf *lambdatypes.ResourceNotFoundException
		if errors.As(err, &rnf) {
			return nil
		}
		Logger.Println("error:", err)
		return err
	}
	return nil
}
