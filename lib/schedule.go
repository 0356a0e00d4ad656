package lib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/aws/smithy-go"
)

// ScheduleGreet is the payload every created rule delivers to the greeting function.
const ScheduleGreet = "こんにちは！CloudWatch Event から Lambda Functionを起動しました。"

// rule names double as lambda statement ids, so they take the stricter of the two charsets
var scheduleRuleNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

type CreateEventRequest struct {
	RuleName       string `json:"ruleName"`
	TriggerHour    int    `json:"triggerHour"`
	TriggerMinutes int    `json:"triggerMinutes"`
}

type CreateRuleResult struct {
	RuleName string `json:"ruleName"`
}

// Scheduler creates and removes daily events rules that invoke the greeting
// function. It keeps no state; the rule name returned by CreateRule is the
// only handle needed by RemoveRule.
type Scheduler struct {
	env    *Env
	events EventsAPI
	lambda LambdaAPI
}

func NewScheduler(env *Env, events EventsAPI, lambda LambdaAPI) *Scheduler {
	return &Scheduler{
		env:    env,
		events: events,
		lambda: lambda,
	}
}

func (s *Scheduler) RuleName(name string) string {
	return s.env.Tag + "-" + name
}

func (s *Scheduler) validate(req CreateEventRequest) error {
	if req.TriggerHour < 0 || req.TriggerHour > 23 {
		return fmt.Errorf("triggerHour must be within 0-23, got: %d", req.TriggerHour)
	}
	if req.TriggerMinutes < 0 || req.TriggerMinutes > 59 {
		return fmt.Errorf("triggerMinutes must be within 0-59, got: %d", req.TriggerMinutes)
	}
	if req.RuleName == "" {
		return fmt.Errorf("ruleName is required")
	}
	ruleName := s.RuleName(req.RuleName)
	if !scheduleRuleNameRe.MatchString(ruleName) {
		return fmt.Errorf("rule name must match %s: %s", scheduleRuleNameRe, ruleName)
	}
	return nil
}

func (s *Scheduler) CreateRule(ctx context.Context, req CreateEventRequest) (*CreateRuleResult, error) {
	err := s.validate(req)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	ruleName := s.RuleName(req.RuleName)
	schedule := EventsScheduleExpression(req.TriggerHour, req.TriggerMinutes)

	out, err := s.events.PutRule(ctx, &eventbridge.PutRuleInput{
		Name:               aws.String(ruleName),
		State:              ebtypes.RuleStateEnabled,
		ScheduleExpression: aws.String(schedule),
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, fmt.Errorf("put rule %s: %w", ruleName, err)
	}
	ruleArn := aws.ToString(out.RuleArn)
	Logger.Println("put rule:", ruleName, schedule, ruleArn)

	input, err := json.Marshal(GreetingRequest{Greet: ScheduleGreet})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	targets, err := s.events.PutTargets(ctx, &eventbridge.PutTargetsInput{
		Rule: aws.String(ruleName),
		Targets: []ebtypes.Target{{
			Id:    aws.String(ruleName),
			Arn:   aws.String(s.env.GreetingLambdaArn),
			Input: aws.String(string(input)),
		}},
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, fmt.Errorf("put targets %s: %w", ruleName, err)
	}
	if targets.FailedEntryCount > 0 {
		entry := targets.FailedEntries[0]
		err := fmt.Errorf("put targets %s: %s %s", ruleName, aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
		Logger.Println("error:", err)
		return nil, err
	}
	Logger.Println("put target:", ruleName, s.env.GreetingLambdaArn)

	err = LambdaAddPermission(ctx, s.lambda, ruleName, s.env.GreetingLambdaArn, lambdaPrincipalEvents, ruleArn)
	if err != nil {
		return nil, fmt.Errorf("add permission %s: %w", ruleName, err)
	}
	Logger.Println("added lambda permission:", ruleName, ruleArn)

	return &CreateRuleResult{RuleName: ruleName}, nil
}

// RemoveRule deletes the permission, targets, then the rule. A missing
// permission is not an error and target removal failures are only logged,
// so a retried remove can still reach the rule deletion.
func (s *Scheduler) RemoveRule(ctx context.Context, res CreateRuleResult) error {
	ruleName := res.RuleName
	if ruleName == "" {
		err := fmt.Errorf("ruleName is required")
		Logger.Println("error:", err)
		return err
	}

	err := s.removePermission(ctx, ruleName)
	if err != nil {
		return err
	}

	out, err := s.events.RemoveTargets(ctx, &eventbridge.RemoveTargetsInput{
		Rule: aws.String(ruleName),
		Ids:  []string{ruleName},
	})
	switch {
	case err != nil:
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			Logger.Println("failed to delete targets:", ruleName, apiErr.ErrorCode(), apiErr.ErrorMessage())
		} else {
			Logger.Println("failed to delete targets:", ruleName, err)
		}
	case out.FailedEntryCount > 0:
		Logger.Println("failed to delete targets:", ruleName, out.FailedEntryCount)
	default:
		Logger.Println("deleted target:", ruleName)
	}

	_, err = s.events.DeleteRule(ctx, &eventbridge.DeleteRuleInput{
		Name:  aws.String(ruleName),
		Force: true,
	})
	if err != nil {
		Logger.Println("error:", err)
		return fmt.Errorf("delete rule %s: %w", ruleName, err)
	}
	Logger.Println("deleted rule:", ruleName)
	return nil
}

func (s *Scheduler) removePermission(ctx context.Context, ruleName string) error {
	policy, err := LambdaGetPolicy(ctx, s.lambda, s.env.GreetingLambdaArn)
	if err != nil {
		return fmt.Errorf("get policy %s: %w", s.env.GreetingLambdaArn, err)
	}
	if policy == nil {
		return nil
	}
	statement, ok := policy.FindRuleStatement(ruleName)
	if !ok {
		return nil
	}
	Logger.Println("policy found:", statement.Sid, statement.SourceArns())
	err = LambdaRemovePermission(ctx, s.lambda, s.env.GreetingLambdaArn, statement.Sid)
	if err != nil {
		return fmt.Errorf("remove permission %s: %w", statement.Sid, err)
	}
	return nil
}
