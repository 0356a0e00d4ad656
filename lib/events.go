package lib

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"golang.org/x/sync/errgroup"
)

// EventsAPI is the subset of *eventbridge.Client used here.
type EventsAPI interface {
	PutRule(ctx context.Context, params *eventbridge.PutRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutRuleOutput, error)
	PutTargets(ctx context.Context, params *eventbridge.PutTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutTargetsOutput, error)
	RemoveTargets(ctx context.Context, params *eventbridge.RemoveTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.RemoveTargetsOutput, error)
	DeleteRule(ctx context.Context, params *eventbridge.DeleteRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.DeleteRuleOutput, error)
	ListRules(ctx context.Context, params *eventbridge.ListRulesInput, optFns ...func(*eventbridge.Options)) (*eventbridge.ListRulesOutput, error)
	ListTargetsByRule(ctx context.Context, params *eventbridge.ListTargetsByRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.ListTargetsByRuleOutput, error)
}

// EventsCron returns the six field cron for a daily trigger at hour:minute utc.
func EventsCron(hour, minute int) string {
	return fmt.Sprintf("%d %d * * ? *", minute, hour)
}

func EventsScheduleExpression(hour, minute int) string {
	return "cron(" + EventsCron(hour, minute) + ")"
}

func EventsListRules(ctx context.Context, api EventsAPI, namePrefix string) ([]ebtypes.Rule, error) {
	var token *string
	var rules []ebtypes.Rule
	input := &eventbridge.ListRulesInput{}
	if namePrefix != "" {
		input.NamePrefix = aws.String(namePrefix)
	}
	for {
		input.NextToken = token
		out, err := api.ListRules(ctx, input)
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		rules = append(rules, out.Rules...)
		if out.NextToken == nil {
			break
		}
		token = out.NextToken
	}
	return rules, nil
}

func EventsListRuleTargets(ctx context.Context, api EventsAPI, ruleName string) ([]ebtypes.Target, error) {
	var token *string
	var targets []ebtypes.Target
	for {
		out, err := api.ListTargetsByRule(ctx, &eventbridge.ListTargetsByRuleInput{
			Rule:      aws.String(ruleName),
			NextToken: token,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		targets = append(targets, out.Targets...)
		if out.NextToken == nil {
			break
		}
		token = out.NextToken
	}
	return targets, nil
}

type EventsRuleTarget struct {
	Id    string `yaml:"id"`
	Arn   string `yaml:"arn"`
	Input string `yaml:"input,omitempty"`
}

type EventsRule struct {
	Name               string             `yaml:"name"`
	Arn                string             `yaml:"arn"`
	ScheduleExpression string             `yaml:"schedule,omitempty"`
	State              string             `yaml:"state"`
	Targets            []EventsRuleTarget `yaml:"targets"`
}

// EventsDescribeRules lists rules with their targets, looking up at most
// concurrency rules' targets at once. Results keep ListRules order.
func EventsDescribeRules(ctx context.Context, api EventsAPI, namePrefix string, concurrency int) ([]EventsRule, error) {
	rules, err := EventsListRules(ctx, api, namePrefix)
	if err != nil {
		return nil, err
	}
	result := make([]EventsRule, len(rules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, concurrency))
	for i, rule := range rules {
		result[i] = EventsRule{
			Name:               aws.ToString(rule.Name),
			Arn:                aws.ToString(rule.Arn),
			ScheduleExpression: aws.ToString(rule.ScheduleExpression),
			State:              string(rule.State),
		}
		g.Go(func() error {
			targets, err := EventsListRuleTargets(gctx, api, aws.ToString(rule.Name))
			if err != nil {
				return err
			}
			for _, target := range targets {
				result[i].Targets = append(result[i].Targets, EventsRuleTarget{
					Id:    aws.ToString(target.Id),
					Arn:   aws.ToString(target.Arn),
					Input: aws.ToString(target.Input),
				})
			}
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return result, nil
}
