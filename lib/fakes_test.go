package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

const (
	fakeRegion     = "us-east-1"
	fakeAccount    = "123456789012"
	fakeLambdaArn  = "arn:aws:lambda:us-east-1:123456789012:function:greeting"
	fakeTableName  = "greetings"
	fakeEnvTag     = "dev"
	fakePageLimit  = 2
	fakeRuleArnFmt = "arn:aws:events:%s:%s:rule/%s"
)

type fakeRule struct {
	arn      string
	schedule string
	state    ebtypes.RuleState
}

type fakeEvents struct {
	mu                  sync.Mutex
	rules               map[string]*fakeRule
	targets             map[string][]ebtypes.Target
	removeTargetsErr    error
	deleteRuleErr       error
	putTargetsErr       error
	listTargetsErr      error
	putTargetsFailed    []ebtypes.PutTargetsResultEntry
	removeTargetsFailed []ebtypes.RemoveTargetsResultEntry
	deleteRuleForce     []bool
	calls               []string
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{
		rules:   make(map[string]*fakeRule),
		targets: make(map[string][]ebtypes.Target),
	}
}

func (f *fakeEvents) PutRule(_ context.Context, input *eventbridge.PutRuleInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutRuleOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "PutRule")
	name := aws.ToString(input.Name)
	rule := &fakeRule{
		arn:      fmt.Sprintf(fakeRuleArnFmt, fakeRegion, fakeAccount, name),
		schedule: aws.ToString(input.ScheduleExpression),
		state:    input.State,
	}
	f.rules[name] = rule
	return &eventbridge.PutRuleOutput{RuleArn: aws.String(rule.arn)}, nil
}

func (f *fakeEvents) PutTargets(_ context.Context, input *eventbridge.PutTargetsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutTargetsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "PutTargets")
	if f.putTargetsErr != nil {
		return nil, f.putTargetsErr
	}
	if len(f.putTargetsFailed) > 0 {
		return &eventbridge.PutTargetsOutput{
			FailedEntryCount: int32(len(f.putTargetsFailed)),
			FailedEntries:    f.putTargetsFailed,
		}, nil
	}
	name := aws.ToString(input.Rule)
	if _, ok := f.rules[name]; !ok {
		return nil, &ebtypes.ResourceNotFoundException{Message: aws.String("rule not found: " + name)}
	}
	f.targets[name] = append(f.targets[name], input.Targets...)
	return &eventbridge.PutTargetsOutput{}, nil
}

func (f *fakeEvents) RemoveTargets(_ context.Context, input *eventbridge.RemoveTargetsInput, _ ...func(*eventbridge.Options)) (*eventbridge.RemoveTargetsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "RemoveTargets")
	if f.removeTargetsErr != nil {
		return nil, f.removeTargetsErr
	}
	if len(f.removeTargetsFailed) > 0 {
		return &eventbridge.RemoveTargetsOutput{
			FailedEntryCount: int32(len(f.removeTargetsFailed)),
			FailedEntries:    f.removeTargetsFailed,
		}, nil
	}
	name := aws.ToString(input.Rule)
	if _, ok := f.rules[name]; !ok {
		return nil, &ebtypes.ResourceNotFoundException{Message: aws.String("rule not found: " + name)}
	}
	var keep []ebtypes.Target
	for _, target := range f.targets[name] {
		if !Contains(input.Ids, aws.ToString(target.Id)) {
			keep = append(keep, target)
		}
	}
	if len(keep) == 0 {
		delete(f.targets, name)
	} else {
		f.targets[name] = keep
	}
	return &eventbridge.RemoveTargetsOutput{}, nil
}

func (f *fakeEvents) DeleteRule(_ context.Context, input *eventbridge.DeleteRuleInput, _ ...func(*eventbridge.Options)) (*eventbridge.DeleteRuleOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "DeleteRule")
	f.deleteRuleForce = append(f.deleteRuleForce, input.Force)
	if f.deleteRuleErr != nil {
		return nil, f.deleteRuleErr
	}
	name := aws.ToString(input.Name)
	if len(f.targets[name]) > 0 {
		return nil, fmt.Errorf("ValidationException: rule can't be deleted since it has targets: %s", name)
	}
	delete(f.rules, name)
	return &eventbridge.DeleteRuleOutput{}, nil
}

func (f *fakeEvents) ruleNames(prefix string) []string {
	var names []string
	for name := range f.rules {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (f *fakeEvents) ListRules(_ context.Context, input *eventbridge.ListRulesInput, _ ...func(*eventbridge.Options)) (*eventbridge.ListRulesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := f.ruleNames(aws.ToString(input.NamePrefix))
	start := fakeTokenStart(input.NextToken)
	end := min(start+fakePageLimit, len(names))
	out := &eventbridge.ListRulesOutput{}
	for _, name := range names[start:end] {
		rule := f.rules[name]
		out.Rules = append(out.Rules, ebtypes.Rule{
			Name:               aws.String(name),
			Arn:                aws.String(rule.arn),
			ScheduleExpression: aws.String(rule.schedule),
			State:              rule.state,
		})
	}
	if end < len(names) {
		out.NextToken = aws.String(fmt.Sprint(end))
	}
	return out, nil
}

func (f *fakeEvents) ListTargetsByRule(_ context.Context, input *eventbridge.ListTargetsByRuleInput, _ ...func(*eventbridge.Options)) (*eventbridge.ListTargetsByRuleOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listTargetsErr != nil {
		return nil, f.listTargetsErr
	}
	name := aws.ToString(input.Rule)
	if _, ok := f.rules[name]; !ok {
		return nil, &ebtypes.ResourceNotFoundException{Message: aws.String("rule not found: " + name)}
	}
	targets := f.targets[name]
	start := fakeTokenStart(input.NextToken)
	end := min(start+fakePageLimit, len(targets))
	out := &eventbridge.ListTargetsByRuleOutput{Targets: targets[start:end]}
	if end < len(targets) {
		out.NextToken = aws.String(fmt.Sprint(end))
	}
	return out, nil
}

func fakeTokenStart(token *string) int {
	var start int
	if token != nil {
		_, _ = fmt.Sscan(*token, &start)
	}
	return start
}

// fakeLambda keeps a real json resource policy per function so that
// GetPolicy output goes through the same parsing as in production.
type fakeLambda struct {
	mu           sync.Mutex
	statements   map[string][]IamStatementEntry
	getPolicyErr error
	calls        []string
}

func newFakeLambda() *fakeLambda {
	return &fakeLambda{statements: make(map[string][]IamStatementEntry)}
}

func (f *fakeLambda) AddPermission(_ context.Context, input *lambda.AddPermissionInput, _ ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "AddPermission")
	fn := aws.ToString(input.FunctionName)
	sid := aws.ToString(input.StatementId)
	for _, statement := range f.statements[fn] {
		if statement.Sid == sid {
			return nil, &lambdatypes.ResourceConflictException{Message: aws.String("statement id already exists: " + sid)}
		}
	}
	statement := IamStatementEntry{
		Sid:       sid,
		Effect:    "Allow",
		Principal: map[string]string{"Service": aws.ToString(input.Principal)},
		Action:    aws.ToString(input.Action),
		Resource:  fn,
	}
	if input.SourceArn != nil {
		statement.Condition = &IamCondition{
			ArnLike: map[string]IamConditionValue{"AWS:SourceArn": {aws.ToString(input.SourceArn)}},
		}
	}
	f.statements[fn] = append(f.statements[fn], statement)
	return &lambda.AddPermissionOutput{}, nil
}

func (f *fakeLambda) GetPolicy(_ context.Context, input *lambda.GetPolicyInput, _ ...func(*lambda.Options)) (*lambda.GetPolicyOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "GetPolicy")
	if f.getPolicyErr != nil {
		return nil, f.getPolicyErr
	}
	statements := f.statements[aws.ToString(input.FunctionName)]
	if len(statements) == 0 {
		return nil, &lambdatypes.ResourceNotFoundException{Message: aws.String("The resource you requested does not exist.")}
	}
	data, err := json.Marshal(IamPolicyDocument{
		Version:   "2012-10-17",
		Id:        "default",
		Statement: statements,
	})
	if err != nil {
		return nil, err
	}
	return &lambda.GetPolicyOutput{Policy: aws.String(string(data))}, nil
}

func (f *fakeLambda) RemovePermission(_ context.Context, input *lambda.RemovePermissionInput, _ ...func(*lambda.Options)) (*lambda.RemovePermissionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "RemovePermission")
	fn := aws.ToString(input.FunctionName)
	sid := aws.ToString(input.StatementId)
	var keep []IamStatementEntry
	for _, statement := range f.statements[fn] {
		if statement.Sid != sid {
			keep = append(keep, statement)
		}
	}
	if len(keep) == len(f.statements[fn]) {
		return nil, &lambdatypes.ResourceNotFoundException{Message: aws.String("statement not found: " + sid)}
	}
	f.statements[fn] = keep
	return &lambda.RemovePermissionOutput{}, nil
}

func (f *fakeLambda) sids(fn string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sids []string
	for _, statement := range f.statements[fn] {
		sids = append(sids, statement.Sid)
	}
	return sids
}

type fakeDynamoDB struct {
	mu     sync.Mutex
	inputs []*dynamodb.UpdateItemInput
	err    error
}

func (f *fakeDynamoDB) UpdateItem(_ context.Context, input *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, input)
	return &dynamodb.UpdateItemOutput{}, nil
}

func newTestEnv() *Env {
	return &Env{
		Tag:               fakeEnvTag,
		Region:            fakeRegion,
		GreetingLambdaArn: fakeLambdaArn,
		GreetingTableName: fakeTableName,
	}
}
