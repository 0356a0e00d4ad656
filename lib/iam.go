package lib

import (
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

const iamConditionSourceArn = "aws:SourceArn"

type IamPolicyDocument struct {
	Version   string              `json:",omitempty"`
	Id        string              `json:",omitempty"`
	Statement []IamStatementEntry `json:",omitempty"`
}

type IamStatementEntry struct {
	Sid       string
	Effect    string        `json:",omitempty"`
	Principal any           `json:",omitempty"`
	Action    any           `json:",omitempty"`
	Resource  any           `json:",omitempty"`
	Condition *IamCondition `json:",omitempty"`
}

// IamCondition holds the condition operators found on lambda resource
// policies. Keys under each operator are condition keys like aws:SourceArn.
type IamCondition struct {
	ArnLike      map[string]IamConditionValue `json:",omitempty"`
	ArnEquals    map[string]IamConditionValue `json:",omitempty"`
	StringEquals map[string]IamConditionValue `json:",omitempty"`
}

// IamConditionValue accepts either a single string or a list of strings.
type IamConditionValue []string

func (v *IamConditionValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = IamConditionValue{s}
		return nil
	}
	var xs []string
	if err := json.Unmarshal(data, &xs); err != nil {
		return err
	}
	*v = xs
	return nil
}

func (v IamConditionValue) MarshalJSON() ([]byte, error) {
	if len(v) == 1 {
		return json.Marshal(v[0])
	}
	return json.Marshal([]string(v))
}

func lookupCondition(m map[string]IamConditionValue, key string) []string {
	for k, v := range m {
		// condition keys are case insensitive
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

// SourceArns returns the aws:SourceArn values of the statement.
func (s *IamStatementEntry) SourceArns() []string {
	if s.Condition == nil {
		return nil
	}
	var arns []string
	arns = append(arns, lookupCondition(s.Condition.ArnLike, iamConditionSourceArn)...)
	arns = append(arns, lookupCondition(s.Condition.ArnEquals, iamConditionSourceArn)...)
	return arns
}

// EventsRuleName parses an events rule arn, either
// arn:aws:events:region:account:rule/name or .../rule/bus/name.
func EventsRuleName(ruleArn string) (string, bool) {
	a, err := arn.Parse(ruleArn)
	if err != nil || a.Service != "events" {
		return "", false
	}
	resource, ok := strings.CutPrefix(a.Resource, "rule/")
	if !ok || resource == "" {
		return "", false
	}
	return Last(strings.Split(resource, "/")), true
}

// RuleName is the events rule this statement grants invoke to, or "".
func (s *IamStatementEntry) RuleName() string {
	for _, sourceArn := range s.SourceArns() {
		name, ok := EventsRuleName(sourceArn)
		if ok {
			return name
		}
	}
	return ""
}

func IamParsePolicyDocument(policy string) (*IamPolicyDocument, error) {
	doc := &IamPolicyDocument{}
	err := json.Unmarshal([]byte(policy), doc)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return doc, nil
}

// FindRuleStatement returns the statement whose source arn names exactly this rule.
func (p *IamPolicyDocument) FindRuleStatement(ruleName string) (*IamStatementEntry, bool) {
	if ruleName == "" {
		return nil, false
	}
	for i := range p.Statement {
		if p.Statement[i].RuleName() == ruleName {
			return &p.Statement[i], true
		}
	}
	return nil, false
}
