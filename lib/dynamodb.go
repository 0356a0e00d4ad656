package lib

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gofrs/uuid"
)

const greetingKey = "greetingId"

// DynamoDBAPI is the subset of *dynamodb.Client used here.
type DynamoDBAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// GreetingTable writes greetings keyed by greetingId. There is no read path.
type GreetingTable struct {
	api   DynamoDBAPI
	name  string
	newID func() (uuid.UUID, error)
}

func NewGreetingTable(api DynamoDBAPI, tableName string) *GreetingTable {
	return &GreetingTable{
		api:   api,
		name:  tableName,
		newID: uuid.NewV4,
	}
}

// Put upserts the greeting under a fresh uuid and returns that id.
func (t *GreetingTable) Put(ctx context.Context, greeting Greeting) (string, error) {
	id, err := t.newID()
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	key, err := attributevalue.MarshalMap(map[string]string{
		greetingKey: id.String(),
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	values, err := attributevalue.MarshalMap(map[string]string{
		":title":       greeting.Title,
		":description": greeting.Description,
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	_, err = t.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.name),
		Key:                       key,
		UpdateExpression:          aws.String("set title = :title, description = :description"),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	return id.String(), nil
}
