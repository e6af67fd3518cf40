package kv

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/aws"
)

// blobItem is the shape persisted in the DynamoDB table.
type blobItem struct {
	Key     string `dynamodbav:"key"` // PK
	Data    string `dynamodbav:"data"`
	Version int64  `dynamodbav:"version"`
}

// DynamoBackend stores each key as one item in a DynamoDB table.
type DynamoBackend struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewDynamoBackend creates a DynamoBackend bound to tableName.
func NewDynamoBackend(client aws.DynamoDBAPI, tableName string) *DynamoBackend {
	return &DynamoBackend{client: client, tableName: tableName}
}

func (d *DynamoBackend) Get(ctx context.Context, key string) (*Blob, error) {
	out, err := d.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &d.tableName,
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var it blobItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal blob item: %w", err)
	}
	return &Blob{Data: []byte(it.Data), Version: it.Version}, nil
}

// Put writes data with a single UpdateItem so the version bump and the
// optional condition are evaluated atomically by DynamoDB.
func (d *DynamoBackend) Put(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	input := &dyn.UpdateItemInput{
		TableName: &d.tableName,
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
		UpdateExpression: awsString("SET #d = :d, #v = if_not_exists(#v, :zero) + :one"),
		ExpressionAttributeNames: map[string]string{
			"#d": "data",
			"#v": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d":    &types.AttributeValueMemberS{Value: string(data)},
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":one":  &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	}
	switch {
	case expectedVersion == 0:
		input.ConditionExpression = awsString("attribute_not_exists(#k)")
		input.ExpressionAttributeNames["#k"] = "key"
	case expectedVersion > 0:
		input.ConditionExpression = awsString("#v = :expected")
		input.ExpressionAttributeValues[":expected"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)}
	}

	out, err := d.client.UpdateItem(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
			return 0, ErrVersionConflict
		}
		return 0, fmt.Errorf("update item: %w", err)
	}
	var updated struct {
		Version int64 `dynamodbav:"version"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return 0, fmt.Errorf("unmarshal updated version: %w", err)
	}
	return updated.Version, nil
}

func awsString(s string) *string { return &s }

func awsBool(b bool) *bool { return &b }
