package kv

import (
	"context"
	"errors"
	"strconv"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo understands only the two condition expressions and the single
// update expression DynamoBackend issues.
type mockDynamo struct {
	mu          sync.Mutex
	items       map[string]map[string]types.AttributeValue
	getCalls    int
	updateCalls int
	failWith    error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	k, ok := params.Key["key"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing key")
	}
	item, ok := m.items[k.Value]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	k := params.Key["key"].(*types.AttributeValueMemberS).Value
	item, exists := m.items[k]

	var cur int64
	if exists {
		cur, _ = strconv.ParseInt(item["version"].(*types.AttributeValueMemberN).Value, 10, 64)
	}
	if params.ConditionExpression != nil {
		switch *params.ConditionExpression {
		case "attribute_not_exists(#k)":
			if exists {
				return nil, &types.ConditionalCheckFailedException{}
			}
		case "#v = :expected":
			expected, _ := strconv.ParseInt(params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value, 10, 64)
			if !exists || cur != expected {
				return nil, &types.ConditionalCheckFailedException{}
			}
		default:
			return nil, errors.New("unsupported condition: " + *params.ConditionExpression)
		}
	}

	next := &types.AttributeValueMemberN{Value: strconv.FormatInt(cur+1, 10)}
	m.items[k] = map[string]types.AttributeValue{
		"key":     &types.AttributeValueMemberS{Value: k},
		"data":    params.ExpressionAttributeValues[":d"],
		"version": next,
	}
	return &dyn.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
		"data":    params.ExpressionAttributeValues[":d"],
		"version": next,
	}}, nil
}
