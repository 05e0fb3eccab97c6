// Package awsfake provides recording fakes of the AWS clients for tests.
package awsfake

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDB records every call and answers from its canned fields.
type DynamoDB struct {
	Puts    []*dynamodb.PutItemInput
	Updates []*dynamodb.UpdateItemInput
	Deletes []*dynamodb.DeleteItemInput
	Gets    []*dynamodb.GetItemInput
	Queries []*dynamodb.QueryInput
	Batches []*dynamodb.BatchWriteItemInput

	Item        map[string]types.AttributeValue     // GetItem result
	QueryPages  [][]map[string]types.AttributeValue // Query results, one slice per page
	Unprocessed map[string][]types.WriteRequest
	Err         error // returned by every call
}

func (f *DynamoDB) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.Puts = append(f.Puts, in)
	return &dynamodb.PutItemOutput{}, f.Err
}

func (f *DynamoDB) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.Updates = append(f.Updates, in)
	return &dynamodb.UpdateItemOutput{}, f.Err
}

func (f *DynamoDB) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.Deletes = append(f.Deletes, in)
	return &dynamodb.DeleteItemOutput{}, f.Err
}

func (f *DynamoDB) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.Gets = append(f.Gets, in)
	return &dynamodb.GetItemOutput{Item: f.Item}, f.Err
}

func (f *DynamoDB) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.Queries = append(f.Queries, in)
	if f.Err != nil {
		return nil, f.Err
	}
	page := len(f.Queries) - 1
	if page >= len(f.QueryPages) {
		return &dynamodb.QueryOutput{}, nil
	}
	out := &dynamodb.QueryOutput{Items: f.QueryPages[page]}
	if page+1 < len(f.QueryPages) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{"page": &types.AttributeValueMemberN{Value: "1"}}
	}
	return out, nil
}

func (f *DynamoDB) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.Batches = append(f.Batches, in)
	return &dynamodb.BatchWriteItemOutput{UnprocessedItems: f.Unprocessed}, f.Err
}

// S returns the string value of a string attribute, or "".
func S(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

// N returns the text of a number attribute, or "".
func N(item map[string]types.AttributeValue, name string) string {
	if n, ok := item[name].(*types.AttributeValueMemberN); ok {
		return n.Value
	}
	return ""
}
