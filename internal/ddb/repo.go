// Package ddb provides repositories over the DynamoDB tables holding image metadata and labels.
package ddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kylejryan/image-library/internal/models"
)

// API is the subset of the DynamoDB client the repositories use.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Repo wraps a DynamoDB client and the metadata table name.
type Repo struct {
	DB    API
	Table string
}

// PutMetadata replaces the whole metadata document for an image. No merge with a previous version.
func (r *Repo) PutMetadata(ctx context.Context, m models.ImageMetadata) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return err
	}
	_, err = r.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.Table,
		Item:      item,
	})
	return err
}

// DeleteMetadata removes the metadata document for an image. Deleting an absent key succeeds.
func (r *Repo) DeleteMetadata(ctx context.Context, imageID string) error {
	_, err := r.DB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.Table,
		Key:       key(imageID),
	})
	return err
}

// key builds the primary key for a single-key table.
func key(imageID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		models.KeyAttr: &types.AttributeValueMemberS{Value: imageID},
	}
}
