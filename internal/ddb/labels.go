package ddb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kylejryan/image-library/internal/config"
	"github.com/kylejryan/image-library/internal/models"
)

// ErrStale is returned when a newer classification is already stored for the image.
var ErrStale = errors.New("newer labels already stored")

// Fixed-width UTC layout so stored times compare correctly as strings.
const eventTimeLayout = "2006-01-02T15:04:05.000000000Z"

// batchLimit is the most requests DynamoDB accepts in one BatchWriteItem.
const batchLimit = 25

// LabelRepo stores detected labels. In item mode the table is keyed by
// (ImageId, Tag); in document mode by ImageId alone.
type LabelRepo struct {
	DB    API
	Table string
	Mode  string // config.LabelModeDocument or config.LabelModeItem
}

// Store records the labels detected for an image at the given event time and
// reports how many writes were issued.
func (r *LabelRepo) Store(ctx context.Context, imageID string, labels []models.Label, at time.Time) (int, error) {
	if r.Mode == config.LabelModeItem {
		return r.putEach(ctx, imageID, labels)
	}
	if err := r.replaceSet(ctx, imageID, labels, at); err != nil {
		return 0, err
	}
	return 1, nil
}

// putEach writes one item per label, overwriting any previous record for the same (image, tag).
func (r *LabelRepo) putEach(ctx context.Context, imageID string, labels []models.Label) (int, error) {
	for i, l := range labels {
		item, err := attributevalue.MarshalMap(models.LabelRecord{ImageID: imageID, Tag: l.Name, Conf: l.Confidence})
		if err != nil {
			return i, err
		}
		if _, err := r.DB.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.Table, Item: item}); err != nil {
			return i, fmt.Errorf("put label %q: %w", l.Name, err)
		}
	}
	return len(labels), nil
}

// replaceSet swaps the whole label list in one conditional update. The
// condition rejects the write when a later event already classified the image.
func (r *LabelRepo) replaceSet(ctx context.Context, imageID string, labels []models.Label, at time.Time) error {
	if labels == nil {
		labels = []models.Label{}
	}
	stamp := at.UTC().Format(eventTimeLayout)

	update := expression.Set(expression.Name("Labels"), expression.Value(labels)).
		Set(expression.Name("LabelCount"), expression.Value(len(labels))).
		Set(expression.Name("ClassifiedAt"), expression.Value(stamp))
	cond := expression.AttributeNotExists(expression.Name("ClassifiedAt")).
		Or(expression.Name("ClassifiedAt").LessThanEqual(expression.Value(stamp)))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	_, err = r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.Table,
		Key:                       key(imageID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrStale
	}
	return err
}

// List returns the labels stored for an image; an unknown image yields none.
func (r *LabelRepo) List(ctx context.Context, imageID string) ([]models.Label, error) {
	if r.Mode == config.LabelModeItem {
		recs, err := r.records(ctx, imageID)
		if err != nil {
			return nil, err
		}
		labels := make([]models.Label, 0, len(recs))
		for _, rec := range recs {
			labels = append(labels, models.Label{Name: rec.Tag, Confidence: rec.Conf})
		}
		return labels, nil
	}

	out, err := r.DB.GetItem(ctx, &dynamodb.GetItemInput{TableName: &r.Table, Key: key(imageID)})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return []models.Label{}, nil
	}
	var set models.LabelSet
	if err := attributevalue.UnmarshalMap(out.Item, &set); err != nil {
		return nil, err
	}
	return set.Labels, nil
}

// Delete removes every label stored for an image.
func (r *LabelRepo) Delete(ctx context.Context, imageID string) error {
	if r.Mode != config.LabelModeItem {
		_, err := r.DB.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &r.Table, Key: key(imageID)})
		return err
	}

	recs, err := r.records(ctx, imageID)
	if err != nil {
		return err
	}
	for start := 0; start < len(recs); start += batchLimit {
		end := min(start+batchLimit, len(recs))
		reqs := make([]types.WriteRequest, 0, end-start)
		for _, rec := range recs[start:end] {
			reqs = append(reqs, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: map[string]types.AttributeValue{
				models.KeyAttr: &types.AttributeValueMemberS{Value: imageID},
				"Tag":          &types.AttributeValueMemberS{Value: rec.Tag},
			}}})
		}
		out, err := r.DB.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.Table: reqs},
		})
		if err != nil {
			return fmt.Errorf("delete labels: %w", err)
		}
		if n := len(out.UnprocessedItems[r.Table]); n > 0 {
			return fmt.Errorf("delete labels: %d unprocessed", n)
		}
	}
	return nil
}

// records reads every per-label item for an image.
func (r *LabelRepo) records(ctx context.Context, imageID string) ([]models.LabelRecord, error) {
	keyCond := expression.Key(models.KeyAttr).Equal(expression.Value(imageID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var recs []models.LabelRecord
	p := dynamodb.NewQueryPaginator(r.DB, &dynamodb.QueryInput{
		TableName:                 &r.Table,
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query labels: %w", err)
		}
		var batch []models.LabelRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		recs = append(recs, batch...)
	}
	return recs, nil
}
