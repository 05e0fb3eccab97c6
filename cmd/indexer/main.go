// Package main keeps the search index in step with the metadata table by
// replaying its DynamoDB stream.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kylejryan/image-library/internal/awsutil"
	"github.com/kylejryan/image-library/internal/config"
	"github.com/kylejryan/image-library/internal/logging"
	"github.com/kylejryan/image-library/internal/models"
	"github.com/kylejryan/image-library/internal/search"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// Indexer writes and removes documents in the search index.
type Indexer interface {
	Index(ctx context.Context, id string, doc map[string]any) error
	Remove(ctx context.Context, id string) error
}

// App holds the application state, including configuration and the index client.
type App struct {
	index Indexer
	log   *slog.Logger
}

// main initializes the app and starts the Lambda handler.
func main() {
	config.Require(config.KeySearchEndpoint)
	env := config.MustLoad()
	log := logging.New(env.LogLevel, env.LogFormat)

	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Error("load aws config", logging.Err(err))
		os.Exit(1)
	}

	app := &App{index: search.NewClient(cfg, env.SearchEndpoint), log: log}
	lambda.Start(app.handler)
}

// ---- Handler ----

// handler applies stream records in order. The first failure fails the
// invocation so the stream retries from that record.
func (a *App) handler(ctx context.Context, ev events.DynamoDBEvent) error {
	for _, rec := range ev.Records {
		if err := a.processStreamRecord(ctx, rec); err != nil {
			a.log.ErrorContext(ctx, "indexer: process error", "event_id", rec.EventID, logging.Err(err))
			return err
		}
	}
	return nil
}

// processStreamRecord handles a single stream record.
func (a *App) processStreamRecord(ctx context.Context, rec events.DynamoDBEventRecord) error {
	id := imageID(rec.Change)
	if id == "" {
		return fmt.Errorf("record %s: missing %s", rec.EventID, models.KeyAttr)
	}

	switch events.DynamoDBOperationType(rec.EventName) {
	case events.DynamoDBOperationTypeInsert, events.DynamoDBOperationTypeModify:
		doc, err := search.Document(rec.Change.NewImage)
		if err != nil {
			return fmt.Errorf("convert %s: %w", id, err)
		}
		if err := a.index.Index(ctx, id, doc); err != nil {
			return fmt.Errorf("index %s: %w", id, err)
		}
		a.log.InfoContext(ctx, "indexed", "id", id, "op", rec.EventName)
	case events.DynamoDBOperationTypeRemove:
		if err := a.index.Remove(ctx, id); err != nil {
			return fmt.Errorf("remove %s: %w", id, err)
		}
		a.log.InfoContext(ctx, "unindexed", "id", id)
	default:
		a.log.WarnContext(ctx, "indexer: unknown event", "id", id, "event", rec.EventName)
	}
	return nil
}

// ---- Helpers ----

// imageID reads the table key, falling back to the images for streams
// configured without keys.
func imageID(change events.DynamoDBStreamRecord) string {
	for _, img := range []map[string]events.DynamoDBAttributeValue{change.Keys, change.NewImage, change.OldImage} {
		if av, ok := img[models.KeyAttr]; ok && av.DataType() == events.DataTypeString {
			return av.String()
		}
	}
	return ""
}
