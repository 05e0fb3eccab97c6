// Package main removes the metadata (and labels) of objects deleted from the image bucket.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kylejryan/image-library/internal/awsutil"
	"github.com/kylejryan/image-library/internal/config"
	"github.com/kylejryan/image-library/internal/ddb"
	"github.com/kylejryan/image-library/internal/logging"
	"github.com/kylejryan/image-library/internal/s3io"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// App holds the application state, including configuration and AWS clients.
type App struct {
	repo   *ddb.Repo
	labels *ddb.LabelRepo // nil when no labels table is configured
	log    *slog.Logger
}

func main() {
	config.Require(config.KeyTable)
	env := config.MustLoad()
	log := logging.New(env.LogLevel, env.LogFormat)

	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Error("load aws config", logging.Err(err))
		os.Exit(1)
	}

	db := dynamodb.NewFromConfig(cfg)
	app := &App{repo: &ddb.Repo{DB: db, Table: env.Table}, log: log}
	if env.LabelsTable != "" {
		app.labels = &ddb.LabelRepo{DB: db, Table: env.LabelsTable, Mode: env.LabelWriteMode}
	}
	lambda.Start(app.handler)
}

// handler deletes per removed object, in order; the first failure fails the invocation.
func (a *App) handler(ctx context.Context, ev events.S3Event) error {
	for _, rec := range ev.Records {
		if err := a.processS3Record(ctx, rec); err != nil {
			a.log.ErrorContext(ctx, "purge: process error", "key", rec.S3.Object.Key, logging.Err(err))
			return err
		}
	}
	return nil
}

// processS3Record handles a single S3 event record. Keys with no stored
// metadata are deleted all the same; DynamoDB treats that as success.
func (a *App) processS3Record(ctx context.Context, rec events.S3EventRecord) error {
	ref, err := s3io.FromRecord(rec)
	if err != nil {
		return err
	}

	if err := a.repo.DeleteMetadata(ctx, ref.Key); err != nil {
		return fmt.Errorf("delete metadata %s: %w", ref.Key, err)
	}
	if a.labels != nil {
		if err := a.labels.Delete(ctx, ref.Key); err != nil {
			return fmt.Errorf("delete labels %s: %w", ref.Key, err)
		}
	}

	a.log.InfoContext(ctx, "purged", "bucket", ref.Bucket, "key", ref.Key)
	return nil
}
