// Package main records the labels Rekognition detects on newly created objects.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/kylejryan/image-library/internal/awsutil"
	"github.com/kylejryan/image-library/internal/config"
	"github.com/kylejryan/image-library/internal/ddb"
	"github.com/kylejryan/image-library/internal/logging"
	"github.com/kylejryan/image-library/internal/s3io"
	"github.com/kylejryan/image-library/internal/vision"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
)

// defaultMinConfidence keeps only labels Rekognition is nearly certain of.
const defaultMinConfidence = 96

// App holds the application state, including configuration and AWS clients.
type App struct {
	vision vision.API
	labels *ddb.LabelRepo
	opts   vision.LabelOptions
	log    *slog.Logger
}

func main() {
	config.Require(config.KeyLabelsTable)
	env := config.MustLoad()
	log := logging.New(env.LogLevel, env.LogFormat)

	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Error("load aws config", logging.Err(err))
		os.Exit(1)
	}

	app := &App{
		vision: rekognition.NewFromConfig(cfg),
		labels: &ddb.LabelRepo{DB: dynamodb.NewFromConfig(cfg), Table: env.LabelsTable, Mode: env.LabelWriteMode},
		opts:   labelOptions(env),
		log:    log,
	}
	lambda.Start(app.handler)
}

func labelOptions(env config.Env) vision.LabelOptions {
	opts := vision.LabelOptions{MaxLabels: vision.DefaultMaxLabels, MinConfidence: defaultMinConfidence}
	if env.MaxLabels > 0 {
		opts.MaxLabels = env.MaxLabels
	}
	if env.MinConfidence > 0 {
		opts.MinConfidence = env.MinConfidence
	}
	return opts
}

// handler classifies each created object in order. The first failure stops the
// batch and fails the invocation so the platform can retry it.
func (a *App) handler(ctx context.Context, ev events.S3Event) error {
	for _, rec := range ev.Records {
		if err := a.processS3Record(ctx, rec); err != nil {
			a.log.ErrorContext(ctx, "classify: process error", "key", rec.S3.Object.Key, logging.Err(err))
			return err
		}
	}
	return nil
}

// processS3Record handles a single S3 event record.
func (a *App) processS3Record(ctx context.Context, rec events.S3EventRecord) error {
	ref, err := s3io.FromRecord(rec)
	if err != nil {
		return err
	}

	out, err := vision.DetectLabels(ctx, a.vision, ref, a.opts)
	if err != nil {
		return fmt.Errorf("detect labels %s: %w", ref.Key, err)
	}
	labels := vision.Labels(out)

	writes, err := a.labels.Store(ctx, ref.Key, labels, rec.EventTime)
	if errors.Is(err, ddb.ErrStale) {
		a.log.WarnContext(ctx, "classify: newer labels already stored", "key", ref.Key, "event_time", rec.EventTime)
		return nil
	}
	if err != nil {
		return fmt.Errorf("store labels %s: %w", ref.Key, err)
	}

	a.log.InfoContext(ctx, "classified", "bucket", ref.Bucket, "key", ref.Key, "labels", len(labels), "writes", writes)
	return nil
}
