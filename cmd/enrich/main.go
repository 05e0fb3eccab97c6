// Package main writes the metadata document for each newly created image:
// detected labels and text, its public URL and the default policy fields.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kylejryan/image-library/internal/awsutil"
	"github.com/kylejryan/image-library/internal/config"
	"github.com/kylejryan/image-library/internal/ddb"
	"github.com/kylejryan/image-library/internal/logging"
	"github.com/kylejryan/image-library/internal/models"
	"github.com/kylejryan/image-library/internal/s3io"
	"github.com/kylejryan/image-library/internal/vision"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
)

const (
	defaultMinConfidence = 90
	// Human-readable update time, e.g. "UTC - 2024/05/01, 12:00:00".
	timestampLayout = "MST - 2006/01/02, 15:04:05"
)

// App holds the application state, including configuration and AWS clients.
type App struct {
	vision vision.API
	repo   *ddb.Repo
	distro string // URL prefix the object key is appended to
	opts   vision.LabelOptions

	includeTimestamps bool
	detectFaces       bool

	now func() time.Time
	log *slog.Logger
}

func main() {
	config.Require(config.KeyTable, config.KeyDistro)
	env := config.MustLoad()
	log := logging.New(env.LogLevel, env.LogFormat)

	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Error("load aws config", logging.Err(err))
		os.Exit(1)
	}

	app := newApp(env, rekognition.NewFromConfig(cfg), &ddb.Repo{DB: dynamodb.NewFromConfig(cfg), Table: env.Table}, log)
	lambda.Start(app.handler)
}

func newApp(env config.Env, v vision.API, repo *ddb.Repo, log *slog.Logger) *App {
	opts := vision.LabelOptions{MaxLabels: vision.DefaultMaxLabels, MinConfidence: defaultMinConfidence}
	if env.MaxLabels > 0 {
		opts.MaxLabels = env.MaxLabels
	}
	if env.MinConfidence > 0 {
		opts.MinConfidence = env.MinConfidence
	}
	return &App{
		vision:            v,
		repo:              repo,
		distro:            env.Distro,
		opts:              opts,
		includeTimestamps: env.IncludeTimestamps,
		detectFaces:       env.DetectFaces,
		now:               time.Now,
		log:               log,
	}
}

// handler enriches each created object in order; the first failure fails the invocation.
func (a *App) handler(ctx context.Context, ev events.S3Event) error {
	for _, rec := range ev.Records {
		if err := a.processS3Record(ctx, rec); err != nil {
			a.log.ErrorContext(ctx, "enrich: process error", "key", rec.S3.Object.Key, logging.Err(err))
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

	doc, err := a.buildMetadata(ctx, ref)
	if err != nil {
		return err
	}
	if err := a.repo.PutMetadata(ctx, doc); err != nil {
		return fmt.Errorf("put metadata %s: %w", ref.Key, err)
	}

	a.log.InfoContext(ctx, "enriched", "bucket", ref.Bucket, "key", ref.Key, "url", doc.ImageURL)
	return nil
}

// buildMetadata runs the detections and assembles the replacement document.
func (a *App) buildMetadata(ctx context.Context, ref s3io.ObjectRef) (models.ImageMetadata, error) {
	m := models.ImageMetadata{
		ImageID:    ref.Key,
		ImageURL:   a.distro + ref.Key,
		ManualTags: "",
		License:    models.DefaultLicense,
		ObjLock:    models.DefaultObjLock,
		Version:    models.SchemaVersion,
	}

	labels, err := vision.DetectLabels(ctx, a.vision, ref, a.opts)
	if err != nil {
		return m, fmt.Errorf("detect labels %s: %w", ref.Key, err)
	}
	if m.DetectedObjects, err = vision.ToDocument(labels); err != nil {
		return m, err
	}

	text, err := vision.DetectText(ctx, a.vision, ref)
	if err != nil {
		return m, fmt.Errorf("detect text %s: %w", ref.Key, err)
	}
	if m.DetectedText, err = vision.ToDocument(text); err != nil {
		return m, err
	}

	if a.detectFaces {
		faces, err := vision.DetectFaces(ctx, a.vision, ref)
		if err != nil {
			return m, fmt.Errorf("detect faces %s: %w", ref.Key, err)
		}
		if m.DetectedFaces, err = vision.ToDocument(faces); err != nil {
			return m, err
		}
	}

	if a.includeTimestamps {
		now := a.now().UTC()
		m.LastUpdated = now.UnixNano()
		m.LastUpdatedTimestamp = now.Format(timestampLayout)
	}
	return m, nil
}
