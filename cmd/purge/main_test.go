package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylejryan/image-library/internal/awsfake"
	"github.com/kylejryan/image-library/internal/config"
	"github.com/kylejryan/image-library/internal/ddb"
)

var eventAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newApp(meta, labels *awsfake.DynamoDB) *App {
	app := &App{
		repo: &ddb.Repo{DB: meta, Table: "metadata"},
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if labels != nil {
		app.labels = &ddb.LabelRepo{DB: labels, Table: "labels", Mode: config.LabelModeDocument}
	}
	return app
}

func TestHandler_OneDeletePerRemovedKey(t *testing.T) {
	meta := &awsfake.DynamoDB{}
	app := newApp(meta, nil)

	err := app.handler(context.Background(), awsfake.S3Event("ObjectRemoved:Delete", "images", eventAt, "a.png", "never-indexed.png"))
	require.NoError(t, err)

	require.Len(t, meta.Deletes, 2)
	assert.Equal(t, "metadata", *meta.Deletes[0].TableName)
	assert.Equal(t, "a.png", awsfake.S(meta.Deletes[0].Key, "ImageId"))
	assert.Equal(t, "never-indexed.png", awsfake.S(meta.Deletes[1].Key, "ImageId"))
	assert.Nil(t, meta.Deletes[0].ConditionExpression)
}

func TestHandler_AlsoClearsLabels(t *testing.T) {
	meta, labels := &awsfake.DynamoDB{}, &awsfake.DynamoDB{}
	app := newApp(meta, labels)

	err := app.handler(context.Background(), awsfake.S3Event("ObjectRemoved:Delete", "images", eventAt, "a.png"))
	require.NoError(t, err)

	require.Len(t, meta.Deletes, 1)
	require.Len(t, labels.Deletes, 1)
	assert.Equal(t, "labels", *labels.Deletes[0].TableName)
	assert.Equal(t, "a.png", awsfake.S(labels.Deletes[0].Key, "ImageId"))
}

func TestHandler_FailureStopsBatch(t *testing.T) {
	meta := &awsfake.DynamoDB{Err: errors.New("throttled")}
	app := newApp(meta, nil)

	err := app.handler(context.Background(), awsfake.S3Event("ObjectRemoved:Delete", "images", eventAt, "a.png", "b.png"))
	require.ErrorContains(t, err, "delete metadata a.png: throttled")
	assert.Len(t, meta.Deletes, 1)
}
