// Package main returns the labels recorded for one image.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/kylejryan/image-library/internal/api"
	"github.com/kylejryan/image-library/internal/awsutil"
	"github.com/kylejryan/image-library/internal/config"
	"github.com/kylejryan/image-library/internal/ddb"
	"github.com/kylejryan/image-library/internal/httpx"
	"github.com/kylejryan/image-library/internal/logging"
	"github.com/kylejryan/image-library/internal/validate"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// App holds the application state, including configuration and AWS clients.
type App struct {
	labels *ddb.LabelRepo
	log    *slog.Logger
}

// imageID reads the id from the path (/images/{id}/labels) or the query string.
func imageID(req events.APIGatewayProxyRequest) string {
	if id := req.PathParameters["id"]; id != "" {
		// API Gateway leaves path parameters escaped
		if dec, err := url.PathUnescape(id); err == nil {
			return dec
		}
		return id
	}
	return req.QueryStringParameters["id"]
}

// handler looks up the labels of the requested image.
func (a *App) handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod == http.MethodOptions {
		return httpx.Preflight(), nil
	}
	id := imageID(req)
	if err := validate.ImageID(id); err != nil {
		return httpx.Error(http.StatusBadRequest, err.Error())
	}

	labels, err := a.labels.List(ctx, id)
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("list labels %s: %w", id, err)
	}

	resp := api.LabelsResponse{ImageID: id, Labels: make([]api.Label, 0, len(labels))}
	for _, l := range labels {
		resp.Labels = append(resp.Labels, api.Label{Name: l.Name, Confidence: json.Number(l.Confidence)})
	}
	a.log.InfoContext(ctx, "labels", "id", id, "count", len(resp.Labels))
	return httpx.JSON(http.StatusOK, resp)
}

// main initializes the application and starts the Lambda handler.
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
		labels: &ddb.LabelRepo{DB: dynamodb.NewFromConfig(cfg), Table: env.LabelsTable, Mode: env.LabelWriteMode},
		log:    log,
	}
	lambda.Start(app.handler)
}
