// Package main stores base64 uploads posted through API Gateway into the image bucket.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/kylejryan/image-library/internal/api"
	"github.com/kylejryan/image-library/internal/authz"
	"github.com/kylejryan/image-library/internal/awsutil"
	"github.com/kylejryan/image-library/internal/config"
	"github.com/kylejryan/image-library/internal/httpx"
	"github.com/kylejryan/image-library/internal/logging"
	"github.com/kylejryan/image-library/internal/s3io"
	"github.com/kylejryan/image-library/internal/validate"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const uploadedMessage = "upload stored"

// App holds the application state, including configuration and AWS clients.
type App struct {
	env config.Env
	s3  s3io.Putter
	log *slog.Logger
}

func main() {
	config.Require(config.KeyBucket)
	env := config.MustLoad()
	log := logging.New(env.LogLevel, env.LogFormat)

	cfg, endpoint, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Error("load aws config", logging.Err(err))
		os.Exit(1)
	}

	// S3 client: use path-style when hitting LocalStack
	s3c := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = awsutil.PathStyle(endpoint)
	})

	app := &App{env: env, s3: s3c, log: log}
	lambda.Start(app.handler)
}

// handler decodes the posted file and writes it to the bucket under a fresh key.
func (a *App) handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.HTTPMethod {
	case http.MethodOptions:
		return httpx.Preflight(), nil
	case http.MethodPost:
	default:
		return httpx.Error(http.StatusMethodNotAllowed, "method not allowed")
	}

	body, err := a.parseRequest(req)
	if err != nil {
		return httpx.Error(http.StatusBadRequest, err.Error())
	}

	data, err := s3io.DecodePayload(body.File)
	if err != nil {
		a.log.WarnContext(ctx, "upload: undecodable payload", "name", body.Name, logging.Err(err))
		return httpx.Error(http.StatusBadRequest, "file is not valid base64")
	}

	key := s3io.NewKey(body.Name)
	if err := s3io.Put(ctx, a.s3, a.env.Bucket, key, data, a.objectMetadata(req)); err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("put %s: %w", key, err)
	}

	a.log.InfoContext(ctx, "upload stored", "bucket", a.env.Bucket, "key", key, "name", body.Name, "bytes", len(data))
	return httpx.JSON(http.StatusOK, api.UploadResponse{Message: uploadedMessage, Key: key})
}

// parseRequest parses the JSON body and validates all input fields.
func (a *App) parseRequest(req events.APIGatewayProxyRequest) (api.UploadRequest, error) {
	raw := []byte(req.Body)
	if req.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return api.UploadRequest{}, errors.New("invalid body encoding")
		}
		raw = b
	}

	var body api.UploadRequest
	if err := json.Unmarshal(raw, &body); err != nil {
		return body, errors.New("invalid json")
	}
	if err := validate.UploadFile(body.File); err != nil {
		return body, err
	}
	if err := validate.UploadName(body.Name); err != nil {
		return body, err
	}
	return body, nil
}

// objectMetadata attributes the object to the caller when one is known.
func (a *App) objectMetadata(req events.APIGatewayProxyRequest) map[string]string {
	sub, err := authz.Caller(req, a.env.DevBypassAuth)
	if err != nil {
		return nil
	}
	return map[string]string{s3io.MetaUploadedBy: sub}
}
