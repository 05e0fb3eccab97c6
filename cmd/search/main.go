// Package main relays free-text image searches to the OpenSearch index.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/kylejryan/image-library/internal/awsutil"
	"github.com/kylejryan/image-library/internal/config"
	"github.com/kylejryan/image-library/internal/httpx"
	"github.com/kylejryan/image-library/internal/logging"
	"github.com/kylejryan/image-library/internal/search"
	"github.com/kylejryan/image-library/internal/validate"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/tidwall/gjson"
)

// Searcher runs a search and returns the index's status and raw body.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (int, []byte, error)
}

// App holds the application state, including configuration and the index client.
type App struct {
	index  Searcher
	escape bool
	log    *slog.Logger
}

func main() {
	config.Require(config.KeySearchEndpoint)
	env := config.MustLoad()
	log := logging.New(env.LogLevel, env.LogFormat)

	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Error("load aws config", logging.Err(err))
		os.Exit(1)
	}

	app := &App{index: search.NewClient(cfg, env.SearchEndpoint), escape: env.EscapeQuery, log: log}
	lambda.Start(app.handler)
}

// handler forwards ?q= to the index and returns its JSON untouched.
func (a *App) handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod == http.MethodOptions {
		return httpx.Preflight(), nil
	}

	q := req.QueryStringParameters["q"]
	if err := validate.SearchQuery(q); err != nil {
		return httpx.Error(http.StatusBadRequest, err.Error())
	}

	status, body, err := a.index.Search(ctx, search.NewRequest(q, a.escape))
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("search %q: %w", q, err)
	}
	if status/100 != 2 {
		a.log.WarnContext(ctx, "search: index returned an error", "status", status, "q", q, "body", string(body))
	} else {
		a.log.InfoContext(ctx, "search", "q", q, "hits", gjson.GetBytes(body, "hits.hits.#").Int())
	}
	return httpx.Raw(http.StatusOK, string(body)), nil
}
