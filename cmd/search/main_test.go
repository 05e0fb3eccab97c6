package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylejryan/image-library/internal/search"
)

type fakeIndex struct {
	reqs   []search.Request
	status int
	body   string
	err    error
}

func (f *fakeIndex) Search(_ context.Context, req search.Request) (int, []byte, error) {
	f.reqs = append(f.reqs, req)
	return f.status, []byte(f.body), f.err
}

func query(q string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		QueryStringParameters: map[string]string{"q": q},
	}
}

func newApp(idx *fakeIndex, escape bool) (*App, *bytes.Buffer) {
	var buf bytes.Buffer
	return &App{index: idx, escape: escape, log: slog.New(slog.NewJSONHandler(&buf, nil))}, &buf
}

func TestHandler_RelaysRawBody(t *testing.T) {
	reply := `{"took":3,"hits":{"total":{"value":1},"hits":[{"_id":"cat.png","_source":{"ImageId":"cat.png"}}]}}`
	idx := &fakeIndex{status: http.StatusOK, body: reply}
	app, logs := newApp(idx, false)

	resp, err := app.handler(context.Background(), query("SALE"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, reply, resp.Body)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Contains(t, logs.String(), `"hits":1`)

	require.Len(t, idx.reqs, 1)
	assert.Equal(t, "*SALE*", idx.reqs[0].Query.QueryString.Query)
	assert.Equal(t, 25, idx.reqs[0].Size)
}

func TestHandler_QueryIsNotSanitized(t *testing.T) {
	// query_string syntax in q reaches the index as-is
	q := `x OR ImageId:* AND "a`
	idx := &fakeIndex{status: http.StatusOK, body: `{}`}
	app, _ := newApp(idx, false)

	_, err := app.handler(context.Background(), query(q))
	require.NoError(t, err)
	assert.Equal(t, "*"+q+"*", idx.reqs[0].Query.QueryString.Query)
}

func TestHandler_EscapeEnabled(t *testing.T) {
	idx := &fakeIndex{status: http.StatusOK, body: `{}`}
	app, _ := newApp(idx, true)

	_, err := app.handler(context.Background(), query("a:b"))
	require.NoError(t, err)
	assert.Equal(t, `*a\:b*`, idx.reqs[0].Query.QueryString.Query)
}

func TestHandler_IndexErrorStatusStillRelayed(t *testing.T) {
	idx := &fakeIndex{status: http.StatusBadRequest, body: `{"error":{"type":"query_shard_exception"}}`}
	app, logs := newApp(idx, false)

	resp, err := app.handler(context.Background(), query("("))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, idx.body, resp.Body)
	assert.Contains(t, logs.String(), "index returned an error")
}

func TestHandler_MissingQuery(t *testing.T) {
	idx := &fakeIndex{}
	app, _ := newApp(idx, false)

	resp, err := app.handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, idx.reqs)
}

func TestHandler_TransportFailure(t *testing.T) {
	idx := &fakeIndex{err: errors.New("connection reset")}
	app, _ := newApp(idx, false)

	_, err := app.handler(context.Background(), query("SALE"))
	assert.ErrorContains(t, err, "connection reset")
}
