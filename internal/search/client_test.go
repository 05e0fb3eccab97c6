package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSigner struct {
	service, region, payloadHash string
	accessKey                    string
	calls                        int
}

func (f *fakeSigner) SignHTTP(_ context.Context, creds aws.Credentials, r *http.Request, payloadHash, service, region string, _ time.Time, _ ...func(*v4.SignerOptions)) error {
	f.calls++
	f.service, f.region, f.payloadHash, f.accessKey = service, region, payloadHash, creds.AccessKeyID
	r.Header.Set("Authorization", "AWS4-HMAC-SHA256 fake")
	return nil
}

type captured struct {
	method, path, auth, contentType string
	body                            []byte
}

func newTestClient(t *testing.T, status int, reply string) (*Client, *fakeSigner, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.EscapedPath()
		got.auth = r.Header.Get("Authorization")
		got.contentType = r.Header.Get("Content-Type")
		got.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	signer := &fakeSigner{}
	c := &Client{
		Endpoint: srv.URL + "/images",
		Region:   "us-east-1",
		HTTP:     srv.Client(),
		Signer:   signer,
		Creds: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "AKID", SecretAccessKey: "secret"}, nil
		}),
		Now: func() time.Time { return time.Unix(0, 0) },
	}
	return c, signer, got
}

func TestSearch_SignedAndRelayed(t *testing.T) {
	reply := `{"hits":{"total":{"value":1},"hits":[{"_id":"01J.png"}]}}`
	c, signer, got := newTestClient(t, http.StatusOK, reply)

	status, body, err := c.Search(context.Background(), NewRequest("SALE", false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, reply, string(body))

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/images/_search", got.path)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, "AWS4-HMAC-SHA256 fake", got.auth)

	var sent Request
	require.NoError(t, json.Unmarshal(got.body, &sent))
	assert.Equal(t, "*SALE*", sent.Query.QueryString.Query)
	assert.Equal(t, PageSize, sent.Size)

	assert.Equal(t, "es", signer.service)
	assert.Equal(t, "us-east-1", signer.region)
	assert.Equal(t, "AKID", signer.accessKey)
	assert.Len(t, signer.payloadHash, 64)
}

func TestSearch_NonOKIsReturnedNotFailed(t *testing.T) {
	c, _, _ := newTestClient(t, http.StatusBadRequest, `{"error":"parse"}`)
	status, body, err := c.Search(context.Background(), NewRequest("(", false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"parse"}`, string(body))
}

func TestIndex(t *testing.T) {
	c, _, got := newTestClient(t, http.StatusCreated, `{"result":"created"}`)

	err := c.Index(context.Background(), "holiday/01J.png", map[string]any{"ImageId": "holiday/01J.png", "Confidence": json.Number("99.87654")})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/images/_doc/holiday%2F01J.png", got.path)
	assert.JSONEq(t, `{"ImageId":"holiday/01J.png","Confidence":99.87654}`, string(got.body))
}

func TestIndex_ErrorStatus(t *testing.T) {
	c, _, _ := newTestClient(t, http.StatusForbidden, `denied`)
	err := c.Index(context.Background(), "k", map[string]any{})
	assert.ErrorIs(t, err, ErrStatus)
}

func TestRemove(t *testing.T) {
	c, _, got := newTestClient(t, http.StatusOK, `{}`)
	require.NoError(t, c.Remove(context.Background(), "01J.png"))
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Empty(t, got.contentType)

	missing, _, _ := newTestClient(t, http.StatusNotFound, `{"result":"not_found"}`)
	assert.NoError(t, missing.Remove(context.Background(), "01J.png"))

	broken, _, _ := newTestClient(t, http.StatusInternalServerError, `boom`)
	assert.ErrorIs(t, broken.Remove(context.Background(), "01J.png"), ErrStatus)
}

func TestDo_CredentialsError(t *testing.T) {
	c, signer, _ := newTestClient(t, http.StatusOK, `{}`)
	c.Creds = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{}, errors.New("no role")
	})

	_, _, err := c.Search(context.Background(), NewRequest("x", false))
	assert.EqualError(t, err, "credentials: no role")
	assert.Zero(t, signer.calls)
}
