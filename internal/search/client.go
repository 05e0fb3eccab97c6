package search

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// ErrStatus is returned when the index answers a write with a non-2xx status.
var ErrStatus = errors.New("unexpected index status")

// signingService is the SigV4 service name for OpenSearch Service domains.
const signingService = "es"

// Doer sends HTTP requests.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Signer signs HTTP requests with SigV4.
type Signer interface {
	SignHTTP(ctx context.Context, credentials aws.Credentials, r *http.Request, payloadHash string, service string, region string, signingTime time.Time, optFns ...func(*v4.SignerOptions)) error
}

// Client issues signed requests against one index.
type Client struct {
	Endpoint string // index URL, e.g. https://search-images-xyz.us-east-1.es.amazonaws.com/images
	Region   string
	HTTP     Doer
	Signer   Signer
	Creds    aws.CredentialsProvider
	Now      func() time.Time
}

// NewClient builds a client signing with the credentials and region of cfg.
func NewClient(cfg aws.Config, endpoint string) *Client {
	return &Client{
		Endpoint: endpoint,
		Region:   cfg.Region,
		HTTP:     &http.Client{Timeout: 20 * time.Second},
		Signer:   v4.NewSigner(),
		Creds:    cfg.Credentials,
		Now:      time.Now,
	}
}

// Search runs the request and returns the index's status and raw body.
func (c *Client) Search(ctx context.Context, req Request) (int, []byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, nil, err
	}
	return c.do(ctx, http.MethodGet, "/_search", body)
}

// Index stores doc under id, replacing any previous version.
func (c *Client) Index(ctx context.Context, id string, doc map[string]any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	status, resp, err := c.do(ctx, http.MethodPut, "/_doc/"+url.PathEscape(id), body)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		return fmt.Errorf("%w: index %s: %d %s", ErrStatus, id, status, resp)
	}
	return nil
}

// Remove deletes the document id. A missing document is not an error.
func (c *Client) Remove(ctx context.Context, id string) error {
	status, resp, err := c.do(ctx, http.MethodDelete, "/_doc/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	if status/100 != 2 && status != http.StatusNotFound {
		return fmt.Errorf("%w: remove %s: %d %s", ErrStatus, id, status, resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Endpoint+path, rd)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	creds, err := c.Creds.Retrieve(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("credentials: %w", err)
	}
	sum := sha256.Sum256(body)
	if err := c.Signer.SignHTTP(ctx, creds, req, hex.EncodeToString(sum[:]), signingService, c.Region, c.Now()); err != nil {
		return 0, nil, fmt.Errorf("sign: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, out, nil
}
