package s3io

import (
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/oklog/ulid/v2"
)

// NewKey builds a fresh object key: a ULID plus the extension of the uploaded name.
// A new key is generated on every call so warm invocations never reuse one.
func NewKey(name string) string {
	return ulid.Make().String() + strings.ToLower(filepath.Ext(name))
}

// ContentType guesses the Content-Type from the key's extension.
func ContentType(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ObjectRef names an object in a bucket.
type ObjectRef struct {
	Bucket string
	Key    string
}

// FromRecord extracts the bucket and the decoded key from an S3 notification record.
// S3 URL-encodes keys in notifications ("+" for spaces).
func FromRecord(record events.S3EventRecord) (ObjectRef, error) {
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		return ObjectRef{}, fmt.Errorf("unescape key %q: %w", record.S3.Object.Key, err)
	}
	if key == "" {
		return ObjectRef{}, fmt.Errorf("record %s: empty object key", record.EventName)
	}
	return ObjectRef{Bucket: record.S3.Bucket.Name, Key: key}, nil
}
