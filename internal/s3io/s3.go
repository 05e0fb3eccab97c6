// Package s3io provides utilities for working with S3 objects and notifications.
package s3io

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MetaUploadedBy is the user metadata key recording the uploader's subject.
const MetaUploadedBy = "uploaded_by"

// Putter is the subset of the S3 client used to store uploads.
type Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Put writes body to bucket/key with a Content-Type derived from the key.
func Put(ctx context.Context, p Putter, bucket, key string, body []byte, meta map[string]string) error {
	_, err := p.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(ContentType(key)),
		Metadata:      meta,
	})
	return err
}
