package awsfake

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 records PutObject calls along with the bytes written.
type S3 struct {
	Puts   []*s3.PutObjectInput
	Bodies [][]byte
	Err    error
}

func (f *S3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.Puts = append(f.Puts, in)
	var body []byte
	if in.Body != nil {
		body, _ = io.ReadAll(in.Body)
	}
	f.Bodies = append(f.Bodies, body)
	if f.Err != nil {
		return nil, f.Err
	}
	return &s3.PutObjectOutput{}, nil
}
