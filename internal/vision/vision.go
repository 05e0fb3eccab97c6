// Package vision wraps the Rekognition calls made against uploaded objects.
package vision

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/kylejryan/image-library/internal/models"
	"github.com/kylejryan/image-library/internal/s3io"
)

// API is the subset of the Rekognition client the functions use.
type API interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

// Default label limits.
const (
	DefaultMaxLabels = 10
)

// LabelOptions bounds a label detection.
type LabelOptions struct {
	MaxLabels     int32
	MinConfidence float32 // percent
}

func image(ref s3io.ObjectRef) *types.Image {
	return &types.Image{S3Object: &types.S3Object{
		Bucket: aws.String(ref.Bucket),
		Name:   aws.String(ref.Key),
	}}
}

// DetectLabels runs label detection on the object.
func DetectLabels(ctx context.Context, api API, ref s3io.ObjectRef, opts LabelOptions) (*rekognition.DetectLabelsOutput, error) {
	in := &rekognition.DetectLabelsInput{Image: image(ref)}
	if opts.MaxLabels > 0 {
		in.MaxLabels = aws.Int32(opts.MaxLabels)
	}
	if opts.MinConfidence > 0 {
		in.MinConfidence = aws.Float32(opts.MinConfidence)
	}
	return api.DetectLabels(ctx, in)
}

// DetectText runs text detection on the object.
func DetectText(ctx context.Context, api API, ref s3io.ObjectRef) (*rekognition.DetectTextOutput, error) {
	return api.DetectText(ctx, &rekognition.DetectTextInput{Image: image(ref)})
}

// DetectFaces runs face detection with every facial attribute.
func DetectFaces(ctx context.Context, api API, ref s3io.ObjectRef) (*rekognition.DetectFacesOutput, error) {
	return api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      image(ref),
		Attributes: []types.Attribute{types.AttributeAll},
	})
}

// Labels flattens a detection into name/confidence pairs. Labels without a name are skipped.
func Labels(out *rekognition.DetectLabelsOutput) []models.Label {
	if out == nil {
		return nil
	}
	labels := make([]models.Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		labels = append(labels, models.Label{
			Name:       *l.Name,
			Confidence: Decimal(aws.ToFloat32(l.Confidence)),
		})
	}
	return labels
}

// Decimal renders f as the shortest decimal that reads back as the same float32.
// That is exactly the value the service reported, with no float64 widening noise.
func Decimal(f float32) attributevalue.Number {
	return attributevalue.Number(strconv.FormatFloat(float64(f), 'f', -1, 32))
}
