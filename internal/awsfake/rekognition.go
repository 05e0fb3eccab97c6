package awsfake

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
)

// Rekognition answers with canned outputs and records inputs.
type Rekognition struct {
	Labels *rekognition.DetectLabelsOutput
	Text   *rekognition.DetectTextOutput
	Faces  *rekognition.DetectFacesOutput

	LabelCalls []*rekognition.DetectLabelsInput
	TextCalls  []*rekognition.DetectTextInput
	FaceCalls  []*rekognition.DetectFacesInput

	Err error
	// FailOn makes the call for this object key fail with Err; "" fails every call when Err is set.
	FailOn string
}

func (f *Rekognition) fail(name *string) error {
	if f.Err == nil {
		return nil
	}
	if f.FailOn == "" || (name != nil && *name == f.FailOn) {
		return f.Err
	}
	return nil
}

func (f *Rekognition) DetectLabels(_ context.Context, in *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.LabelCalls = append(f.LabelCalls, in)
	if err := f.fail(in.Image.S3Object.Name); err != nil {
		return nil, err
	}
	if f.Labels == nil {
		return &rekognition.DetectLabelsOutput{}, nil
	}
	return f.Labels, nil
}

func (f *Rekognition) DetectText(_ context.Context, in *rekognition.DetectTextInput, _ ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error) {
	f.TextCalls = append(f.TextCalls, in)
	if err := f.fail(in.Image.S3Object.Name); err != nil {
		return nil, err
	}
	if f.Text == nil {
		return &rekognition.DetectTextOutput{}, nil
	}
	return f.Text, nil
}

func (f *Rekognition) DetectFaces(_ context.Context, in *rekognition.DetectFacesInput, _ ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
	f.FaceCalls = append(f.FaceCalls, in)
	if err := f.fail(in.Image.S3Object.Name); err != nil {
		return nil, err
	}
	if f.Faces == nil {
		return &rekognition.DetectFacesOutput{}, nil
	}
	return f.Faces, nil
}
