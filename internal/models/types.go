// Package models defines the data models used in the application.
package models

import "github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

// KeyAttr is the attribute holding the S3 object key in every table.
// The object key is the single join key across storage, tables and the search index.
const KeyAttr = "ImageId"

// Fixed policy fields written on every metadata document.
const (
	DefaultLicense = "Public"
	DefaultObjLock = "Open"
	SchemaVersion  = "1.0"
)

// ImageMetadata is the full-replacement document the enricher writes per object.
type ImageMetadata struct {
	ImageID  string `dynamodbav:"ImageId" json:"ImageId"`
	ImageURL string `dynamodbav:"ImageURL" json:"ImageURL"`

	LastUpdated          int64  `dynamodbav:"LastUpdated,omitempty" json:"LastUpdated,omitempty"` // Unix ns
	LastUpdatedTimestamp string `dynamodbav:"LastUpdatedTimestamp,omitempty" json:"LastUpdatedTimestamp,omitempty"`

	// Raw vision responses with every number held as an exact decimal.
	DetectedObjects map[string]any `dynamodbav:"DetectedObjects" json:"DetectedObjects"`
	DetectedText    map[string]any `dynamodbav:"DetectedText" json:"DetectedText"`
	DetectedFaces   map[string]any `dynamodbav:"DetectedFaces,omitempty" json:"DetectedFaces,omitempty"`

	ManualTags string `dynamodbav:"ManualTags" json:"ManualTags"`
	License    string `dynamodbav:"License" json:"License"`
	ObjLock    string `dynamodbav:"ObjLock" json:"ObjLock"`
	Version    string `dynamodbav:"Version" json:"Version"`
}

// Label is one detected label with its confidence as the exact decimal the vision service reported.
type Label struct {
	Name       string                `dynamodbav:"Name" json:"name"`
	Confidence attributevalue.Number `dynamodbav:"Confidence" json:"confidence"`
}

// LabelRecord is a per-label item keyed by (ImageId, Tag).
type LabelRecord struct {
	ImageID string                `dynamodbav:"ImageId"`
	Tag     string                `dynamodbav:"Tag"`
	Conf    attributevalue.Number `dynamodbav:"Conf"`
}

// LabelSet is the single per-image label item written in document mode.
type LabelSet struct {
	ImageID      string  `dynamodbav:"ImageId" json:"image_id"`
	Labels       []Label `dynamodbav:"Labels" json:"labels"`
	LabelCount   int     `dynamodbav:"LabelCount" json:"label_count"`
	ClassifiedAt string  `dynamodbav:"ClassifiedAt" json:"classified_at"` // RFC3339Nano of the triggering event
}
