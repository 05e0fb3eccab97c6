// Package api contains types for the API requests and responses.
package api

import "encoding/json"

// UploadRequest is the upload body. File is base64, optionally prefixed by a data URI ("data:image/png;base64,").
type UploadRequest struct {
	Name string `json:"name"`
	File string `json:"file"`
}

// UploadResponse confirms a stored upload.
type UploadResponse struct {
	Message string `json:"message"`
	Key     string `json:"key"`
}

// Label is a detected label as returned to API callers.
type Label struct {
	Name       string      `json:"name"`
	Confidence json.Number `json:"confidence"`
}

// LabelsResponse lists the labels recorded for one image.
type LabelsResponse struct {
	ImageID string  `json:"image_id"`
	Labels  []Label `json:"labels"`
}
