// Package validate checks the shape of API inputs before any AWS call is made.
package validate

import (
	"errors"
	"strings"
)

// UploadFile checks that the upload carries a payload.
func UploadFile(file string) error {
	if strings.TrimSpace(file) == "" {
		return errors.New("file required")
	}
	return nil
}

// UploadName rejects names that could not contribute an extension to the key.
// The name itself is never used as a key, so path characters are harmless.
func UploadName(name string) error {
	if len(name) > 1024 {
		return errors.New("name too long")
	}
	return nil
}

// SearchQuery checks that the free-text query is present.
// The text itself is passed to the index unmodified.
func SearchQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return errors.New("q required")
	}
	return nil
}

// ImageID checks that an image id (an object key) is present.
func ImageID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("id required")
	}
	return nil
}
