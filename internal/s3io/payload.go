package s3io

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrBadPayload is returned when an upload payload is not valid base64.
var ErrBadPayload = errors.New("bad payload")

// DecodePayload decodes a base64 upload, optionally prefixed by a data URI.
// Everything up to and including the first comma is discarded. Padding is
// optional and embedded whitespace is ignored.
func DecodePayload(file string) ([]byte, error) {
	if i := strings.IndexByte(file, ','); i >= 0 {
		file = file[i+1:]
	}
	file = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n', '=':
			return -1
		}
		return r
	}, file)

	b, err := base64.RawStdEncoding.DecodeString(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return b, nil
}
