package vision

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// ToDocument converts a vision response into a generic document fit for a
// DynamoDB item. Every number becomes an attributevalue.Number holding the
// exact decimal text of the JSON encoding, so nothing is rounded on the way
// into the table. SDK response metadata is dropped.
func ToDocument(out any) (map[string]any, error) {
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	delete(doc, "ResultMetadata")
	return exact(doc).(map[string]any), nil
}

func exact(v any) any {
	switch t := v.(type) {
	case json.Number:
		return attributevalue.Number(t.String())
	case map[string]any:
		for k, e := range t {
			t[k] = exact(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = exact(e)
		}
		return t
	default:
		return v
	}
}
