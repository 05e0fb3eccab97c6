package search

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

// Document converts a DynamoDB stream image into a JSON-ready document.
// Numbers stay json.Number so their decimal text reaches the index unchanged.
func Document(image map[string]events.DynamoDBAttributeValue) (map[string]any, error) {
	doc := make(map[string]any, len(image))
	for k, av := range image {
		v, err := value(av)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", k, err)
		}
		doc[k] = v
	}
	return doc, nil
}

func value(av events.DynamoDBAttributeValue) (any, error) {
	switch av.DataType() {
	case events.DataTypeString:
		return av.String(), nil
	case events.DataTypeNumber:
		return json.Number(av.Number()), nil
	case events.DataTypeBoolean:
		return av.Boolean(), nil
	case events.DataTypeNull:
		return nil, nil
	case events.DataTypeBinary:
		return av.Binary(), nil
	case events.DataTypeStringSet:
		return av.StringSet(), nil
	case events.DataTypeNumberSet:
		ns := av.NumberSet()
		out := make([]json.Number, len(ns))
		for i, n := range ns {
			out[i] = json.Number(n)
		}
		return out, nil
	case events.DataTypeBinarySet:
		return av.BinarySet(), nil
	case events.DataTypeList:
		list := av.List()
		out := make([]any, len(list))
		for i, e := range list {
			v, err := value(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case events.DataTypeMap:
		return Document(av.Map())
	default:
		return nil, fmt.Errorf("unsupported data type %v", av.DataType())
	}
}
