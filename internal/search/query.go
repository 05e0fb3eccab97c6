// Package search talks to the OpenSearch domain holding the searchable copy of image metadata.
package search

import "strings"

// PageSize is the fixed number of hits returned per search.
const PageSize = 25

// Fields searched, with boosts. Labels weigh most, then detected text.
var Fields = []string{
	"DetectedObjects.Labels.Name^3",
	"DetectedText.TextDetections.DetectedText^2",
	"DetectedFaces.FaceDetails.Gender.Value",
}

// Request is the body of a _search call.
type Request struct {
	Size  int   `json:"size"`
	Query Query `json:"query"`
}

// Query holds the query clause.
type Query struct {
	QueryString QueryString `json:"query_string"`
}

// QueryString is a query_string clause over several fields.
type QueryString struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
}

// NewRequest builds a wildcard search for text. The body is marshalled from
// structs, so text cannot break out of the JSON. Unless escape is set, text
// is still parsed by the index's query language: operators, field
// qualifiers and wildcards in it take effect.
func NewRequest(text string, escape bool) Request {
	if escape {
		text = Escape(text)
	}
	return Request{
		Size: PageSize,
		Query: Query{QueryString: QueryString{
			Query:  "*" + text + "*",
			Fields: Fields,
		}},
	}
}

// reserved query_string characters that can be backslash-escaped.
const reserved = `+-=&|!(){}[]^"~*?:\/`

// Escape neutralizes query_string syntax in s. '<' and '>' cannot be
// escaped and are dropped.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '<' || r == '>':
			continue
		case strings.ContainsRune(reserved, r):
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
