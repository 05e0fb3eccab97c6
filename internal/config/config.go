// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names shared by the functions.
const (
	KeyBucket         = "S3_BUCKET"
	KeyTable          = "DYNAMODB_TABLE"
	KeyLabelsTable    = "LABELS_TABLE"
	KeyDistro         = "CLOUDFRONT_DISTRO"
	KeySearchEndpoint = "SEARCH_ENDPOINT"
)

// Label write modes for the classifier.
const (
	LabelModeDocument = "document" // one item per image with an embedded label list
	LabelModeItem     = "item"     // one item per (image, label)
)

// Env holds the configuration values for the application.
type Env struct {
	Region         string
	Bucket         string
	Table          string
	LabelsTable    string
	LabelWriteMode string
	Distro         string
	SearchEndpoint string
	EscapeQuery    bool

	// Vision tuning. Zero MaxLabels/MinConfidence means "use the function default".
	MaxLabels         int32
	MinConfidence     float32
	IncludeTimestamps bool
	DetectFaces       bool

	DevBypassAuth bool
	LogLevel      string
	LogFormat     string
}

// MustLoad reads the environment variables and returns an Env struct.
// Malformed numeric values panic, missing ones fall back to defaults.
func MustLoad() Env {
	mode := strings.ToLower(get("LABEL_WRITE_MODE", LabelModeDocument))
	if mode != LabelModeDocument && mode != LabelModeItem {
		panic(fmt.Errorf("invalid LABEL_WRITE_MODE %q", mode))
	}
	return Env{
		Region:            get("AWS_REGION", "us-east-1"),
		Bucket:            get(KeyBucket, ""),
		Table:             get(KeyTable, ""),
		LabelsTable:       get(KeyLabelsTable, ""),
		LabelWriteMode:    mode,
		Distro:            get(KeyDistro, ""),
		SearchEndpoint:    strings.TrimRight(get(KeySearchEndpoint, ""), "/"),
		EscapeQuery:       flag("SEARCH_ESCAPE_QUERY", false),
		MaxLabels:         int32(number("MAX_LABELS", 0, 32)),
		MinConfidence:     float32(decimal("MIN_CONFIDENCE")),
		IncludeTimestamps: flag("INCLUDE_TIMESTAMPS", true),
		DetectFaces:       flag("DETECT_FACES", false),
		DevBypassAuth:     flag("DEV_BYPASS_AUTH", false),
		LogLevel:          get("LOG_LEVEL", "info"),
		LogFormat:         get("LOG_FORMAT", "json"),
	}
}

// Require panics if any of the named environment variables is unset.
// Call it from main before MustLoad so a misconfigured function fails at cold start.
func Require(keys ...string) {
	for _, k := range keys {
		must(k)
	}
}

// get returns the value of the environment variable k or def if not set.
func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// must returns the value of the environment variable k or panics if not set.
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic(fmt.Errorf("missing env %s", k))
	}
	return v
}

func flag(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(fmt.Errorf("env %s: %w", k, err))
	}
	return b
}

func number(k string, def int64, bits int) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, bits)
	if err != nil {
		panic(fmt.Errorf("env %s: %w", k, err))
	}
	return n
}

func decimal(k string) float64 {
	v := os.Getenv(k)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		panic(fmt.Errorf("env %s: %w", k, err))
	}
	return f
}
