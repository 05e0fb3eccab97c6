// Package httpx provides helper functions for creating API Gateway responses.
package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// CORS headers returned on every response; the web client is served from another origin.
func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
	}
}

// JSON creates a JSON response with the given status code and value.
func JSON(status int, v any) (events.APIGatewayProxyResponse, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return Raw(status, string(b)), nil
}

// Raw wraps an already-encoded JSON body.
func Raw(status int, body string) events.APIGatewayProxyResponse {
	h := corsHeaders()
	h["Content-Type"] = "application/json"
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    h,
		Body:       body,
	}
}

// Error creates a JSON error response with the given status code and message.
func Error(status int, msg string) (events.APIGatewayProxyResponse, error) {
	return JSON(status, map[string]string{"error": msg})
}

// Preflight answers a CORS OPTIONS request.
func Preflight() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: corsHeaders()}
}

// Header retrieves a header value in a case-insensitive manner.
func Header(h map[string]string, key string) string {
	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
