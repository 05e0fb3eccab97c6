// Package authz resolves the calling user from an API Gateway request.
// Authorization itself is enforced by the API Gateway authorizer; the
// functions only read who the caller was, for attribution.
package authz

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/kylejryan/image-library/internal/httpx"
)

// ErrAnonymous is returned when the request carries no caller identity.
var ErrAnonymous = errors.New("anonymous caller")

const devBypassHeader = "x-user-sub"

// Caller returns the Cognito subject of the caller of a REST (v1) request.
// Sources, in order: the dev bypass header (when enabled), the authorizer
// context, then the unverified payload of a bearer token.
func Caller(req events.APIGatewayProxyRequest, devBypass bool) (string, error) {
	if devBypass {
		if sub := strings.TrimSpace(httpx.Header(req.Headers, devBypassHeader)); sub != "" {
			return sub, nil
		}
	}
	if sub := fromAuthorizer(req.RequestContext.Authorizer); sub != "" {
		return sub, nil
	}
	if sub := fromBearer(httpx.Header(req.Headers, "Authorization")); sub != "" {
		return sub, nil
	}
	return "", ErrAnonymous
}

// fromAuthorizer reads "sub" from a Cognito authorizer map. API Gateway
// delivers claims either as a nested map or as a JSON string.
func fromAuthorizer(m map[string]any) string {
	if m == nil {
		return ""
	}
	switch c := m["claims"].(type) {
	case map[string]any:
		if sub := str(c["sub"]); sub != "" {
			return sub
		}
	case string:
		var claims map[string]any
		if json.Unmarshal([]byte(c), &claims) == nil {
			if sub := str(claims["sub"]); sub != "" {
				return sub
			}
		}
	}
	if sub := str(m["sub"]); sub != "" {
		return sub
	}
	return str(m["principalId"])
}

func fromBearer(auth string) string {
	token, ok := strings.CutPrefix(strings.TrimSpace(auth), "Bearer ")
	if !ok {
		token, ok = strings.CutPrefix(strings.TrimSpace(auth), "bearer ")
	}
	if !ok {
		return ""
	}
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ""
	}
	var claims map[string]any
	if json.Unmarshal(payload, &claims) != nil {
		return ""
	}
	return str(claims["sub"])
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
