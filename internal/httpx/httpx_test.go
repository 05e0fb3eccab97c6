package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_SetsCORSAndContentType(t *testing.T) {
	resp, err := JSON(http.StatusOK, map[string]string{"message": "ok"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.JSONEq(t, `{"message":"ok"}`, resp.Body)
}

func TestError(t *testing.T) {
	resp, err := Error(http.StatusBadRequest, "missing q")
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.JSONEq(t, `{"error":"missing q"}`, resp.Body)
}

func TestRaw_PassesBodyThrough(t *testing.T) {
	body := `{"hits":{"hits":[]}}`
	resp := Raw(http.StatusOK, body)
	assert.Equal(t, body, resp.Body)
}

func TestPreflight(t *testing.T) {
	resp := Preflight()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Empty(t, resp.Body)
}

func TestHeader_CaseInsensitive(t *testing.T) {
	h := map[string]string{"authorization": "Bearer x"}
	assert.Equal(t, "Bearer x", Header(h, "Authorization"))
	assert.Empty(t, Header(h, "X-User-Sub"))
	assert.Empty(t, Header(nil, "X-User-Sub"))
}
