package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadFile(t *testing.T) {
	assert.NoError(t, UploadFile("data:image/png;base64,aGk="))
	assert.EqualError(t, UploadFile("  "), "file required")
}

func TestUploadName(t *testing.T) {
	assert.NoError(t, UploadName(""))
	assert.NoError(t, UploadName("../cat.png"))
	assert.Error(t, UploadName(strings.Repeat("a", 1025)))
}

func TestSearchQuery(t *testing.T) {
	assert.NoError(t, SearchQuery("SALE"))
	assert.NoError(t, SearchQuery(`a" OR *:*`))
	assert.EqualError(t, SearchQuery(""), "q required")
}

func TestImageID(t *testing.T) {
	assert.NoError(t, ImageID("01J.png"))
	assert.EqualError(t, ImageID(" "), "id required")
}
