package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFieldMapPlainJSON(t *testing.T) {
	fieldMap, err := ExtractFieldMap(`{"username": "admin", "password": "s3cret"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"username": "admin", "password": "s3cret"}, fieldMap)
}

func TestExtractFieldMapIgnoresSurroundingProse(t *testing.T) {
	response := "Here is the mapping you asked for:\n```json\n{\"host\": \"db.local\"}\n```\nLet me know if you need anything else."

	fieldMap, err := ExtractFieldMap(response)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"host": "db.local"}, fieldMap)
}

func TestExtractFieldMapCoercesNonStrings(t *testing.T) {
	fieldMap, err := ExtractFieldMap(`{"port": 6379, "tls": true, "empty": null}`)
	require.NoError(t, err)
	assert.Equal(t, "6379", fieldMap["port"])
	assert.Equal(t, "true", fieldMap["tls"])
	_, present := fieldMap["empty"]
	assert.False(t, present)
}

func TestExtractFieldMapNoObject(t *testing.T) {
	_, err := ExtractFieldMap("I could not find any matching fields.")
	assert.ErrorIs(t, err, ErrNoFieldMap)
}

func TestExtractFieldMapMalformedJSON(t *testing.T) {
	_, err := ExtractFieldMap(`{"username": "admin",}`)
	assert.Error(t, err)
}
