package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, SchemaID, doc["$id"])

	text := string(data)
	for _, want := range []string{"day_start", "check_interval", "prefers_dark", "css_path", "closing_delay", `"sqlite"`} {
		assert.Contains(t, text, want)
	}
}

func TestWriteSchemaFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSchemaFile(filepath.Join(dir, "nested", "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "nested", "config.schema.json"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}
