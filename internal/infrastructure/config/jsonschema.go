package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// SchemaID identifies the published config schema.
const SchemaID = "https://github.com/bnema/sitetheme/config.schema.json"

// Schema returns the JSON schema of Config, pretty printed.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:               "toml",
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(&Config{})

	schema.ID = SchemaID
	schema.Title = "sitetheme configuration"
	schema.Description = "Configuration schema for sitetheme, a theme preference manager for static sites"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// WriteSchemaFile writes the schema next to the config file and returns its path.
func WriteSchemaFile(configFile string) (string, error) {
	data, err := Schema()
	if err != nil {
		return "", err
	}

	schemaFile := filepath.Join(filepath.Dir(configFile), "config.schema.json")
	if err := os.MkdirAll(filepath.Dir(schemaFile), dirPerm); err != nil {
		return "", fmt.Errorf("failed to create schema directory: %w", err)
	}
	if err := os.WriteFile(schemaFile, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write schema file: %w", err)
	}
	return schemaFile, nil
}
