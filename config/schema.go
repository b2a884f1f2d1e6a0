package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	validation "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "https://risor.io/schemas/tic-config.json"

// Schema returns the JSON schema of Config.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:             true,
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(&Config{})
	schema.ID = schemaURL
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return out, nil
}

// CheckDocument validates a YAML or JSON configuration document against the
// schema, before any defaults are applied.
func CheckDocument(doc []byte) error {
	raw, err := Schema()
	if err != nil {
		return err
	}
	compiler := validation.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var parsed any
	if err := yaml.Unmarshal(doc, &parsed); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if parsed == nil {
		parsed = map[string]any{}
	}
	// Round trip through JSON so numbers and maps have the types the
	// validator expects.
	encoded, err := json.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return schema.Validate(value)
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
