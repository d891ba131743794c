package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema checks the config against the embedded JSON schema: every section
// and field of the config must be described by the schema and integer bounds must hold
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	root := resolve(&schema, &schema)
	if root == nil || root.Properties == nil {
		return fmt.Errorf("schema has no root properties")
	}
	return verifyObject(&schema, root, configMap, "")
}

func verifyObject(doc, s *jsonschema.Schema, values map[string]any, prefix string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		prop, ok := s.Properties.Get(k)
		if !ok {
			return fmt.Errorf("%s%s is not described by the schema", prefix, k)
		}
		prop = resolve(doc, prop)
		switch v := values[k].(type) {
		case map[string]any:
			if prop.Properties == nil {
				return fmt.Errorf("%s%s is not an object in the schema", prefix, k)
			}
			if err := verifyObject(doc, prop, v, prefix+k+"."); err != nil {
				return err
			}
		case float64:
			if prop.Minimum != "" {
				if minimum, err := prop.Minimum.Float64(); err == nil && v < minimum {
					return fmt.Errorf("%s%s must be at least %v", prefix, k, minimum)
				}
			}
			if prop.Maximum != "" {
				if maximum, err := prop.Maximum.Float64(); err == nil && v > maximum {
					return fmt.Errorf("%s%s must be at most %v", prefix, k, maximum)
				}
			}
		}
	}
	return nil
}

// resolve follows a local $ref to its definition
func resolve(doc, s *jsonschema.Schema) *jsonschema.Schema {
	const prefix = "#/$defs/"
	for s != nil && s.Ref != "" {
		if len(s.Ref) <= len(prefix) || s.Ref[:len(prefix)] != prefix {
			return s
		}
		s = doc.Definitions[s.Ref[len(prefix):]]
	}
	return s
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
