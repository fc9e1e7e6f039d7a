package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaBase = "https://lifelogger.app/schemas/"

// Schema names, one per request body.
const (
	SchemaTask           = schemaBase + "task.json"
	SchemaReorder        = schemaBase + "reorder.json"
	SchemaComplete       = schemaBase + "complete.json"
	SchemaFootnote       = schemaBase + "footnote.json"
	SchemaVerifyPassword = schemaBase + "verify-password.json"
)

var schemaSources = map[string]string{
	SchemaTask: `{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string"}}
	}`,
	SchemaReorder: `{
		"type": "object",
		"required": ["taskIds"],
		"properties": {
			"taskIds": {
				"type": "array",
				"items": {
					"oneOf": [
						{"type": "integer"},
						{"type": "string", "pattern": "^[0-9]+$"}
					]
				}
			}
		}
	}`,
	SchemaComplete: `{
		"type": "object",
		"properties": {"date": {"type": ["string", "null"]}}
	}`,
	SchemaFootnote: `{
		"type": "object",
		"properties": {
			"footnote": {"type": ["string", "null"]},
			"date": {"type": ["string", "null"]}
		}
	}`,
	SchemaVerifyPassword: `{
		"type": "object",
		"properties": {"password": {"type": ["string", "null"]}}
	}`,
}

// Validator checks request bodies against the compiled schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every request schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	for name, src := range schemaSources {
		if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
			return nil, fmt.Errorf("adding schema %s: %w", name, err)
		}
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(schemaSources))}
	for name := range schemaSources {
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", name, err)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

// MustNewValidator panics if a schema does not compile.
func MustNewValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Decode validates body against the named schema and unmarshals it into dst.
func (v *Validator) Decode(name string, body []byte, dst interface{}) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %s", name)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}
