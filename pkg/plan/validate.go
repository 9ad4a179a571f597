// SPDX-License-Identifier: Apache-2.0

package plan

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaDoc []byte

const schemaResourceURL = "pgdiffkit-plan.json"

// compiledSchema is built once: the teacher's internal/jsonschema package
// compiles a schema file straight from disk per test run
// (jsonschema.MustCompile(schemaPath)); here the schema is embedded in the
// binary via go:embed, so Decode must validate regardless of the caller's
// working directory.
var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	var doc interface{}
	if err := json.Unmarshal(schemaDoc, &doc); err != nil {
		panic(fmt.Sprintf("plan: embedded schema.json is invalid JSON: %v", err))
	}
	if err := compiler.AddResource(schemaResourceURL, doc); err != nil {
		panic(fmt.Sprintf("plan: registering embedded schema.json: %v", err))
	}
	sch, err := compiler.Compile(schemaResourceURL)
	if err != nil {
		panic(fmt.Sprintf("plan: compiling embedded schema.json: %v", err))
	}
	return sch
}

// Decode parses data as a Plan JSON artifact, validates it against
// schema.json, and returns the decoded Plan. Used by pkg/apply and the CLI
// when reading a previously-generated plan file back in.
func Decode(data []byte) (*Plan, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("plan: decoding JSON: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("plan: artifact does not match schema: %w", err)
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("plan: decoding into Plan: %w", err)
	}
	return &p, nil
}

// Validate re-validates an already-decoded Plan against schema.json, e.g.
// after a caller constructs or mutates one by hand (filter/serializer
// customization hooks per spec.md §6).
func (p *Plan) Validate() error {
	data, err := p.ToJSON()
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("plan: does not match schema: %w", err)
	}
	return nil
}
