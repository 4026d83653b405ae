// Package catalog loads instrument definitions from embedded and user YAML files.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/huangsam/mindscore/core"
	"github.com/huangsam/mindscore/schema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed instruments/*.yaml
var builtinFS embed.FS

//go:embed definition.schema.json
var definitionSchema []byte

const definitionSchemaURL = "schema://mindscore/definition.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// definitionValidator compiles the embedded definition schema once.
func definitionValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var doc any
		if err := json.Unmarshal(definitionSchema, &doc); err != nil {
			compileErr = fmt.Errorf("parse definition schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(definitionSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(definitionSchemaURL)
	})
	return compiled, compileErr
}

// Parse validates a YAML document against the definition schema and decodes it.
// Questions without an explicit index are numbered from 1 in document order.
func Parse(data []byte, source string) (schema.AssessmentDefinition, error) {
	var def schema.AssessmentDefinition

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return def, fmt.Errorf("%s: invalid YAML: %w", source, err)
	}
	value, err := toJSONValue(doc)
	if err != nil {
		return def, fmt.Errorf("%s: %w", source, err)
	}

	validator, err := definitionValidator()
	if err != nil {
		return def, err
	}
	if err := validator.Validate(value); err != nil {
		return def, fmt.Errorf("%s: schema validation failed: %w", source, err)
	}

	if err := yaml.Unmarshal(data, &def); err != nil {
		return def, fmt.Errorf("%s: decode definition: %w", source, err)
	}
	for i := range def.Questions {
		if def.Questions[i].Index == 0 {
			def.Questions[i].Index = i + 1
		}
	}
	return def, nil
}

// toJSONValue turns a YAML-decoded value into the shape produced by encoding/json,
// which is what the schema validator expects.
func toJSONValue(doc any) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert YAML to JSON: %w", err)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("convert YAML to JSON: %w", err)
	}
	return value, nil
}

// Builtin returns the embedded instrument definitions ordered by file name.
func Builtin() ([]schema.AssessmentDefinition, error) {
	names, err := fs.Glob(builtinFS, "instruments/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	defs := make([]schema.AssessmentDefinition, 0, len(names))
	for _, name := range names {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		def, err := Parse(data, path.Base(name))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Load returns the built-in definitions plus any user files.
// A user definition replaces a built-in one with the same key.
func Load(extraFiles ...string) ([]schema.AssessmentDefinition, error) {
	defs, err := Builtin()
	if err != nil {
		return nil, err
	}

	position := make(map[string]int, len(defs))
	for i, d := range defs {
		position[d.Key] = i
	}

	for _, file := range extraFiles {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read instrument file: %w", err)
		}
		def, err := Parse(data, file)
		if err != nil {
			return nil, err
		}
		if i, ok := position[def.Key]; ok {
			defs[i] = def
			continue
		}
		position[def.Key] = len(defs)
		defs = append(defs, def)
	}
	return defs, nil
}

// NewRegistry loads the catalog and builds a validated registry from it.
func NewRegistry(extraFiles ...string) (*core.Registry, error) {
	defs, err := Load(extraFiles...)
	if err != nil {
		return nil, err
	}
	return core.NewRegistry(defs...)
}
