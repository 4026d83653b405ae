package contract

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/huangsam/mindscore/schema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// RequestKind names an embedded request schema.
type RequestKind string

// All request kinds supported.
const (
	ScoreRequestKind   RequestKind = "score_request"
	TrendRequestKind   RequestKind = "trend_request"
	InsightRequestKind RequestKind = "insight_request"
)

//go:embed schemas/*.json
var requestSchemas embed.FS

// schemaCache caches compiled request schemas by kind.
var schemaCache sync.Map // map[RequestKind]*jsonschema.Schema

// RequestError indicates a malformed request body or file.
type RequestError struct {
	Kind RequestKind
	Err  error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(kind RequestKind) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(kind); ok {
		return cached.(*jsonschema.Schema), nil
	}

	raw, err := requestSchemas.ReadFile("schemas/" + string(kind) + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown request kind %q: %w", kind, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", kind, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://mindscore/%s.json", kind)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(kind, compiled)
	return compiled, nil
}

// DecodeRequest parses a JSON or YAML document, validates it against the
// schema for kind and decodes it into T. Numbers inside untyped fields are
// kept as json.Number.
func DecodeRequest[T any](data []byte, kind RequestKind) (T, error) {
	var out T

	normalized, err := toJSON(data)
	if err != nil {
		return out, &RequestError{Kind: kind, Err: err}
	}

	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(normalized))
	if err != nil {
		return out, &RequestError{Kind: kind, Err: err}
	}
	compiled, err := getCompiledSchema(kind)
	if err != nil {
		return out, err
	}
	if err := compiled.Validate(value); err != nil {
		return out, &RequestError{Kind: kind, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return out, &RequestError{Kind: kind, Err: err}
	}
	return out, nil
}

// toJSON returns JSON input unchanged and converts anything else from YAML.
func toJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("invalid JSON")
		}
		return trimmed, nil
	}

	var doc any
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert YAML to JSON: %w", err)
	}
	return out, nil
}

// DecodeScoreRequest decodes and validates a score request.
func DecodeScoreRequest(data []byte) (schema.ScoreRequest, error) {
	return DecodeRequest[schema.ScoreRequest](data, ScoreRequestKind)
}

// DecodeTrendRequest decodes and validates a trend request.
func DecodeTrendRequest(data []byte) (schema.TrendRequest, error) {
	return DecodeRequest[schema.TrendRequest](data, TrendRequestKind)
}

// DecodeInsightRequest decodes and validates an insight request.
func DecodeInsightRequest(data []byte) (schema.InsightRequest, error) {
	return DecodeRequest[schema.InsightRequest](data, InsightRequestKind)
}

// ReadRequestFile reads a request document from a file, or from stdin when path is "-".
func ReadRequestFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
