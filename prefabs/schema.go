package prefabs

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.schema.json
var SchemasFS embed.FS

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*jsonschema.Schema{}
)

// Validate checks a YAML prefab against schemas/<name>.schema.json.
// Prefabs without a schema pass.
func Validate(name string, data []byte) error {
	schema, err := schemaFor(name)
	if err != nil || schema == nil {
		return err
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	doc, err := toJSONValue(raw)
	if err != nil {
		return fmt.Errorf("prefabs: convert %s: %w", name, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("prefabs: validate %s: %w", name, err)
	}
	return nil
}

func schemaFor(name string) (*jsonschema.Schema, error) {
	base := strings.TrimSuffix(path.Base(cleanPrefabPath(name)), path.Ext(name))
	file := "schemas/" + base + ".schema.json"

	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[file]; ok {
		return s, nil
	}

	data, err := SchemasFS.ReadFile(file)
	if err != nil {
		schemaCache[file] = nil
		return nil, nil
	}
	url := "file:///prefabs/" + file
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("prefabs: schema %s: %w", file, err)
	}
	s, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("prefabs: schema %s: %w", file, err)
	}
	schemaCache[file] = s
	return s, nil
}

// toJSONValue round-trips a YAML document through JSON so the validator
// sees float64 numbers and string-keyed maps.
func toJSONValue(raw any) (any, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeSpec re-decodes a loosely typed YAML value, such as one returned by
// a script, into T.
func DecodeSpec[T any](raw any) (T, error) {
	var out T
	err := DecodeSpecInto(raw, &out)
	return out, err
}

// DecodeSpecInto decodes raw over dst, leaving fields raw does not mention
// untouched.
func DecodeSpecInto[T any](raw any, dst *T) error {
	if raw == nil || dst == nil {
		return nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, dst)
}
