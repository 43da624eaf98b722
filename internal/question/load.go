package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSpec reads, parses, and validates a catalog file. The format is
// chosen by extension: .json, .hcl, and YAML for anything else.
func LoadSpec(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read question catalog: %w", err)
	}
	spec, err := ParseSpec(data, path)
	if err != nil {
		return Spec{}, err
	}
	normalized, err := NormalizeSpec(spec)
	if err != nil {
		return Spec{}, err
	}
	return normalized, nil
}

// Load reads a catalog file and indexes it.
func Load(path string) (*Catalog, error) {
	spec, err := LoadSpec(path)
	if err != nil {
		return nil, err
	}
	return NewCatalog(spec.Questions)
}

// ParseSpec decodes catalog data without validating it. filename selects
// the format and is used in diagnostics.
func ParseSpec(data []byte, filename string) (Spec, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return parseJSONSpec(data)
	case ".hcl":
		return parseHCLSpec(data, filename)
	default:
		return parseYAMLSpec(data)
	}
}

// parseJSONSpec accepts either the versioned object form or a bare array
// of questions, which is implicitly version 1.
func parseJSONSpec(data []byte) (Spec, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var questions []Question
		if err := decodeStrictJSON(trimmed, &questions); err != nil {
			return Spec{}, err
		}
		return Spec{Version: 1, Questions: questions}, nil
	}
	var spec Spec
	if err := decodeStrictJSON(trimmed, &spec); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

func decodeStrictJSON(data []byte, target any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse json: multiple documents are not supported")
		}
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

func parseYAMLSpec(data []byte) (Spec, error) {
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return Spec{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Spec{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return Spec{}, fmt.Errorf("parse yaml: %w", err)
	}
	return spec, nil
}
