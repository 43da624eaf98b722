package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bound is a parameter range endpoint: a literal number, or a reference to
// an earlier parameter when Ref is set.
type Bound struct {
	Ref   string
	Value float64
}

// Literal returns a numeric bound.
func Literal(value float64) Bound {
	return Bound{Value: value}
}

// Ref returns a bound that takes the value of an earlier parameter.
func Ref(name string) Bound {
	return Bound{Ref: name}
}

// IsRef reports whether the bound references another parameter.
func (bound Bound) IsRef() bool {
	return bound.Ref != ""
}

func (bound Bound) String() string {
	if bound.IsRef() {
		return bound.Ref
	}
	return strconv.FormatFloat(bound.Value, 'g', -1, 64)
}

// MarshalJSON writes references as strings and literals as numbers.
func (bound Bound) MarshalJSON() ([]byte, error) {
	if bound.IsRef() {
		return json.Marshal(bound.Ref)
	}
	if math.IsNaN(bound.Value) || math.IsInf(bound.Value, 0) {
		return nil, fmt.Errorf("bound %v is not finite", bound.Value)
	}
	return json.Marshal(bound.Value)
}

// UnmarshalJSON accepts a number or a parameter name.
func (bound *Bound) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var ref string
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*bound = boundFromText(ref)
		return nil
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("bound must be a number or a parameter name: %w", err)
	}
	*bound = Literal(value)
	return nil
}

// UnmarshalYAML accepts a number or a parameter name.
func (bound *Bound) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: bound must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!int", "!!float":
		var value float64
		if err := node.Decode(&value); err != nil {
			return err
		}
		*bound = Literal(value)
	default:
		*bound = boundFromText(node.Value)
	}
	return nil
}

// boundFromText treats numeric strings as literals, since hand-written
// catalogs sometimes quote numbers.
func boundFromText(text string) Bound {
	text = strings.TrimSpace(text)
	if value, err := strconv.ParseFloat(text, 64); err == nil {
		return Literal(value)
	}
	return Ref(text)
}

// Params is the ordered list of parameter specs. Declaration order is the
// generation order, so the JSON object and YAML mapping forms are decoded
// preserving key order.
type Params []ParamSpec

// Names returns the parameter names in declaration order.
func (params Params) Names() []string {
	names := make([]string, 0, len(params))
	for _, param := range params {
		names = append(names, param.Name)
	}
	return names
}

// Param returns the spec of the named parameter.
func (params Params) Param(name string) (ParamSpec, bool) {
	for _, param := range params {
		if param.Name == name {
			return param, true
		}
	}
	return ParamSpec{}, false
}

// MarshalJSON writes the params as an object keyed by name, in order.
func (params Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range params {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(param.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(param)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by parameter name, keeping order.
func (params *Params) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	tok, err := decoder.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*params = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("params must be an object keyed by parameter name")
	}
	var out Params
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return fmt.Errorf("param %q: %w", name, err)
		}
		spec, err := decodeParamJSON(raw)
		if err != nil {
			return fmt.Errorf("param %q: %w", name, err)
		}
		spec.Name = name
		out = append(out, spec)
	}
	if _, err := decoder.Token(); err != nil {
		return err
	}
	*params = out
	return nil
}

func decodeParamJSON(raw json.RawMessage) (ParamSpec, error) {
	var spec ParamSpec
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&spec); err != nil {
		return ParamSpec{}, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return ParamSpec{}, fmt.Errorf("unexpected trailing data")
	}
	return spec, nil
}

var paramKeys = map[string]bool{"min": true, "max": true, "type": true}

// UnmarshalYAML reads a mapping keyed by parameter name, keeping order.
func (params *Params) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: params must be a mapping keyed by parameter name", node.Line)
	}
	out := make(Params, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if valueNode.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: param %q must be a mapping", valueNode.Line, keyNode.Value)
		}
		for j := 0; j+1 < len(valueNode.Content); j += 2 {
			if field := valueNode.Content[j]; !paramKeys[field.Value] {
				return fmt.Errorf("line %d: field %s not found in param %q", field.Line, field.Value, keyNode.Value)
			}
		}
		var spec ParamSpec
		if err := valueNode.Decode(&spec); err != nil {
			return fmt.Errorf("param %q: %w", keyNode.Value, err)
		}
		spec.Name = keyNode.Value
		out = append(out, spec)
	}
	*params = out
	return nil
}
