package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rendis/procmap/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a definition file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the definition format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", schema.NewErrorf(schema.ErrCodeValidation,
			"unsupported definition file %q: want .yaml, .yml or .json", path)
	}
}

// LoadDefinition reads, schema-validates and decodes a definition file.
func LoadDefinition(path string) (*schema.ProcessDefinition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "read definition %s", path).WithCause(err)
	}
	return ParseDefinition(data, format)
}

// ParseDefinition validates raw definition bytes against the process schema
// and decodes them into a ProcessDefinition.
func ParseDefinition(data []byte, format Format) (*schema.ProcessDefinition, error) {
	v, err := NewSchemaValidator()
	if err != nil {
		return nil, err
	}

	var doc any
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "unsupported definition format %q", format)
	}
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "parse %s definition", format).WithCause(err)
	}

	if err := v.ValidateDocument(doc); err != nil {
		return nil, err
	}

	def := &schema.ProcessDefinition{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(def)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(def)
	}
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "decode %s definition", format).WithCause(err)
	}
	return def, nil
}

// MarshalDefinition encodes a definition in the given format.
func MarshalDefinition(def *schema.ProcessDefinition, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(def); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return json.MarshalIndent(def, "", "  ")
	default:
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "unsupported definition format %q", format)
	}
}
