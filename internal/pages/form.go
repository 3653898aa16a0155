package pages

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FieldKind is the JSON type a form field accepts.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindNumber FieldKind = "number"
	KindList   FieldKind = "list"
)

// Field describes one input of a page form.
type Field struct {
	Name     string    `json:"name"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"` // allowed values; for lists, allowed items
	Default  any       `json:"default,omitempty"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
}

// Form is the input contract of a page's submit operation.
type Form struct {
	Page   ID      `json:"page"`
	Fields []Field `json:"fields"`
	schema string
}

// InputError lists every reason an input map was rejected.
type InputError struct {
	Page   ID
	Fields []string
	Errors []string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("page %s input invalid: %s", e.Page, strings.Join(e.Errors, "; "))
}

// Schema returns the JSON schema inputs are validated against.
func (f *Form) Schema() string {
	return f.schema
}

// Field returns the named field definition.
func (f *Form) Field(name string) (Field, bool) {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Validate fills in defaults for absent fields, then checks inputs against the
// form schema. The returned map is a normalized copy; inputs is not modified.
func (f *Form) Validate(inputs map[string]any) (map[string]any, error) {
	normalized := make(map[string]any, len(f.Fields))
	for k, v := range inputs {
		normalized[k] = v
	}
	for _, fd := range f.Fields {
		if _, ok := normalized[fd.Name]; !ok && fd.Default != nil {
			normalized[fd.Name] = fd.Default
		}
	}

	schemaLoader := gojsonschema.NewStringLoader(f.Schema())
	documentLoader := gojsonschema.NewGoLoader(normalized)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		inErr := &InputError{Page: f.Page}
		for _, re := range result.Errors() {
			field := re.Field()
			if field == "(root)" {
				if prop, ok := re.Details()["property"].(string); ok {
					field = prop
				}
			}
			inErr.Fields = append(inErr.Fields, field)
			inErr.Errors = append(inErr.Errors, re.String())
		}
		return nil, inErr
	}

	return normalized, nil
}

// ParseText converts free-text key/value pairs, as typed on a command line, into
// typed inputs: numbers for number fields and comma-separated lists for list fields.
// Unknown keys are passed through as strings so schema validation can reject them.
func (f *Form) ParseText(pairs map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for key, raw := range pairs {
		fd, ok := f.Field(key)
		if !ok {
			out[key] = raw
			continue
		}
		switch fd.Kind {
		case KindNumber:
			n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, &InputError{Page: f.Page, Fields: []string{key}, Errors: []string{fmt.Sprintf("%s: expected a number, got %q", key, raw)}}
			}
			out[key] = n
		case KindList:
			items := []any{}
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" {
					items = append(items, part)
				}
			}
			out[key] = items
		default:
			out[key] = raw
		}
	}
	return out, nil
}

func buildSchema(fields []Field) string {
	props := make(map[string]any, len(fields))
	var required []string
	for _, fd := range fields {
		prop := map[string]any{}
		switch fd.Kind {
		case KindNumber:
			prop["type"] = "number"
			if fd.Min != nil {
				prop["minimum"] = *fd.Min
			}
			if fd.Max != nil {
				prop["maximum"] = *fd.Max
			}
		case KindList:
			items := map[string]any{"type": "string"}
			if len(fd.Options) > 0 {
				items["enum"] = fd.Options
			}
			prop["type"] = "array"
			prop["items"] = items
			prop["uniqueItems"] = true
		default:
			prop["type"] = "string"
			if len(fd.Options) > 0 {
				prop["enum"] = fd.Options
			}
			if fd.Required {
				prop["minLength"] = 1
			}
		}
		props[fd.Name] = prop
		if fd.Required {
			required = append(required, fd.Name)
		}
	}
	sort.Strings(required)

	schema := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	data, err := json.Marshal(schema)
	if err != nil {
		// Only plain maps, strings and numbers are marshaled here.
		panic(fmt.Sprintf("pages: marshal schema: %v", err))
	}
	return string(data)
}
