package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"llm-workflow/internal/domain/entity"

	"github.com/google/jsonschema-go/jsonschema"
)

var errUnresolvable = errors.New("schema cannot be resolved")

// SchemaFor infers a JSON schema from T. Struct fields without omitempty are
// required and unknown properties are rejected.
func SchemaFor[T any]() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("infer schema: %w", err)
	}
	return schema, nil
}

func OutputSchemaFor[T any](name, description string) (*entity.OutputSchema, error) {
	schema, err := SchemaFor[T]()
	if err != nil {
		return nil, err
	}
	return &entity.OutputSchema{
		Name:        name,
		Description: description,
		Schema:      schema,
	}, nil
}

// DecodeStructured validates content against the output schema and decodes it
// into out. out is left untouched on failure. A nil schema only requires
// content to be valid JSON for out.
func DecodeStructured(schema *entity.OutputSchema, content string, out any) error {
	const op = "decode structured output"

	var s *jsonschema.Schema
	if schema != nil {
		s = schema.Schema
	}

	var target reflect.Value
	var dst any
	if out != nil {
		rv := reflect.ValueOf(out)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			return entity.NewError(entity.KindInvalidRequest, op, fmt.Sprintf("output target must be a non-nil pointer, got %T", out))
		}
		target = rv.Elem()
		dst = reflect.New(target.Type()).Interface()
	}

	if err := validateAndDecode(s, []byte(strings.TrimSpace(content)), dst); err != nil {
		if errors.Is(err, errUnresolvable) {
			return entity.WrapError(err, entity.KindInvalidRequest, op, "")
		}
		return entity.WrapError(err, entity.KindSchemaMismatch, op, "")
	}

	if dst != nil {
		target.Set(reflect.ValueOf(dst).Elem())
	}
	return nil
}

// DecodeArguments validates raw tool arguments against schema and decodes them
// into a T. Empty arguments are treated as an empty object.
func DecodeArguments[T any](schema *jsonschema.Schema, raw string) (T, error) {
	const op = "decode tool arguments"

	var args T
	data := []byte(strings.TrimSpace(raw))
	if len(data) == 0 {
		data = []byte("{}")
	}

	var decoded T
	if err := validateAndDecode(schema, data, &decoded); err != nil {
		if errors.Is(err, errUnresolvable) {
			return args, entity.WrapError(err, entity.KindInvalidRequest, op, "")
		}
		return args, entity.WrapError(err, entity.KindInvalidArguments, op, "")
	}
	return decoded, nil
}

func validateAndDecode(schema *jsonschema.Schema, data []byte, out any) error {
	if len(data) == 0 {
		return errors.New("empty content")
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}

	if schema != nil {
		resolved, err := schema.Resolve(nil)
		if err != nil {
			return fmt.Errorf("%w: %v", errUnresolvable, err)
		}
		if err := resolved.Validate(instance); err != nil {
			return err
		}
	}

	if out == nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
