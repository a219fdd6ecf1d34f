package typeutils

import (
	"fmt"

	"github.com/siphondata/siphon/types"
)

// SchemaViolationError marks a record missing a required field; the
// record is skipped, the sync continues.
type SchemaViolationError struct {
	Stream string
	Field  string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("record from stream %q violates schema: required field %q missing or null", e.Stream, e.Field)
}

// CoercionError marks a field value that could not be converted to its
// declared datatype.
type CoercionError struct {
	Stream string
	Field  string
	Value  any
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("failed to coerce field %q of stream %q (value %v): %s", e.Field, e.Stream, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// MapRecord projects a raw API object onto the stream schema: declared
// fields are coerced to their datatype, absent optional fields become
// explicit nulls, and fields the schema does not declare are dropped.
func MapRecord(stream types.StreamInterface, raw map[string]any) (types.Record, error) {
	record := make(types.Record)

	var mapErr error
	stream.Schema().Properties.Range(func(key, value any) bool {
		column := key.(string)
		property := value.(*types.Property)

		rawValue, present := raw[column]
		if !present || rawValue == nil {
			if property.Required {
				mapErr = &SchemaViolationError{Stream: stream.Name(), Field: column}
				return false
			}
			record[column] = nil
			return true
		}

		coerced, err := ReformatValueOnDataTypes(property.Type.Array(), rawValue)
		if err != nil {
			mapErr = &CoercionError{Stream: stream.Name(), Field: column, Value: rawValue, Err: err}
			return false
		}

		record[column] = coerced
		return true
	})
	if mapErr != nil {
		return nil, mapErr
	}

	return record, nil
}
