package typeutils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/siphondata/siphon/constants"
	"github.com/siphondata/siphon/types"
)

// ErrNullValue is returned when a value resolves to the null datatype
var ErrNullValue = errors.New("null value")

var stringTimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

func parseStringTimestamp(str string) (time.Time, error) {
	for _, layout := range stringTimestampLayouts {
		if parsed, err := time.Parse(layout, str); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp from string %q", str)
}

func getFirstNotNullType(datatypes []types.DataType) types.DataType {
	for _, datatype := range datatypes {
		if datatype != types.Null {
			return datatype
		}
	}

	return types.Null
}

// ReformatValueOnDataTypes reformats with the first non-null type from the set
func ReformatValueOnDataTypes(datatypes []types.DataType, v any) (any, error) {
	datatype := getFirstNotNullType(datatypes)
	if datatype == types.Null {
		return nil, ErrNullValue
	}

	return ReformatValue(datatype, v)
}

// ReformatValue coerces v into the Go representation of the given datatype.
// A nil value passes through so nullability stays a schema concern.
func ReformatValue(datatype types.DataType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch datatype {
	case types.Null:
		return nil, ErrNullValue
	case types.Bool:
		return ReformatBool(v)
	case types.Int32:
		return ReformatInt32(v)
	case types.Int64:
		return ReformatInt64(v)
	case types.Float32:
		reformatted, err := ReformatFloat64(v)
		if err != nil {
			return nil, err
		}
		return float32(reformatted), nil
	case types.Float64:
		return ReformatFloat64(v)
	case types.String:
		if b, ok := v.([]byte); ok {
			return string(b), nil
		}
		return fmt.Sprintf("%v", v), nil
	case types.Timestamp, types.TimestampMilli, types.TimestampMicro, types.TimestampNano:
		return ReformatDate(v, true)
	case types.Array:
		if arr, ok := v.([]any); ok {
			return arr, nil
		}
		return []any{v}, nil
	case types.Object:
		if obj, ok := v.(map[string]any); ok {
			return obj, nil
		}
		return nil, fmt.Errorf("failed to reformat %v of type %T as object", v, v)
	default:
		return v, nil
	}
}

func ReformatBool(v any) (bool, error) {
	switch booleanValue := v.(type) {
	case bool:
		return booleanValue, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		reformatted, err := ReformatInt64(v)
		if err != nil {
			return false, err
		}
		return reformatted != 0, nil
	case string:
		return strconv.ParseBool(strings.ToLower(booleanValue))
	default:
		return false, fmt.Errorf("failed to reformat %v of type %T as bool", v, v)
	}
}

func ReformatInt64(v any) (int64, error) {
	switch value := v.(type) {
	case bool:
		if value {
			return 1, nil
		}
		return 0, nil
	case int:
		return int64(value), nil
	case int8:
		return int64(value), nil
	case int16:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case int64:
		return value, nil
	case uint:
		return int64(value), nil
	case uint8:
		return int64(value), nil
	case uint16:
		return int64(value), nil
	case uint32:
		return int64(value), nil
	case uint64:
		return int64(value), nil
	case float32:
		return int64(value), nil
	case float64:
		return int64(value), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to reformat %q as int64: %s", value, err)
		}
		return parsed, nil
	case []byte:
		if len(value) == 1 {
			return int64(value[0]), nil
		}
		return strconv.ParseInt(string(value), 10, 64)
	default:
		return 0, fmt.Errorf("failed to reformat %v of type %T as int64", v, v)
	}
}

func ReformatInt32(v any) (int32, error) {
	reformatted, err := ReformatInt64(v)
	if err != nil {
		return 0, err
	}

	return int32(reformatted), nil
}

func ReformatFloat64(v any) (float64, error) {
	switch value := v.(type) {
	case bool:
		if value {
			return 1, nil
		}
		return 0, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		reformatted, err := ReformatInt64(v)
		if err != nil {
			return 0, err
		}
		return float64(reformatted), nil
	case float32:
		return float64(value), nil
	case float64:
		return value, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, fmt.Errorf("failed to reformat %q as float64: %s", value, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("failed to reformat %v of type %T as float64", v, v)
	}
}

// ReformatDate converts v into a time.Time. Integers are treated as unix
// seconds when unixAllowed is set.
func ReformatDate(v any, unixAllowed bool) (time.Time, error) {
	switch value := v.(type) {
	case time.Time:
		return value, nil
	case *time.Time:
		if value == nil {
			return time.Time{}, fmt.Errorf("nil time pointer")
		}
		return *value, nil
	case Time:
		return value.Time, nil
	case string:
		return parseStringTimestamp(value)
	case int, int32, int64:
		if !unixAllowed {
			return time.Time{}, fmt.Errorf("failed to reformat %v of type %T as date", v, v)
		}
		seconds, err := ReformatInt64(v)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(seconds, 0), nil
	default:
		return time.Time{}, fmt.Errorf("failed to reformat %v of type %T as date", v, v)
	}
}

// FormatCursorValue normalizes a replication-key value for state
// serialization; timestamps become fixed-width RFC3339 strings so
// persisted and observed cursors of any precision compare
// lexicographically in time order.
func FormatCursorValue(v any) any {
	switch value := v.(type) {
	case time.Time:
		return value.UTC().Format(constants.CursorTimeLayout)
	case Time:
		return value.UTC().Format(constants.CursorTimeLayout)
	default:
		return v
	}
}
