package types

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/xitongsys/parquet-go/parquet"
)

type DataType string

const (
	Null           DataType = "null"
	Bool           DataType = "boolean"
	Int32          DataType = "integer_small"
	Int64          DataType = "integer"
	Float32        DataType = "number_small"
	Float64        DataType = "number"
	String         DataType = "string"
	Object         DataType = "object"
	Array          DataType = "array"
	Unknown        DataType = "unknown"
	Timestamp      DataType = "timestamp"
	TimestampMilli DataType = "timestamp_milli" // datetime upto 3 precisions
	TimestampMicro DataType = "timestamp_micro" // datetime upto 6 precisions
	TimestampNano  DataType = "timestamp_nano"  // datetime upto 9 precisions
)

// Record is one mapped, schema-conformant unit of output data.
type Record map[string]any

func (r Record) GetStringifiedJSONValue(key string) (string, error) {
	value := r[key]
	switch value.(type) {
	case struct{}, map[string]interface{}, []interface{}:
		s, err := json.Marshal(value)
		return string(s), err
	default:
		return fmt.Sprintf("%v", r[key]), nil
	}
}

func (d DataType) IsTimestamp() bool {
	switch d {
	case Timestamp, TimestampMilli, TimestampMicro, TimestampNano:
		return true
	default:
		return false
	}
}

// returns parquet equivalent type & convertedType for the datatype
func (d DataType) getParquetEquivalent() (parquet.Type, parquet.ConvertedType) {
	switch d {
	case Int32:
		return parquet.Type_INT32, parquet.ConvertedType_INT_32
	case Int64:
		return parquet.Type_INT64, parquet.ConvertedType_INT_64
	case Float32, Float64:
		return parquet.Type_DOUBLE, -1
	case String:
		return parquet.Type_BYTE_ARRAY, parquet.ConvertedType_UTF8
	case Bool:
		return parquet.Type_BOOLEAN, -1
	case Timestamp, TimestampMilli:
		return parquet.Type_INT64, parquet.ConvertedType_TIMESTAMP_MILLIS
	case TimestampMicro, TimestampNano:
		return parquet.Type_INT64, parquet.ConvertedType_TIMESTAMP_MICROS
	default:
		return parquet.Type_BYTE_ARRAY, parquet.ConvertedType_JSON
	}
}

// values of composite types are serialized to JSON text before hitting parquet
func (d DataType) stringificationNeeded() bool {
	switch d {
	case Object, Array, Unknown:
		return true
	default:
		return false
	}
}
