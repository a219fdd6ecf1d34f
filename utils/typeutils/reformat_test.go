package typeutils

import (
	"testing"
	"time"

	"github.com/siphondata/siphon/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReformat_GetFirstNotNullType(t *testing.T) {
	tests := []struct {
		name   string
		input  []types.DataType
		output types.DataType
	}{
		{
			name:   "single non-null type",
			input:  []types.DataType{types.String},
			output: types.String,
		},
		{
			name:   "first non-null type mixed array",
			input:  []types.DataType{types.Null, types.Int32, types.String},
			output: types.Int32,
		},
		{
			name:   "all null types",
			input:  []types.DataType{types.Null, types.Null},
			output: types.Null,
		},
		{
			name:   "empty array",
			input:  []types.DataType{},
			output: types.Null,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := getFirstNotNullType(tc.input)
			assert.Equal(t, tc.output, result)
		})
	}
}

func TestReformat_ReformatValue(t *testing.T) {
	tests := []struct {
		name         string
		datatype     types.DataType
		value        any
		output       any
		outputErr    bool
		outputErrMsg string
	}{
		{
			name:         "null type returns error",
			datatype:     types.Null,
			value:        "any value",
			outputErr:    true,
			outputErrMsg: "null value",
		},
		{
			name:     "nil value passes through",
			datatype: types.String,
			value:    nil,
			output:   nil,
		},
		{
			name:     "bool from bool",
			datatype: types.Bool,
			value:    true,
			output:   true,
		},
		{
			name:     "bool from int 0",
			datatype: types.Bool,
			value:    0,
			output:   false,
		},
		{
			name:     "bool from string",
			datatype: types.Bool,
			value:    "true",
			output:   true,
		},
		{
			name:     "int64 from int32",
			datatype: types.Int64,
			value:    int32(42),
			output:   int64(42),
		},
		{
			name:     "int64 from string",
			datatype: types.Int64,
			value:    "42",
			output:   int64(42),
		},
		{
			name:     "int64 from float64 truncates",
			datatype: types.Int64,
			value:    float64(42.7),
			output:   int64(42),
		},
		{
			name:     "int32 from string",
			datatype: types.Int32,
			value:    "42",
			output:   int32(42),
		},
		{
			name:     "float64 from string",
			datatype: types.Float64,
			value:    "3.14",
			output:   float64(3.14),
		},
		{
			name:     "float64 from int",
			datatype: types.Float64,
			value:    42,
			output:   float64(42),
		},
		{
			name:     "float32 from float64",
			datatype: types.Float32,
			value:    float64(3.14),
			output:   float32(3.14),
		},
		{
			name:     "string from int",
			datatype: types.String,
			value:    42,
			output:   "42",
		},
		{
			name:     "string from bytes",
			datatype: types.String,
			value:    []byte("hello"),
			output:   "hello",
		},
		{
			name:     "timestamp from string",
			datatype: types.Timestamp,
			value:    "2023-01-01T12:00:00Z",
			output:   time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "timestamp from unix seconds",
			datatype: types.Timestamp,
			value:    int64(1672574400),
			output:   time.Unix(1672574400, 0),
		},
		{
			name:     "array from single value",
			datatype: types.Array,
			value:    42,
			output:   []any{42},
		},
		{
			name:     "unknown type passes through",
			datatype: types.Unknown,
			value:    "some value",
			output:   "some value",
		},
		{
			name:         "int64 from garbage string",
			datatype:     types.Int64,
			value:        "not-a-number",
			outputErr:    true,
			outputErrMsg: "failed to reformat",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ReformatValue(tc.datatype, tc.value)
			if tc.outputErr {
				assert.Error(t, err)
				if tc.outputErrMsg != "" {
					assert.Contains(t, err.Error(), tc.outputErrMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.output, result)
			}
		})
	}
}

func TestReformat_ReformatValueOnDataTypes(t *testing.T) {
	tests := []struct {
		name      string
		datatypes []types.DataType
		value     any
		output    any
	}{
		{
			name:      "uses first non-null type",
			datatypes: []types.DataType{types.Null, types.Int64, types.String},
			value:     "42",
			output:    int64(42),
		},
		{
			name:      "all null types",
			datatypes: []types.DataType{types.Null, types.Null},
			value:     "23",
			output:    nil,
		},
		{
			name:      "single type",
			datatypes: []types.DataType{types.String},
			value:     42,
			output:    "42",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ReformatValueOnDataTypes(tc.datatypes, tc.value)
			if tc.output == nil {
				assert.Error(t, err)
				assert.Equal(t, ErrNullValue, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.output, result)
			}
		})
	}
}

func TestReformat_FormatCursorValue(t *testing.T) {
	ts := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-01T10:30:00.000000000Z", FormatCursorValue(ts))
	assert.Equal(t, "2024-06-01T10:30:00.000000000Z", FormatCursorValue(Time{ts}))
	assert.Equal(t, int64(5), FormatCursorValue(int64(5)))
	assert.Equal(t, "plain", FormatCursorValue("plain"))

	// the fraction prints fixed-width, so a later instant with a shorter
	// decimal form still sorts after an earlier one byte-wise
	later := FormatCursorValue(ts.Add(500 * time.Millisecond)).(string)
	assert.Greater(t, later, FormatCursorValue(ts).(string))
}
