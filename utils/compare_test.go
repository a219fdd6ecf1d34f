package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareInterfaceValue(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		a, b   any
		output int
	}{
		{name: "both nil", a: nil, b: nil, output: 0},
		{name: "nil a is smaller", a: nil, b: 1, output: -1},
		{name: "nil b is bigger", a: 1, b: nil, output: 1},
		{name: "int less", a: 1, b: 2, output: -1},
		{name: "int equal", a: 5, b: 5, output: 0},
		{name: "int greater", a: int64(10), b: int32(2), output: 1},
		{name: "float less", a: 1.5, b: 2.5, output: -1},
		{name: "float equal within epsilon", a: 1.0000001, b: 1.0000002, output: 0},
		{name: "int vs float", a: 2, b: 2.5, output: -1},
		{name: "float vs int", a: 2.5, b: 2, output: 1},
		{name: "string less", a: "abc", b: "abd", output: -1},
		{name: "string equal", a: "same", b: "same", output: 0},
		{name: "time before", a: now, b: now.Add(time.Second), output: -1},
		{name: "time equal", a: now, b: now, output: 0},
		{name: "bool false less than true", a: false, b: true, output: -1},
		{
			name:   "rfc3339 strings order chronologically",
			a:      "2024-01-02T00:00:00Z",
			b:      "2024-01-10T00:00:00Z",
			output: -1,
		},
		{
			name:   "time against rfc3339 string",
			a:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			b:      "2024-02-01T00:00:00Z",
			output: 1,
		},
		{
			name:   "fractional second after whole second",
			a:      "2024-06-01T10:30:00.5Z",
			b:      "2024-06-01T10:30:00Z",
			output: 1,
		},
		{
			name:   "mixed fraction widths order chronologically",
			a:      "2024-06-01T10:30:00.25Z",
			b:      "2024-06-01T10:30:00.5Z",
			output: -1,
		},
		{
			name:   "offset timestamp against utc",
			a:      "2024-06-01T12:30:00+02:00",
			b:      "2024-06-01T10:30:00Z",
			output: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.output, CompareInterfaceValue(tc.a, tc.b))
		})
	}
}
