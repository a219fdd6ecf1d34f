package utils

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/siphondata/siphon/constants"
)

// CompareInterfaceValue returns 0 for equal, -1 if a < b else 1 if a > b.
// Mismatched types fall back to lexicographic comparison of their string
// forms; RFC3339 strings are normalized to a fixed-width fraction first,
// since "10:30:00.5Z" sorts before "10:30:00Z" byte-wise but not in time.
func CompareInterfaceValue(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	switch aVal := a.(type) {
	case uint, uint8, uint16, uint32, uint64:
		switch b.(type) {
		case uint, uint8, uint16, uint32, uint64:
			aUint := reflect.ValueOf(a).Convert(reflect.TypeFor[uint64]()).Uint()
			bUint := reflect.ValueOf(b).Convert(reflect.TypeFor[uint64]()).Uint()
			if aUint < bUint {
				return -1
			} else if aUint > bUint {
				return 1
			}
			return 0
		}
	case int, int8, int16, int32, int64:
		switch b.(type) {
		case float32, float64:
			return -CompareInterfaceValue(b, a)
		case int, int8, int16, int32, int64:
			aInt := reflect.ValueOf(a).Convert(reflect.TypeFor[int64]()).Int()
			bInt := reflect.ValueOf(b).Convert(reflect.TypeFor[int64]()).Int()
			if aInt < bInt {
				return -1
			} else if aInt > bInt {
				return 1
			}
			return 0
		}
	case float32, float64:
		switch b.(type) {
		case float32, float64, int, int8, int16, int32, int64:
			aFloat := reflect.ValueOf(a).Convert(reflect.TypeFor[float64]()).Float()
			bFloat := reflect.ValueOf(b).Convert(reflect.TypeFor[float64]()).Float()

			if math.IsNaN(aFloat) {
				if math.IsNaN(bFloat) {
					return 0
				}
				return -1
			}
			if math.IsNaN(bFloat) {
				return 1
			}

			const eps = 1e-6
			diff := aFloat - bFloat
			if math.Abs(diff) < eps {
				return 0
			} else if diff < 0 {
				return -1
			}
			return 1
		}
	case time.Time:
		if bTime, ok := b.(time.Time); ok {
			return aVal.Compare(bTime)
		}
	case bool:
		if bBool, ok := b.(bool); ok {
			// false < true
			if !aVal && bBool {
				return -1
			} else if aVal && !bBool {
				return 1
			}
			return 0
		}
	}

	return strings.Compare(stringify(a), stringify(b))
}

func stringify(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(constants.CursorTimeLayout)
	}

	s := fmt.Sprintf("%v", v)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC().Format(constants.CursorTimeLayout)
	}

	return s
}
