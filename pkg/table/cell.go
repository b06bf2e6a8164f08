package table

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Cell is a nullable string value. The zero Cell is null.
type Cell struct {
	value string
	valid bool
}

// Null returns a null cell.
func Null() Cell {
	return Cell{}
}

// Value returns a non-null cell holding s.
func Value(s string) Cell {
	return Cell{value: s, valid: true}
}

// IsNull reports whether the cell is null.
func (c Cell) IsNull() bool {
	return !c.valid
}

// IsEmpty reports whether the cell is null or holds the empty string.
func (c Cell) IsEmpty() bool {
	return !c.valid || c.value == ""
}

// String returns the cell text, or "" for a null cell.
func (c Cell) String() string {
	return c.value
}

// MarshalJSON encodes a null cell as JSON null and any other cell as a string.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}

// CellOf converts a decoded JSON value into a cell.
//
// Scalars keep their JSON text. Objects and arrays are rendered in the
// single-quoted wrapper form used by the feeds' value wrapping, so
// {"v": "3.25"} becomes {'v': '3.25'}. Object keys are sorted.
func CellOf(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Null()
	case string:
		return Value(x)
	case map[string]any, []any:
		return Value(nested(x))
	default:
		return Value(scalar(x))
	}
}

func scalar(v any) string {
	switch x := v.(type) {
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func nested(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "'" + x + "'"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = "'" + k + "': " + nested(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = nested(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return scalar(x)
	}
}
