package enrollment

import (
	"encoding/json"
	"math"
	"strconv"
)

// jsonKind classifies a decoded JSON value.
type jsonKind int

const (
	kindNull jsonKind = iota
	kindNumber
	kindString
	kindBool
	kindObject
	kindArray
	kindOther
)

func (k jsonKind) String() string {
	switch k {
	case kindNull:
		return "null"
	case kindNumber:
		return "number"
	case kindString:
		return "string"
	case kindBool:
		return "boolean"
	case kindObject:
		return "object"
	case kindArray:
		return "array"
	default:
		return "unknown"
	}
}

func kindOf(v interface{}) jsonKind {
	switch v.(type) {
	case nil:
		return kindNull
	case float64, float32, json.Number, int, int32, int64:
		return kindNumber
	case string:
		return kindString
	case bool:
		return kindBool
	case map[string]interface{}:
		return kindObject
	case []interface{}:
		return kindArray
	default:
		return kindOther
	}
}

// asInt reads an integer from a number or a numeric string. Fractional
// numbers do not count as integers.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return fromInt64(n)
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return fromInt64(i)
		}
		if f, err := n.Float64(); err == nil {
			return fromFloat(f)
		}
		return 0, false
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func fromInt64(i int64) (int, bool) {
	if int64(int(i)) != i {
		return 0, false
	}
	return int(i), true
}

func fromFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return fromInt64(int64(f))
}

// asString accepts only JSON strings; other types are malformed for text fields.
func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// scalarText renders a number or boolean as text. Strings pass through;
// objects, arrays and null have no text form.
func scalarText(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	case int:
		return strconv.Itoa(s), true
	case int32:
		return strconv.FormatInt(int64(s), 10), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

// truncInt reads a finite number and drops its fractional part.
func truncInt(v interface{}) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return fromFloat(math.Trunc(f))
}
