package polls

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tidwall/gjson"
)

// NormalizeArray turns the optionsArray parameter into a list of trimmed, non-empty answers.
// The raw value may be a list, a JSON array string or a comma-separated string. Malformed
// input never fails, it only yields fewer answers.
func NormalizeArray(raw any) []string {
	if isFalsy(raw) {
		return nil
	}
	if items, ok := asSlice(raw); ok {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = appendTrimmed(out, stringify(item))
		}
		return out
	}

	input := strings.TrimSpace(stringify(raw))
	if strings.HasPrefix(input, "[") && gjson.Valid(input) {
		parsed := gjson.Parse(input)
		if !parsed.IsArray() {
			return nil
		}
		elems := parsed.Array()
		out := make([]string, 0, len(elems))
		for _, elem := range elems {
			out = appendTrimmed(out, jsonString(elem))
		}
		return out
	}

	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = appendTrimmed(out, p)
	}
	return out
}

// NormalizeManual extracts optionValue from each {optionValue} record. Unlike NormalizeArray the
// values are not trimmed; only empty strings are dropped.
// TODO: trim manual entries once existing workflows relying on padded answers are migrated.
func NormalizeManual(raw any) []string {
	items, ok := asSlice(raw)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var rec manualOption
		if err := mapstructure.WeakDecode(item, &rec); err != nil {
			continue
		}
		if rec.OptionValue == "" {
			continue
		}
		out = append(out, rec.OptionValue)
	}
	return out
}

func appendTrimmed(dst []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return dst
	}
	return append(dst, s)
}

func asSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case nil, string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	}
	return false
}

// stringify renders a decoded parameter value the way the workflow editor displays scalars.
// Objects and nested lists become their JSON text, not "[object Object]" or "1,2" as the
// editor would show them.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t, 64)
	case float32:
		return formatNumber(float64(t), 32)
	case json.Number:
		return t.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// jsonString renders a JSON array element like stringify; objects and arrays keep their raw JSON text.
func jsonString(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.String:
		return r.Str
	case gjson.Number:
		return formatNumber(r.Num, 64)
	case gjson.JSON:
		return r.Raw
	default:
		return r.String()
	}
}

// formatNumber writes f in plain decimal, switching to exponent notation ("1e+21", "1.5e-7")
// outside [1e-6, 1e21) like the editor does.
func formatNumber(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if f == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, bitSize), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
