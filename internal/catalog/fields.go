package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Alias tables for semantic fields whose key varies across endpoint
// versions. Order is lookup priority. All key probing goes through
// ResolveField so a new upstream spelling is a one-line change.
var (
	GTINAliases        = []string{"gtins", "gtin", "GTIN", "GTINs", "ean", "EAN", "eans", "EANs", "gtinNumbers"}
	GTINNumberAliases  = []string{"gtin", "ean", "gtinNumber", "gtinValue", "eanNumber", "number", "value", "gtinCode", "eanCode"}
	RefNumberAliases   = []string{"articleNumber", "number"}
	RefSourceAliases   = []string{"mfrName", "brandName"}
	DescriptionAliases = []string{"description", "carDesc"}
)

// ResolveField returns the first alias present in the record with a
// non-empty value. Declared aliases are tried exactly first; when none
// hits, one case-insensitive sweep over the record's actual keys runs
// before giving up. Returns nil when nothing matches.
func ResolveField(rec map[string]any, aliases ...string) any {
	for _, alias := range aliases {
		if v, ok := rec[alias]; ok && !isEmptyValue(v) {
			return v
		}
	}
	// Aliases stay the outer loop so declared priority holds even when
	// several record keys fold to different aliases.
	for _, alias := range aliases {
		for key, v := range rec {
			if isEmptyValue(v) {
				continue
			}
			if strings.EqualFold(key, alias) {
				return v
			}
		}
	}
	return nil
}

// ResolveString resolves a field and renders it as a trimmed string.
// Numbers are formatted without a decimal point when integral, matching
// how the upstream mixes "69" and 69 for the same field.
func ResolveString(rec map[string]any, aliases ...string) string {
	return asString(ResolveField(rec, aliases...))
}

// ResolveInt resolves a field as an integer id.
func ResolveInt(rec map[string]any, aliases ...string) (int, bool) {
	switch t := ResolveField(rec, aliases...).(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		i, err := t.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		return i, err == nil
	default:
		return 0, false
	}
}

// ResolveStrings resolves a list-valued field whose entries arrive as raw
// strings, numbers, or objects carrying the value under one of subAliases.
// All three shapes flatten to the same []string.
func ResolveStrings(rec map[string]any, aliases []string, subAliases []string) []string {
	v := ResolveField(rec, aliases...)
	if v == nil {
		return nil
	}
	// A {array: [...]} wrapper can appear one level down too.
	if m, ok := v.(map[string]any); ok {
		v = m["array"]
	}

	items, ok := v.([]any)
	if !ok {
		if s := asString(v); s != "" {
			return []string{s}
		}
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case map[string]any:
			if s := ResolveString(t, subAliases...); s != "" {
				out = append(out, s)
			}
		default:
			if s := asString(t); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
