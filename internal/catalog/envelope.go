package catalog

// The upstream service wraps record lists differently per endpoint and
// version: a bare list, {array: [...]}, {data: {array: [...]}} or
// {data: [...]}. envelopeShapes is the priority-ordered list of known
// forms; adding a shape means appending here, not touching callers.

type envelopeShape func(body any) ([]map[string]any, bool)

var envelopeShapes = []envelopeShape{
	directList,
	arrayField,
	dataArrayField,
	dataList,
}

// NormalizeEnvelope extracts the record list from an arbitrarily shaped
// response container. It returns nil when no known shape matches; callers
// must treat that as "no data", never as a failure.
func NormalizeEnvelope(body any) []map[string]any {
	for _, shape := range envelopeShapes {
		if records, ok := shape(body); ok {
			return records
		}
	}
	return nil
}

func directList(body any) ([]map[string]any, bool) {
	return toRecordList(body)
}

func arrayField(body any) ([]map[string]any, bool) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, false
	}
	return toRecordList(m["array"])
}

func dataArrayField(body any) ([]map[string]any, bool) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, false
	}
	inner, ok := m["data"].(map[string]any)
	if !ok {
		return nil, false
	}
	return toRecordList(inner["array"])
}

func dataList(body any) ([]map[string]any, bool) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, false
	}
	return toRecordList(m["data"])
}

func toRecordList(v any) ([]map[string]any, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out, true
}
