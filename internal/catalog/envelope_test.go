package catalog

import (
	"reflect"
	"testing"
)

func TestNormalizeEnvelopeShapes(t *testing.T) {
	records := []any{
		map[string]any{"articleNumber": "1.31809"},
		map[string]any{"articleNumber": "4.61919"},
	}
	want := []map[string]any{
		{"articleNumber": "1.31809"},
		{"articleNumber": "4.61919"},
	}

	cases := map[string]any{
		"direct list":      records,
		"array field":      map[string]any{"array": records},
		"data.array field": map[string]any{"data": map[string]any{"array": records}},
		"data list":        map[string]any{"data": records},
	}

	for name, body := range cases {
		got := NormalizeEnvelope(body)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %v", name, got)
		}
	}
}

func TestNormalizeEnvelopePriority(t *testing.T) {
	// When both array and data wrappers are present, array wins.
	body := map[string]any{
		"array": []any{map[string]any{"id": "outer"}},
		"data":  []any{map[string]any{"id": "inner"}},
	}
	got := NormalizeEnvelope(body)
	if len(got) != 1 || got[0]["id"] != "outer" {
		t.Fatalf("got %v", got)
	}
}

func TestNormalizeEnvelopeNoMatch(t *testing.T) {
	for _, body := range []any{
		nil,
		"a string",
		42.0,
		map[string]any{"total": 7},
		map[string]any{"data": map[string]any{"count": 3}},
	} {
		if got := NormalizeEnvelope(body); got != nil {
			t.Errorf("body %v: got %v, want nil", body, got)
		}
	}
}

func TestNormalizeEnvelopeSkipsNonObjectEntries(t *testing.T) {
	body := []any{map[string]any{"id": 1.0}, "stray", nil, map[string]any{"id": 2.0}}
	got := NormalizeEnvelope(body)
	if len(got) != 2 {
		t.Fatalf("got %d records", len(got))
	}
}
