package evidence

import (
	"reflect"
	"testing"
)

func TestSalvageJSON_FencedBlock(t *testing.T) {
	text := "Here is the result:\n```json\n{\"a\": 1}\n```\nLet me know if you need more."
	v, ok := SalvageJSON(text)
	if !ok {
		t.Fatal("expected salvage to succeed")
	}
	want := map[string]any{"a": float64(1)}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("SalvageJSON() = %v, want %v", v, want)
	}
}

func TestSalvageJSON_UntaggedFence(t *testing.T) {
	text := "```\n{\"flagged_violations\": []}\n```"
	v, ok := SalvageJSON(text)
	if !ok {
		t.Fatal("expected salvage to succeed")
	}
	obj, isMap := v.(map[string]any)
	if !isMap {
		t.Fatalf("expected object, got %T", v)
	}
	if _, present := obj["flagged_violations"]; !present {
		t.Error("expected flagged_violations key")
	}
}

func TestSalvageJSON_BareObjectInProse(t *testing.T) {
	text := `The evaluation follows. {"rating": "effective", "notes": "see {braces} in text? no"} Trailing prose.`
	v, ok := SalvageJSON(text)
	if !ok {
		t.Fatal("expected salvage to succeed")
	}
	obj := v.(map[string]any)
	if obj["rating"] != "effective" {
		t.Errorf("rating = %v", obj["rating"])
	}
}

func TestSalvageJSON_StringAwareBraceScan(t *testing.T) {
	// The brace inside the quoted value must not close the object early.
	text := `{"msg": "open { brace", "n": 2}`
	v, ok := SalvageJSON(text)
	if !ok {
		t.Fatal("expected salvage to succeed")
	}
	obj := v.(map[string]any)
	if obj["n"] != float64(2) {
		t.Errorf("n = %v, want 2", obj["n"])
	}
}

func TestSalvageJSON_TrailingCommaRepair(t *testing.T) {
	text := "```json\n{\"a\": 1, \"b\": 2,}\n```"
	v, ok := SalvageJSON(text)
	if !ok {
		t.Fatal("expected repair pass to recover trailing comma")
	}
	obj := v.(map[string]any)
	if obj["b"] != float64(2) {
		t.Errorf("b = %v, want 2", obj["b"])
	}
}

func TestSalvageJSON_FencedBlockWinsOverFallback(t *testing.T) {
	// Both candidates parse; the fenced block has priority.
	text := "{\"outer\": true} and then ```json\n{\"inner\": true}\n```"
	v, ok := SalvageJSON(text)
	if !ok {
		t.Fatal("expected salvage to succeed")
	}
	obj := v.(map[string]any)
	if obj["inner"] != true {
		t.Errorf("expected fenced candidate to win, got %v", obj)
	}
}

func TestSalvageJSON_BrokenFenceFallsBackToBalancedScan(t *testing.T) {
	text := "```json\nnot json at all\n``` but later {\"ok\": true} appears"
	v, ok := SalvageJSON(text)
	if !ok {
		t.Fatal("expected fallback candidate to parse")
	}
	obj := v.(map[string]any)
	if obj["ok"] != true {
		t.Errorf("expected fallback object, got %v", obj)
	}
}

func TestSalvageJSON_Nothing(t *testing.T) {
	for _, text := range []string{"", "plain prose only", "unbalanced { \"a\": 1", `{"unterminated": "string}`} {
		if _, ok := SalvageJSON(text); ok {
			t.Errorf("SalvageJSON(%q) should fail", text)
		}
	}
}

func TestFindBalancedObject(t *testing.T) {
	if got := findBalancedObject("pre {\"a\": {\"b\": 1}} post"); got != `{"a": {"b": 1}}` {
		t.Errorf("findBalancedObject() = %q", got)
	}
	if got := findBalancedObject("no braces"); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
	if got := findBalancedObject(`{"never closed": 1`); got != "" {
		t.Errorf("expected empty result for unbalanced input, got %q", got)
	}
}
