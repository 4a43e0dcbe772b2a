package service

import "testing"

func TestCategoryNames_StableOrder(t *testing.T) {
	first := CategoryNames()
	second := CategoryNames()

	if len(first) == 0 {
		t.Fatal("expected a non-empty catalog")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected stable order, got %v then %v", first, second)
		}
	}
}

func TestLookupCategory(t *testing.T) {
	for _, name := range CategoryNames() {
		cat, ok := LookupCategory(name)
		if !ok {
			t.Fatalf("expected category %q in catalog", name)
		}
		if cat.DefaultControls == "" {
			t.Fatalf("expected default controls for %q", name)
		}
	}

	if _, ok := LookupCategory("no such category"); ok {
		t.Fatal("expected lookup miss for unknown category")
	}
}
