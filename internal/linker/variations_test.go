package linker

import "testing"

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func TestVariations_Abbreviations(t *testing.T) {
	got := Variations("kubernetes setup")
	if !contains(got, "k8s setup") {
		t.Errorf("variations = %v, want k8s setup", got)
	}
	got = Variations("k8s setup")
	if !contains(got, "kubernetes setup") {
		t.Errorf("variations = %v, want kubernetes setup (bidirectional)", got)
	}
}

func TestVariations_WordBoundaryOnly(t *testing.T) {
	// "db" inside "dbase" must not be expanded.
	got := Variations("dbase tricks")
	if contains(got, "databasease tricks") || contains(got, "databasease tricks") {
		t.Errorf("variations = %v, substring expanded inside a word", got)
	}
}

func TestVariations_Spelling(t *testing.T) {
	got := Variations("error normalisation")
	if !contains(got, "error normalization") {
		t.Errorf("variations = %v, want american spelling", got)
	}
	got = Variations("colour theory")
	if !contains(got, "color theory") {
		t.Errorf("variations = %v, want color theory", got)
	}
}

func TestVariations_Transliteration(t *testing.T) {
	got := Variations("заметка")
	if !contains(got, "zametka") {
		t.Errorf("variations = %v, want transliterated form", got)
	}
	// Pure Latin text gains no transliteration entry.
	for _, v := range Variations("plain text") {
		if v == "plain text" {
			t.Errorf("variations contain the input itself")
		}
	}
}

func TestVariations_NeverContainsInput(t *testing.T) {
	for _, in := range []string{"database design", "colour", "kubernetes", "plain"} {
		for _, v := range Variations(in) {
			if v == in {
				t.Errorf("Variations(%q) yields the input itself", in)
			}
		}
	}
}

func TestVariations_Deterministic(t *testing.T) {
	first := Variations("database configuration")
	for i := 0; i < 5; i++ {
		again := Variations("database configuration")
		if len(again) != len(first) {
			t.Fatalf("len = %d, want %d", len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("order differs at %d: %q vs %q", j, again[j], first[j])
			}
		}
	}
}
