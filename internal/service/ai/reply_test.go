package ai

import (
	"reflect"
	"testing"
)

func TestSplitSuggestions(t *testing.T) {
	raw := "Hai! [EMOTION:😊] Apa kabar? SUGGESTIONS: Baik,Lumayan,Kurang baik"
	text, suggestions := SplitSuggestions(raw)

	if text != "Hai! [EMOTION:😊] Apa kabar?" {
		t.Fatalf("unexpected text: %q", text)
	}
	want := []string{"Baik", "Lumayan", "Kurang baik"}
	if !reflect.DeepEqual(suggestions, want) {
		t.Fatalf("unexpected suggestions: %v", suggestions)
	}
}

func TestSplitSuggestionsWithoutMarker(t *testing.T) {
	text, suggestions := SplitSuggestions("  Jawaban biasa saja.  ")
	if text != "Jawaban biasa saja." {
		t.Fatalf("unexpected text: %q", text)
	}
	if suggestions != nil {
		t.Fatalf("expected nil suggestions, got %v", suggestions)
	}
}

func TestSplitSuggestionsStripsQuotes(t *testing.T) {
	_, suggestions := SplitSuggestions(`Oke. SUGGESTIONS: "Lanjut", "Ulangi" , ,"Selesai"`)
	want := []string{"Lanjut", "Ulangi", "Selesai"}
	if !reflect.DeepEqual(suggestions, want) {
		t.Fatalf("unexpected suggestions: %v", suggestions)
	}
}

func TestSplitSuggestionsEmptyText(t *testing.T) {
	text, suggestions := SplitSuggestions("SUGGESTIONS: Satu,Dua")
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
	if len(suggestions) != 2 {
		t.Fatalf("unexpected suggestions: %v", suggestions)
	}
}
