package evidence

import (
	"reflect"
	"testing"

	"github.com/Harshitk-cp/verity/internal/domain"
)

func TestDedupeCitations_FirstOccurrenceWins(t *testing.T) {
	in := []domain.Citation{
		{Title: "FDA Part 11", URL: "https://fda.gov/part11"},
		{Title: "EMA GMP", URL: "https://ema.europa.eu/gmp"},
		{Title: "duplicate", URL: "https://fda.gov/part11"},
		{Title: "", URL: ""},
		{Title: "ICO", URL: "https://ico.org.uk"},
	}

	got := DedupeCitations(in)
	want := []domain.Citation{
		{Title: "FDA Part 11", URL: "https://fda.gov/part11"},
		{Title: "EMA GMP", URL: "https://ema.europa.eu/gmp"},
		{Title: "ICO", URL: "https://ico.org.uk"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupeCitations() = %v, want %v", got, want)
	}
}

func TestDedupeCitations_Idempotent(t *testing.T) {
	in := []domain.Citation{
		{Title: "a", URL: "https://fda.gov/a"},
		{Title: "b", URL: "https://fda.gov/b"},
		{Title: "a again", URL: "https://fda.gov/a"},
	}

	once := DedupeCitations(in)
	twice := DedupeCitations(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("dedupe not idempotent: %v vs %v", once, twice)
	}
}

func TestDedupeCitations_TitleDefaultsToURL(t *testing.T) {
	got := DedupeCitations([]domain.Citation{{URL: "https://who.int/x"}})
	if len(got) != 1 || got[0].Title != "https://who.int/x" {
		t.Errorf("expected title to default to URL, got %v", got)
	}
}

func TestFilterAuthoritative(t *testing.T) {
	policy := NewAuthorityPolicy()
	in := []domain.Citation{
		{Title: "fda", URL: "https://fda.gov/a"},
		{Title: "blog", URL: "https://blog.example.com/b"},
		{Title: "ema", URL: "https://www.ema.europa.eu/c"},
	}

	got := FilterAuthoritative(in, policy)
	if len(got) != 2 || got[0].Title != "fda" || got[1].Title != "ema" {
		t.Errorf("FilterAuthoritative() = %v", got)
	}
}
