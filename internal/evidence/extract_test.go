package evidence

import (
	"reflect"
	"testing"
)

func TestExtractURLs_TrimsPunctuationAndBrackets(t *testing.T) {
	got := ExtractURLs("See (https://fda.gov/info.); more.")
	want := []string{"https://fda.gov/info"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractURLs() = %v, want %v", got, want)
	}
}

func TestExtractURLs_OrderAndDuplicates(t *testing.T) {
	text := "First https://ema.europa.eu/a then http://who.int/b and again https://ema.europa.eu/a"
	got := ExtractURLs(text)
	want := []string{"https://ema.europa.eu/a", "http://who.int/b", "https://ema.europa.eu/a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractURLs() = %v, want %v", got, want)
	}
}

func TestExtractURLs_Delimiters(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "quoted url",
			text: `per "https://ecfr.gov/title-21" the rule applies`,
			want: []string{"https://ecfr.gov/title-21"},
		},
		{
			name: "angle brackets",
			text: "source: <https://ico.org.uk/guidance>",
			want: []string{"https://ico.org.uk/guidance"},
		},
		{
			name: "markdown link keeps path",
			text: "[guidance](https://edpb.europa.eu/our-work)",
			want: []string{"https://edpb.europa.eu/our-work"},
		},
		{
			name: "trailing colon stripped",
			text: "see https://cnil.fr/fr: the decision",
			want: []string{"https://cnil.fr/fr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractURLs(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractURLs_NoURLs(t *testing.T) {
	if got := ExtractURLs("no links here"); len(got) != 0 {
		t.Errorf("expected no URLs, got %v", got)
	}
	if got := ExtractURLs(""); len(got) != 0 {
		t.Errorf("expected no URLs for empty input, got %v", got)
	}
}
