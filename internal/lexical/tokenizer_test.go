package lexical

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			text: "Revenue grew 12%; EBITDA margin improved.",
			want: []string{"revenue", "grew", "12", "ebitda", "margin", "improved"},
		},
		{
			name: "drops stopwords",
			text: "the deal is in the pipeline",
			want: []string{"deal", "pipeline"},
		},
		{
			name: "drops single characters",
			text: "a b c term",
			want: []string{"term"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "numbers survive",
			text: "Q3 2024 forecast",
			want: []string{"q3", "2024", "forecast"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
