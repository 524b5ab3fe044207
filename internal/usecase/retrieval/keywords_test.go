package retrieval

import (
	"reflect"
	"testing"
)

func TestKeywords(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "plain words",
			query: "thin rapid pulse night sweats",
			want:  []string{"thin", "rapid", "pulse", "night", "sweats"},
		},
		{
			name:  "punctuation becomes separators",
			query: "insomnia, palpitations; dry-mouth?",
			want:  []string{"insomnia", "palpitations", "dry", "mouth"},
		},
		{
			name:  "short tokens dropped",
			query: "qi is up at LU 7",
			want:  nil,
		},
		{
			name:  "capped at six",
			query: "one1 two2 three3 four4 five5 six6 seven7 eight8",
			want:  []string{"one1", "two2", "three3", "four4", "five5", "six6"},
		},
		{
			name:  "empty query",
			query: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			query: "   \t\n  ",
			want:  nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Keywords(tc.query)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Keywords(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}
