package utils

import (
	"reflect"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `["Q1"]`, `["Q1"]`},
		{"json fence", "```json\n[\"Q1\"]\n```", `["Q1"]`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n[1]\n```  ", "[1]"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFences(tc.in); got != tc.want {
				t.Fatalf("StripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSplitTechstack(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "go,postgres", []string{"go", "postgres"}},
		{"spaces", " go , postgres , redis ", []string{"go", "postgres", "redis"}},
		{"empty entries", "go,,postgres,", []string{"go", "postgres"}},
		{"empty string", "", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SplitTechstack(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitTechstack(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
