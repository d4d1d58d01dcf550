package common

import (
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases",
			input:    "Database Name",
			expected: "database name",
		},
		{
			name:     "collapses punctuation runs to single space",
			input:    "user--name__here",
			expected: "user name here",
		},
		{
			name:     "trims leading and trailing separators",
			input:    "  *API Key*  ",
			expected: "api key",
		},
		{
			name:     "keeps digits",
			input:    "Port 8080!",
			expected: "port 8080",
		},
		{
			name:     "non-ascii letters act as separators",
			input:    "Café Login",
			expected: "caf login",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only separators",
			input:    "--- ***",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeText(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"Database Name:",
		"AWS Console - Sign In",
		"user_name.field-1",
		"",
	}

	for _, input := range inputs {
		once := NormalizeText(input)
		twice := NormalizeText(once)
		if once != twice {
			t.Errorf("NormalizeText not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestTokenizeText(t *testing.T) {
	tokens := TokenizeText("AWS Console - AWS Login")

	if len(tokens) != 3 {
		t.Errorf("expected 3 unique tokens, got %d: %v", len(tokens), tokens)
	}
	for _, want := range []string{"aws", "console", "login"} {
		if _, ok := tokens[want]; !ok {
			t.Errorf("expected token %q in %v", want, tokens)
		}
	}
}

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{
			name:     "identical sets",
			a:        "aws console",
			b:        "console aws",
			expected: 1.0,
		},
		{
			name:     "disjoint sets",
			a:        "aws console",
			b:        "jira board",
			expected: 0.0,
		},
		{
			name:     "partial overlap",
			a:        "aws console login",
			b:        "aws login",
			expected: 2.0 / 3.0,
		},
		{
			name:     "both empty",
			a:        "",
			b:        "",
			expected: 0.0,
		},
		{
			name:     "one empty",
			a:        "aws",
			b:        "",
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JaccardSimilarity(TokenizeText(tt.a), TokenizeText(tt.b))
			if got != tt.expected {
				t.Errorf("JaccardSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestJaccardSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"aws console login", "aws login"},
		{"database host", "host name"},
		{"", "anything"},
	}

	for _, p := range pairs {
		a := TokenizeText(p[0])
		b := TokenizeText(p[1])
		if JaccardSimilarity(a, b) != JaccardSimilarity(b, a) {
			t.Errorf("JaccardSimilarity not symmetric for %q / %q", p[0], p[1])
		}
	}
}
