package claims

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassify(t *testing.T) {
	lex := DefaultLexicon()

	tests := []struct {
		name          string
		text          string
		expectedTerms []string
		maxTier       RiskTier
	}{
		{
			name:          "medium tier match",
			text:          "Save 20% today",
			expectedTerms: []string{"save"},
			maxTier:       RiskMedium,
		},
		{
			name:          "case insensitive",
			text:          "GUARANTEED results",
			expectedTerms: []string{"guaranteed"},
			maxTier:       RiskHigh,
		},
		{
			name:          "multi-word term",
			text:          "our lowest price ever",
			expectedTerms: []string{"lowest price"},
			maxTier:       RiskHigh,
		},
		{
			name:          "multiple matches across tiers",
			text:          "Free delivery, exclusive sale",
			expectedTerms: []string{"exclusive", "free", "sale"},
			maxTier:       RiskHigh,
		},
		{
			name:          "clean copy",
			text:          "Fresh orange juice",
			expectedTerms: nil,
			maxTier:       RiskLow,
		},
		{
			name:          "empty text",
			text:          "",
			expectedTerms: nil,
			maxTier:       RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := lex.Classify(tt.text)
			if len(matches) != len(tt.expectedTerms) {
				t.Fatalf("Expected %d matches, got %d: %v", len(tt.expectedTerms), len(matches), matches)
			}
			for i, term := range tt.expectedTerms {
				if matches[i].Term != term {
					t.Errorf("Expected term %q at position %d, got %q", term, i, matches[i].Term)
				}
			}
			if got := MaxMatchTier(matches); got != tt.maxTier {
				t.Errorf("Expected max tier %s, got %s", tt.maxTier, got)
			}
		})
	}
}

func TestClassify_DeterministicOrder(t *testing.T) {
	lex := DefaultLexicon()

	first := lex.Classify("free sale discount")
	for i := 0; i < 10; i++ {
		again := lex.Classify("free sale discount")
		if len(again) != len(first) {
			t.Fatalf("Match count changed between runs")
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("Match order changed between runs: %v vs %v", first, again)
			}
		}
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		input    string
		expected RiskTier
		wantErr  bool
	}{
		{"LOW", RiskLow, false},
		{"medium", RiskMedium, false},
		{" High ", RiskHigh, false},
		{"critical", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTier(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.toml")
	content := `[terms]
"miracle cure" = "HIGH"
cheap = "MEDIUM"
new = "low"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	lex, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	matches := lex.Classify("A miracle cure at a cheap price, brand new")
	if len(matches) != 3 {
		t.Fatalf("Expected 3 matches, got %d: %v", len(matches), matches)
	}
	if MaxMatchTier(matches) != RiskHigh {
		t.Errorf("Expected max tier HIGH, got %s", MaxMatchTier(matches))
	}
}

func TestLoad_InvalidTier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.toml")
	if err := os.WriteFile(path, []byte("[terms]\nfoo = \"EXTREME\"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for unknown tier name")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestMaxTier(t *testing.T) {
	if got := MaxTier(RiskLow, RiskHigh); got != RiskHigh {
		t.Errorf("Expected HIGH, got %s", got)
	}
	if got := MaxTier(RiskMedium, RiskLow); got != RiskMedium {
		t.Errorf("Expected MEDIUM, got %s", got)
	}
}

func TestRiskTier_MarshalText(t *testing.T) {
	b, err := RiskHigh.MarshalText()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(b) != "HIGH" {
		t.Errorf("Expected HIGH, got %s", b)
	}
}
