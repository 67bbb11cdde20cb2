package ocr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arbovm/levenshtein"
)

// Price is a monetary amount parsed from extracted text.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
	Raw      string  `json:"raw"`
}

// Percentage is a percentage figure parsed from extracted text.
type Percentage struct {
	Value float64 `json:"value"`
	Raw   string  `json:"raw"`
}

var pricePatterns = []struct {
	re       *regexp.Regexp
	currency string
}{
	{regexp.MustCompile(`£\s*(\d+\.?\d*)`), "GBP"},
	{regexp.MustCompile(`\$\s*(\d+\.?\d*)`), "USD"},
	{regexp.MustCompile(`€\s*(\d+\.?\d*)`), "EUR"},
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*p\b`), "GBP"},
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*GBP`), "GBP"},
}

var percentPattern = regexp.MustCompile(`(\d+\.?\d*)\s*%`)

// ParsePrices extracts every price-looking figure from text.
func ParsePrices(text string) []Price {
	var prices []Price
	for _, p := range pricePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			prices = append(prices, Price{Value: value, Currency: p.currency, Raw: m[0]})
		}
	}
	return prices
}

// ParsePercentages extracts every percentage figure from text.
func ParsePercentages(text string) []Percentage {
	var out []Percentage
	for _, m := range percentPattern.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		out = append(out, Percentage{Value: value, Raw: m[0]})
	}
	return out
}

// MatchScore reports how closely extracted text matches the expected copy
// as 1 - normalizedLevenshtein, in [0,1]. Comparison is case-insensitive
// over collapsed whitespace.
func MatchScore(expected, actual string) float64 {
	e := normalize(expected)
	a := normalize(actual)
	if e == "" && a == "" {
		return 1
	}
	longest := len(e)
	if len(a) > longest {
		longest = len(a)
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.Distance(e, a)
	score := 1 - float64(dist)/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}

// WordErrorRate is the word-level edit distance between expected and actual
// text divided by the expected word count.
func WordErrorRate(expected, actual string) float64 {
	ref := strings.Fields(normalize(expected))
	hyp := strings.Fields(normalize(actual))
	if len(ref) == 0 {
		if len(hyp) == 0 {
			return 0
		}
		return 1
	}

	// Word-level Levenshtein over token slices.
	prev := make([]int, len(hyp)+1)
	curr := make([]int, len(hyp)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ref); i++ {
		curr[0] = i
		for j := 1; j <= len(hyp); j++ {
			cost := 1
			if ref[i-1] == hyp[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, minInt(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return float64(prev[len(hyp)]) / float64(len(ref))
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
