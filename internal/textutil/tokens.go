package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TokenMode selects how text is split for alignment.
type TokenMode int

const (
	// TokenWords splits on runs of letters and digits (alphabetic scripts).
	TokenWords TokenMode = iota
	// TokenFields splits on whitespace (unsegmented scripts written with spaces).
	TokenFields
	// TokenChars emits one token per letter or digit.
	TokenChars
)

// wordsPerLineThreshold is the average words per line above which an
// uncased script is assumed to be space-delimited.
const wordsPerLineThreshold = 5

var folder = cases.Fold()

// DetectTokenMode picks a tokenization for text. Scripts with letter case
// (Latin, Cyrillic, Greek, ...) use word tokens; other scripts use
// whitespace fields when lines average more than five words, otherwise
// single characters.
func DetectTokenMode(text string) TokenMode {
	text = StripMarkup(text)
	cased, uncased := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r) {
			cased++
		} else {
			uncased++
		}
	}
	if cased >= uncased {
		return TokenWords
	}
	lines, words := 0, 0
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		lines++
		words += len(fields)
	}
	if lines > 0 && float64(words)/float64(lines) > wordsPerLineThreshold {
		return TokenFields
	}
	return TokenChars
}

// AlignTokens normalizes and splits text according to mode. Tokens are
// NFKC-normalized and case-folded so that transcript spelling differences in
// width or case still match.
func AlignTokens(text string, mode TokenMode) []string {
	text = folder.String(norm.NFKC.String(StripMarkup(strings.ReplaceAll(text, LineBreak, "\n"))))
	switch mode {
	case TokenFields:
		fields := strings.Fields(text)
		tokens := make([]string, 0, len(fields))
		for _, field := range fields {
			if cleaned := strings.TrimFunc(field, isNotWordRune); cleaned != "" {
				tokens = append(tokens, cleaned)
			}
		}
		return tokens
	case TokenChars:
		tokens := make([]string, 0, len(text))
		for _, r := range text {
			if !isNotWordRune(r) {
				tokens = append(tokens, string(r))
			}
		}
		return tokens
	default:
		return strings.FieldsFunc(text, isNotWordRune)
	}
}

func isNotWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r)
}
