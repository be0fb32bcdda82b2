// Package textutil provides the small text primitives shared by keyword
// derivation, article parsing and SEO scoring.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits s into word tokens. Letters, digits, inner hyphens and
// apostrophes stay inside a token; everything else separates tokens.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\'' || r == '’')
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-'’")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// HasLetter reports whether s contains at least one letter.
func HasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// IsAcronym reports whether tok is an all-caps token of two or more letters,
// such as "ACA" or "ICD-10-CM".
func IsAcronym(tok string) bool {
	letters := 0
	for _, r := range tok {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 2
}

// Sentences splits text into sentences on '.', '!' and '?' followed by
// whitespace or the end of the text. Empty sentences are dropped.
func Sentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// ContainsPhrase reports whether phrase occurs in text as whole words,
// ignoring case. An empty phrase never matches.
func ContainsPhrase(text, phrase string) bool {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return false
	}
	lower := strings.ToLower(text)
	for from := 0; from <= len(lower)-len(phrase); {
		i := strings.Index(lower[from:], phrase)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(phrase)
		if boundaryBefore(lower, i) && boundaryAfter(lower, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(lower[i:])
		from = i + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Subject returns the part of a title before the first colon, without a
// trailing "in <year>" phrase. "Medicare Part D in 2025: Costs" becomes
// "Medicare Part D".
func Subject(title string) string {
	s := title
	if i := strings.Index(s, ":"); i > 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	words := strings.Fields(s)
	if n := len(words); n > 2 && strings.EqualFold(words[n-2], "in") && isYear(words[n-1]) {
		s = strings.Join(words[:n-2], " ")
	}
	return s
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Len returns the length of s in characters.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// TruncateWords shortens s to at most max characters, cutting at the last
// word boundary that fits. A single word longer than max is cut hard.
func TruncateWords(s string, max int) string {
	if Len(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := runes[:max]
	if !unicode.IsSpace(runes[max]) {
		if i := lastSpace(cut); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == ':'
	})
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if unicode.IsSpace(rs[i]) {
			return i
		}
	}
	return -1
}

// IsNumbered reports whether p starts with an ordered-list marker like "3. ".
func IsNumbered(p string) bool {
	i := 0
	for i < len(p) && p[i] >= '0' && p[i] <= '9' {
		i++
	}
	return i > 0 && strings.HasPrefix(p[i:], ". ")
}
