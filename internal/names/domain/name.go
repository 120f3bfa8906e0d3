package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Valid returns the canonical (lowercase) form of name when it is a well-formed
// identifier, and false otherwise.
//
// A well-formed identifier:
//   - is not empty
//   - only contains ASCII letters, digits or dashes
//   - does not start with a digit
//   - does not start or end with a dash and has no double dashes
func Valid(name string) (string, bool) {
	return lint(name, -1)
}

// ValidMaxLength is Valid with an upper bound on the length of name. The length
// is counted in characters of the original input, before lowercasing.
func ValidMaxLength(name string, maxLength int) (string, bool) {
	if maxLength < 0 {
		return "", false
	}
	return lint(name, maxLength)
}

// lint applies the rules in order; maxLength < 0 means unbounded.
func lint(name string, maxLength int) (string, bool) {
	if name == "" {
		return "", false
	}
	if maxLength >= 0 && utf8.RuneCountInString(name) > maxLength {
		return "", false
	}
	name, ok := lower(name)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") || strings.Contains(name, "--") {
		return "", false
	}
	if isDigit(name[0]) {
		return "", false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isDigit(c) && !isLowerASCII(c) && c != '-' {
			return "", false
		}
	}
	return name, true
}

// lower lowercases name rune by rune. U+0130 has no single-rune lowercase
// form (it becomes "i" plus a combining dot), so it is refused rather than
// folded onto ASCII 'i'.
func lower(name string) (string, bool) {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '\u0130' {
			return "", false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String(), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLowerASCII(c byte) bool { return c >= 'a' && c <= 'z' }
