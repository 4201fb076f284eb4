package stringsx

import (
	"unicode"
	"unicode/utf8"
)

// LowerFirstChar returns s with its first rune converted to lower case.
// Remote member names are derived from Go identifiers with it: "ResetFoo" becomes "resetFoo".
func LowerFirstChar(s string) string {
	if s == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError || unicode.IsLower(first) {
		return s
	}

	return string(unicode.ToLower(first)) + s[size:]
}
