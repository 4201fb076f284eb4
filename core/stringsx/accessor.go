package stringsx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CutAccessor removes prefix from s and reports whether the remainder names a property.
// The remainder must be non-empty and must not start with a lower-case rune, so "GetFoo"
// and "Is2FA" are accessors while "Get", "Getaway" and "Issue" are not.
func CutAccessor(s, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || rest == "" {
		return "", false
	}

	first, _ := utf8.DecodeRuneInString(rest)
	if first == utf8.RuneError || unicode.IsLower(first) || first == '_' {
		return "", false
	}

	return rest, true
}

// StripVariant drops an overload variant suffix: everything from the first underscore on.
// "ResetFoo_To" becomes "ResetFoo". Names without an underscore, or starting with one,
// are returned unchanged.
func StripVariant(s string) string {
	if i := strings.IndexByte(s, '_'); i > 0 {
		return s[:i]
	}

	return s
}
