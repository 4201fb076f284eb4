package stringsx

import "testing"

func TestCutAccessor(t *testing.T) {
	testCases := []struct {
		name     string
		s        string
		prefix   string
		expected string
		ok       bool
	}{
		{name: "getter", s: "GetFoo", prefix: "Get", expected: "Foo", ok: true},
		{name: "boolean getter", s: "IsSomething", prefix: "Is", expected: "Something", ok: true},
		{name: "setter", s: "SetFoo", prefix: "Set", expected: "Foo", ok: true},
		{name: "digit after prefix", s: "Is2FA", prefix: "Is", expected: "2FA", ok: true},
		{name: "prefix only", s: "Get", prefix: "Get", ok: false},
		{name: "lowercase after prefix", s: "Getaway", prefix: "Get", ok: false},
		{name: "word starting with prefix", s: "Issue", prefix: "Is", ok: false},
		{name: "different prefix", s: "ResetFoo", prefix: "Set", ok: false},
		{name: "underscore after prefix", s: "Set_", prefix: "Set", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rest, ok := CutAccessor(tc.s, tc.prefix)
			if ok != tc.ok || rest != tc.expected {
				t.Errorf("expected (%q, %v), got (%q, %v)", tc.expected, tc.ok, rest, ok)
			}
		})
	}
}

func TestStripVariant(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "ResetFoo_To", expected: "ResetFoo"},
		{input: "ResetFoo", expected: "ResetFoo"},
		{input: "Reset_Foo_To", expected: "Reset"},
		{input: "_Hidden", expected: "_Hidden"},
		{input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if result := StripVariant(tc.input); result != tc.expected {
				t.Errorf("expected '%s', got '%s'", tc.expected, result)
			}
		})
	}
}
