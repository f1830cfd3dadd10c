package lead

import "testing"

func TestNormalizeAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  123  Main   St. ", "123 Main St"},
		{"123 Main St", "123 Main St"},
		{"123 Main\tSt,", "123 Main St"},
		{"", ""},
		{"   ", ""},
		{"456 Oak Ave;;", "456 Oak Ave"},
	}
	for _, c := range cases {
		if got := NormalizeAddress(c.in); got != c.want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeAddress_Idempotent(t *testing.T) {
	inputs := []string{
		"  123  Main   St. ",
		"no punctuation here",
		"trailing!!.,",
		"  ",
		"MiXeD Case Is Kept",
	}
	for _, in := range inputs {
		once := NormalizeAddress(in)
		twice := NormalizeAddress(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeAddress_PreservesCase(t *testing.T) {
	if got := NormalizeAddress("123 MAIN st"); got != "123 MAIN st" {
		t.Errorf("case changed: %q", got)
	}
}

func TestDedupeKey(t *testing.T) {
	// link wins when present
	if got := DedupeKey("123 Main St", "https://example.com/a"); got != "https://example.com/a" {
		t.Errorf("expected link key, got %q", got)
	}
	// otherwise lowercased normalized title
	if got := DedupeKey("  123 MAIN St. ", ""); got != "123 main st" {
		t.Errorf("expected normalized title key, got %q", got)
	}
	// whitespace-only link falls back to title
	if got := DedupeKey("456 Oak Ave", "   "); got != "456 oak ave" {
		t.Errorf("expected title fallback, got %q", got)
	}
}
