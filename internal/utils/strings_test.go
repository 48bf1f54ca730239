package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Legal & Compliance":     "legal-compliance",
		"  Banking  ":            "banking",
		"--Hello--World--":       "hello-world",
		"Co-Working Spaces 2026": "co-working-spaces-2026",
		"Café Résumé":            "caf-r-sum",
		"!!!":                    "",
		"":                       "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" seed, ,series a,")
	if len(got) != 2 || got[0] != "seed" || got[1] != "series a" {
		t.Fatalf("unexpected %v", got)
	}
	if got := SplitCSV(""); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail(" Founder@Example.com ") {
		t.Fatal("expected valid")
	}
	for _, bad := range []string{"", "nope", "a@b", "@example.com", "a@@example.com"} {
		if IsValidEmail(bad) {
			t.Errorf("expected %q to be invalid", bad)
		}
	}
}

func TestIsAlphanumericUpper(t *testing.T) {
	if !IsAlphanumericUpper("AB12CD34") {
		t.Fatal("expected true")
	}
	if IsAlphanumericUpper("ab12") || IsAlphanumericUpper("") {
		t.Fatal("expected false")
	}
}
