package language

import "testing"

func TestFromName(t *testing.T) {
	lang, ok := FromName("English")
	if !ok || lang.Code != "en" {
		t.Fatalf("FromName(English) = (%+v, %v), want en", lang, ok)
	}
	lang, ok = FromName("  haitian creole ")
	if !ok || lang.Code != "ht" {
		t.Fatalf("FromName(haitian creole) = (%+v, %v), want ht", lang, ok)
	}
	if _, ok := FromName("klingon"); ok {
		t.Fatalf("FromName(klingon) should not resolve")
	}
}

func TestGetLanguage(t *testing.T) {
	lang, ok := GetLanguage("ja")
	if !ok || lang.Name != "japanese" {
		t.Fatalf("GetLanguage(ja) = (%+v, %v)", lang, ok)
	}
	if _, ok := GetLanguage("xx"); ok {
		t.Fatalf("GetLanguage(xx) should not resolve")
	}
}

func TestDisplayName(t *testing.T) {
	lang, _ := GetLanguage("ht")
	if got := lang.DisplayName(); got != "Haitian Creole" {
		t.Fatalf("DisplayName = %q, want %q", got, "Haitian Creole")
	}
}

func TestSupportedLanguagesSorted(t *testing.T) {
	langs := SupportedLanguages()
	if len(langs) != len(Languages) {
		t.Fatalf("SupportedLanguages() returned %d entries, want %d", len(langs), len(Languages))
	}
	for i := 1; i < len(langs); i++ {
		if langs[i-1].Name >= langs[i].Name {
			t.Fatalf("languages not sorted: %q before %q", langs[i-1].Name, langs[i].Name)
		}
	}
}
