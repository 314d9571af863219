package translit

import (
	"testing"
)

func TestDetectScript(t *testing.T) {
	tests := []struct {
		name string
		word string
		want Script
	}{
		{"hebrew", "דוד", ScriptHebrew},
		{"arabic", "محمد", ScriptArabic},
		{"latin lowercase", "david", ScriptLatin},
		{"latin uppercase", "DAVID", ScriptLatin},
		{"cyrillic", "Иван", ScriptCyrillic},
		{"digits only", "12345", ScriptOther},
		{"empty", "", ScriptOther},
		{"first block wins", "דוד-david", ScriptHebrew},
		{"punctuation then latin", "-david", ScriptLatin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectScript(tt.word); got != tt.want {
				t.Errorf("DetectScript(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestIsHebrew(t *testing.T) {
	if !IsHebrew("David כהן") {
		t.Error("expected mixed text with a Hebrew word to report Hebrew")
	}
	if IsHebrew("David Cohen") {
		t.Error("expected pure Latin text to not report Hebrew")
	}
	if IsHebrew("") {
		t.Error("expected empty text to not report Hebrew")
	}
}

func TestTransliterateLatin(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name string
		word string
		want string
	}{
		{"consonants with dropped vowels", "david", "דויד"},
		{"digraph ch", "chen", "חן"},
		{"digraph sh", "moshe", "מוש"},
		{"j and ck digraph", "jack", "ג׳ק"},
		{"initial vowel becomes aleph", "oren", "ארן"},
		{"double letter digraph", "anna", "אנה"},
		{"trailing a becomes he", "sara", "סרה"},
		{"final nun", "ron", "רון"},
		{"uppercase input", "DAVID", "דויד"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Transliterate(tt.word); got != tt.want {
				t.Errorf("Transliterate(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestTransliterateCommonNameOverride(t *testing.T) {
	n := NewNormalizer(map[string]string{
		"david": "דוד",
		"cohen": "כהן",
	})

	if got := n.Transliterate("David"); got != "דוד" {
		t.Errorf("Transliterate(David) = %q, want the common-name form דוד", got)
	}
	if got := n.Transliterate("Cohen"); got != "כהן" {
		t.Errorf("Transliterate(Cohen) = %q, want the common-name form כהן", got)
	}
	// Names outside the table still follow the rules.
	if got := n.Transliterate("chen"); got != "חן" {
		t.Errorf("Transliterate(chen) = %q, want rule-based חן", got)
	}
}

func TestTransliterateCyrillic(t *testing.T) {
	n := NewNormalizer(nil)

	if got := n.Transliterate("Иван"); got != "יואן" {
		t.Errorf("Transliterate(Иван) = %q, want יואן", got)
	}
	if got := n.Transliterate("Борис"); got != "בוריס" {
		t.Errorf("Transliterate(Борис) = %q, want בוריס", got)
	}
}

func TestTransliterateArabic(t *testing.T) {
	n := NewNormalizer(nil)

	if got := n.Transliterate("محمد"); got != "מחמד" {
		t.Errorf("Transliterate(محمد) = %q, want מחמד", got)
	}
}

func TestTransliterateHebrewPassthrough(t *testing.T) {
	n := NewNormalizer(nil)

	for _, word := range []string{"דוד", "כהן", "משה"} {
		if got := n.Transliterate(word); got != word {
			t.Errorf("Transliterate(%q) = %q, want unchanged input", word, got)
		}
	}
}

func TestTransliterateOtherScriptPassthrough(t *testing.T) {
	n := NewNormalizer(nil)

	if got := n.Transliterate("12345"); got != "12345" {
		t.Errorf("Transliterate(12345) = %q, want unchanged input", got)
	}
}

func TestApplyFinalLetters(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"חן", "חן"},
		{"רונ", "רון"},
		{"יוספ", "יוסף"},
		{"אברהמ", "אברהם"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := applyFinalLetters(tt.in); got != tt.want {
			t.Errorf("applyFinalLetters(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
