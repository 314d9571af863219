// Package translit converts Latin, Cyrillic and Arabic name text to Hebrew
// using fixed transliteration tables, with Hebrew final-letter correction.
// Hebrew and unrecognized scripts pass through unchanged; the conversion
// never fails.
package translit

import (
	"sort"
	"strings"
)

// Script identifies the dominant script of a word.
type Script string

const (
	ScriptHebrew   Script = "he"
	ScriptArabic   Script = "ar"
	ScriptLatin    Script = "en"
	ScriptCyrillic Script = "ru"
	ScriptOther    Script = "other"
)

// digraphsByLength holds the digraph keys sorted longest-first for the
// greedy Latin scan.
var digraphsByLength = func() []string {
	keys := make([]string, 0, len(latinDigraphs))
	for k := range latinDigraphs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// DetectScript returns the script of the first rune that falls into a known
// Unicode block, scanning left to right. The first hit decides the whole
// string; a word mixing scripts is classified by whichever appears first.
func DetectScript(word string) Script {
	for _, r := range word {
		switch {
		case r >= 0x0590 && r <= 0x05FF:
			return ScriptHebrew
		case r >= 0x0600 && r <= 0x06FF:
			return ScriptArabic
		case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
			return ScriptLatin
		case r >= 0x0400 && r <= 0x04FF:
			return ScriptCyrillic
		}
	}
	return ScriptOther
}

// IsHebrew reports whether any whitespace-separated token of text detects as
// Hebrew.
func IsHebrew(text string) bool {
	for _, word := range strings.Fields(text) {
		if DetectScript(word) == ScriptHebrew {
			return true
		}
	}
	return false
}

// Normalizer transliterates names to Hebrew. The common-name table maps
// known Latin spellings (lowercase) directly to their canonical Hebrew form,
// bypassing the rule-based conversion. The table is read-only after
// construction, so a Normalizer is safe for concurrent use.
type Normalizer struct {
	commonNames map[string]string
}

// NewNormalizer builds a Normalizer with the given common-name overrides.
// A nil map is allowed and disables the lookup.
func NewNormalizer(commonNames map[string]string) *Normalizer {
	return &Normalizer{commonNames: commonNames}
}

// Transliterate converts word to Hebrew based on its detected script.
// Hebrew input and unknown scripts are returned unchanged; the empty string
// maps to itself.
func (n *Normalizer) Transliterate(word string) string {
	if word == "" {
		return ""
	}
	switch DetectScript(word) {
	case ScriptArabic:
		return mapChars(word, arabicToHebrew)
	case ScriptLatin:
		return n.latin(word)
	case ScriptCyrillic:
		return mapChars(word, cyrillicToHebrew)
	default:
		return word
	}
}

// mapChars applies a character table, dropping unmapped runes, and finishes
// with final-letter correction.
func mapChars(word string, table map[rune]string) string {
	var b strings.Builder
	for _, r := range word {
		b.WriteString(table[r])
	}
	return applyFinalLetters(b.String())
}

// latin transliterates a Latin-script name. Known common names win over the
// rules; otherwise the scan prefers the longest matching digraph, maps an
// initial vowel to א, and upgrades a trailing "a" to the feminine ending ה.
func (n *Normalizer) latin(word string) string {
	lower := strings.ToLower(strings.TrimSpace(word))
	if hebrew, ok := n.commonNames[lower]; ok {
		return hebrew
	}

	runes := []rune(strings.ToLower(word))
	var b strings.Builder
	for i := 0; i < len(runes); {
		matched := false
		for _, dg := range digraphsByLength {
			dgRunes := []rune(dg)
			if i+len(dgRunes) <= len(runes) && string(runes[i:i+len(dgRunes)]) == dg {
				b.WriteString(latinDigraphs[dg])
				i += len(dgRunes)
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		r := runes[i]
		if i == 0 && (r == 'a' || r == 'e' || r == 'o' || r == 'u') {
			b.WriteString("א")
		} else {
			b.WriteString(latinToHebrew[r])
		}
		i++
	}

	result := b.String()
	if strings.HasSuffix(strings.ToLower(word), "a") {
		if strings.HasSuffix(result, "א") {
			result = strings.TrimSuffix(result, "א") + "ה"
		} else {
			result += "ה"
		}
	}
	return applyFinalLetters(result)
}

// applyFinalLetters replaces a trailing Hebrew letter with its word-final
// form where one exists.
func applyFinalLetters(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return name
	}
	if final, ok := finalLetters[runes[len(runes)-1]]; ok {
		runes[len(runes)-1] = final
	}
	return string(runes)
}
