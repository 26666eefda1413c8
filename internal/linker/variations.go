package linker

import (
	"strings"
	"unicode"
)

// abbreviationPairs is the bidirectional technical-term table: each pair
// maps a long form to its common abbreviation and back. Matching is done
// on whole words of the lowercased target text.
var abbreviationPairs = [][2]string{
	{"kubernetes", "k8s"},
	{"database", "db"},
	{"configuration", "config"},
	{"repository", "repo"},
	{"application", "app"},
	{"authentication", "auth"},
	{"javascript", "js"},
	{"typescript", "ts"},
	{"documentation", "docs"},
	{"infrastructure", "infra"},
	{"development", "dev"},
	{"production", "prod"},
	{"postgresql", "postgres"},
	{"amazon web services", "aws"},
	{"machine learning", "ml"},
	{"continuous integration", "ci"},
}

// spellingPairs are substring substitutions covering common British and
// American spelling differences. Applied in both directions.
var spellingPairs = [][2]string{
	{"isation", "ization"},
	{"colour", "color"},
	{"behaviour", "behavior"},
	{"centre", "center"},
	{"analyse", "analyze"},
	{"licence", "license"},
	{"catalogue", "catalog"},
	{"favourite", "favorite"},
}

// cyrillicToLatin is a plain transliteration table for Cyrillic titles.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Variations derives alternative spellings of a lowercased target text:
// abbreviation/long-form swaps, British/American spelling swaps, and a
// Latin transliteration for Cyrillic text. The input itself is never part
// of the result, and the function is pure and deterministic.
func Variations(text string) []string {
	text = strings.ToLower(text)
	seen := map[string]struct{}{text: {}}
	var out []string

	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	for _, pair := range abbreviationPairs {
		add(replaceWord(text, pair[0], pair[1]))
		add(replaceWord(text, pair[1], pair[0]))
	}

	for _, pair := range spellingPairs {
		if strings.Contains(text, pair[0]) {
			add(strings.ReplaceAll(text, pair[0], pair[1]))
		}
		if strings.Contains(text, pair[1]) {
			add(strings.ReplaceAll(text, pair[1], pair[0]))
		}
	}

	add(transliterate(text))

	return out
}

// replaceWord substitutes old with new only on word boundaries, returning
// the input unchanged when old does not occur as a whole word.
func replaceWord(text, old, new string) string {
	var b strings.Builder
	from := 0
	changed := false
	for {
		i := strings.Index(text[from:], old)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(old)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			b.WriteString(text[from:start])
			b.WriteString(new)
			changed = true
		} else {
			b.WriteString(text[from:end])
		}
		from = end
	}
	if !changed {
		return text
	}
	b.WriteString(text[from:])
	return b.String()
}

// transliterate maps Cyrillic runes to Latin; it returns "" when the text
// contains no Cyrillic at all.
func transliterate(text string) string {
	hasCyrillic := false
	var b strings.Builder
	for _, r := range text {
		if repl, ok := cyrillicToLatin[unicode.ToLower(r)]; ok {
			hasCyrillic = true
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	if !hasCyrillic {
		return ""
	}
	return b.String()
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r := lastRune(s[:i])
	return !isWordChar(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r := firstRune(s[i:])
	return !isWordChar(r)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
