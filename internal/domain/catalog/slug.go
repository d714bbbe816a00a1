package catalog

import (
	"strings"
	"unicode"
)

// maxSlugLength caps generated slugs
const maxSlugLength = 100

// Slugify turns a display name into a lowercase URL-safe slug. Accented
// letters are folded to their ASCII base where a trivial mapping exists;
// anything else collapses to a single hyphen. Slugs are only unique per
// provider, not globally.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		r = foldRune(r)
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		if b.Len() >= maxSlugLength {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}

// foldRune maps common accented letters to their ASCII base
func foldRune(r rune) rune {
	if r < 0x80 {
		return r
	}
	switch {
	case unicode.Is(unicode.Latin, r):
		if folded, ok := latinFolds[r]; ok {
			return folded
		}
	}
	return r
}

var latinFolds = map[rune]rune{
	'ă': 'a', 'â': 'a', 'á': 'a', 'à': 'a', 'ä': 'a', 'ã': 'a', 'å': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ș': 's', 'ş': 's', 'ß': 's',
	'ț': 't', 'ţ': 't',
	'ç': 'c', 'ñ': 'n', 'ý': 'y',
}
