// Package slug derives URL path segments from entry titles.
package slug

import (
	"regexp"
	"strings"
)

// disallowedRun matches every run of characters outside ASCII lowercase
// letters, digits and the precomposed Hangul syllable block (U+AC00..U+D7A3).
var disallowedRun = regexp.MustCompile(`[^a-z0-9가-힣]+`)

// Separator replaces each run of disallowed characters.
const Separator = "-"

// dottedCapitalI lowercases to "i" plus a combining dot above in the
// full Unicode mapping, which strings.ToLower collapses to plain "i".
var dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")

// Make derives a slug from a title:
//  1. Lowercase
//  2. Replace each run of disallowed characters with a single dash
//  3. Drop one leading and one trailing dash
//
// Examples:
//
//	"Talisker 10년"           → "talisker-10년"
//	"Lagavulin 16 (Islay)!"  → "lagavulin-16-islay"
//	"  --Ardbeg--  "         → "ardbeg"
//	"山崎 12"                 → "12"
//	"İSLAY Malt"             → "i-slay-malt"
//
// Slugs are not unique; two titles may produce the same slug.
func Make(title string) string {
	s := strings.ToLower(dottedCapitalI.Replace(title))
	s = disallowedRun.ReplaceAllString(s, Separator)
	s = strings.TrimPrefix(s, Separator)
	s = strings.TrimSuffix(s, Separator)
	return s
}

// Valid reports whether s could have been produced by Make.
func Valid(s string) bool {
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, Separator) || strings.HasSuffix(s, Separator) || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r >= '가' && r <= '힣', r == '-':
		default:
			return false
		}
	}
	return true
}
