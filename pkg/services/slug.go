package services

import (
	"regexp"
	"strings"
)

var (
	wordSeparatorRe   = regexp.MustCompile(`[\s_/]+`)
	nonAlphanumericRe = regexp.MustCompile(`[^\p{L}\p{N}-]`)
	multipleDashRe    = regexp.MustCompile(`-+`)
)

// Slugify derives the URL-safe slug shown under a tag title.
//
//	"Live Music"   → "live-music"
//	"rock_n_roll"  → "rock-n-roll"
//	"  E-Sports! " → "e-sports"
//	"Música"       → "música"
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
