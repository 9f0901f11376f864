package slugify

import (
	"regexp"
	"strings"
)

// fallback is used when nothing of the input survives normalization.
const fallback = "item"

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make turns arbitrary display text into a lowercase, hyphenated identifier
// and prepends prefix. Non-ASCII characters are dropped, not transliterated.
// Make does not guarantee uniqueness; callers check their registries.
func Make(text, prefix string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}

	cleaned := strings.Trim(nonAlnum.ReplaceAllString(b.String(), "-"), "-")
	if cleaned == "" {
		cleaned = fallback
	}
	return prefix + cleaned
}
