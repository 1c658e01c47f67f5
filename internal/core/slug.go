package core

import "strings"

// Slugify converts a free-form goal name into its canonical lookup key:
// lowercase, every run of characters outside [a-z0-9] collapsed to a single
// hyphen, leading and trailing hyphens stripped. "My Watch" and "my   watch!"
// both become "my-watch" and therefore name the same goal. Empty or
// punctuation-only input yields an empty slug; callers reject empty names
// before goal creation.
func Slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}
