package profilestore

import (
	"fmt"
	"strings"
	"time"
)

// Characters stripped from profile IDs. Covers everything at least one
// mainstream filesystem rejects, so a store directory syncs cleanly
// across platforms.
const unsafeIDChars = `<>:"/\|?*`

// SanitizeID maps an arbitrary display name to a filesystem-safe profile
// ID: surrounding whitespace is trimmed, interior spaces become
// underscores, and unsafe punctuation is dropped. A name that sanitizes to
// the empty string falls back to a timestamped placeholder so an ID is
// always non-empty.
func SanitizeID(name string) string {
	id := strings.TrimSpace(name)
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafeIDChars, r) {
			return -1
		}
		return r
	}, id)
	if id == "" {
		id = fmt.Sprintf("profile_%d", time.Now().Unix())
	}
	return id
}
