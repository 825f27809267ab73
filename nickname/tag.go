// Package nickname derives the guild nickname that reflects a member's status.
//
// A status is shown as a bot-owned suffix, " [busy]", appended to the member's
// own base name. Everything here is pure string manipulation. Callers fetch
// the current display name and apply the computed target themselves.
package nickname

import (
	"strings"

	"golang.org/x/text/cases"

	"flowstatus/status"
)

// foldedSuffixes caches the caseless form of every known suffix.
var foldedSuffixes = func() map[status.Value]string {
	out := make(map[status.Value]string, len(status.Values()))
	for _, v := range status.Values() {
		out[v] = cases.Fold().String(SuffixFor(v))
	}
	return out
}()

// SuffixFor returns the tag appended to a nickname for v.
func SuffixFor(v status.Value) string {
	return " [" + string(v) + "]"
}

// Strip removes trailing status tags from name along with surrounding
// whitespace. Tags match caselessly and only at the very end; the base keeps
// its original case. Stacked tags are all removed, so Strip is idempotent.
func Strip(name string) string {
	s := name
	for {
		if base, ok := cutTag(s); ok {
			s = base
			continue
		}
		if trimmed := strings.TrimSpace(s); trimmed != s {
			s = trimmed
			continue
		}
		return s
	}
}

// HasTag reports whether name carries a recognised status tag.
func HasTag(name string) bool {
	return Strip(name) != name
}

func cutTag(s string) (string, bool) {
	for _, v := range status.Values() {
		suffix := foldedSuffixes[v]
		if len(s) < len(suffix) {
			continue
		}
		cut := len(s) - len(suffix)
		// Caser values carry state and are not safe to share.
		if cases.Fold().String(s[cut:]) == suffix {
			return s[:cut], true
		}
	}
	return s, false
}
