package nickname

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"flowstatus/status"
)

// MaxLength is the longest nickname Discord accepts, in characters.
const MaxLength = 32

// TargetName computes the nickname current should become for v. With
// status.None the result is the bare base name.
//
// When the tagged name does not fit MaxLength the base is cut, never the
// suffix, and whitespace left at the cut is dropped. If the suffix alone
// leaves no room for any base character the result degrades to the status
// text itself.
func TargetName(current string, v status.Value) string {
	base := Strip(current)
	if v == status.None {
		return base
	}

	suffix := SuffixFor(v)
	candidate := base + suffix
	if utf8.RuneCountInString(candidate) <= MaxLength {
		return candidate
	}

	available := MaxLength - utf8.RuneCountInString(suffix)
	if available < 1 {
		return truncate(string(v), MaxLength)
	}
	cut := strings.TrimRightFunc(truncate(norm.NFC.String(base), available), unicode.IsSpace)
	return cut + suffix
}

// NeedsUpdate reports whether writing target would change anything.
func NeedsUpdate(current, target string) bool {
	return current != target
}

// ClearPolicy decides what a stale tag is replaced with once no status is active.
type ClearPolicy string

const (
	// ClearPolicyUsernameMatch drops the guild override only when the stripped
	// name equals the account username; otherwise it keeps the stripped name.
	ClearPolicyUsernameMatch ClearPolicy = "username-match"
	// ClearPolicyAlways drops the guild override whenever a tag is removed.
	ClearPolicyAlways ClearPolicy = "always"
)

// ParseClearPolicy validates a configured policy name.
func ParseClearPolicy(raw string) (ClearPolicy, error) {
	switch p := ClearPolicy(raw); p {
	case ClearPolicyUsernameMatch, ClearPolicyAlways:
		return p, nil
	case "":
		return ClearPolicyUsernameMatch, nil
	default:
		return "", fmt.Errorf("nickname: unknown clear policy %q", raw)
	}
}

// Target is the nickname a member should end up with. Reset means the guild
// override is removed and the account name shows instead.
type Target struct {
	Name  string
	Reset bool
}

// Nickname returns the value to send to Discord, where empty removes the override.
func (t Target) Nickname() string {
	if t.Reset {
		return ""
	}
	return t.Name
}

// ClearTarget computes the nickname for a member without an active status.
// It reports false when current carries no tag and nothing should be written.
func ClearTarget(current, username string, policy ClearPolicy) (Target, bool) {
	if !HasTag(current) {
		return Target{Name: current}, false
	}

	base := Strip(current)
	if base == "" || base == username || policy == ClearPolicyAlways {
		return Target{Reset: true}, true
	}
	return Target{Name: base}, true
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
