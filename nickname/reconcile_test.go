package nickname

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowstatus/status"
)

func TestTargetName_Scenarios(t *testing.T) {
	assert.Equal(t, "Alice [busy]", TargetName("Alice", status.Busy))
	assert.Equal(t, "Alice [break]", TargetName("Alice [busy]", status.Break))
	assert.Equal(t, "Alice [busy]", TargetName("Alice [BUSY]", status.Busy))
	assert.Equal(t, "Alice", TargetName("Alice [busy]", status.None))

	long := "ThisIsAVeryLongDisplayNameIndeed"
	require.Equal(t, 32, len(long))
	got := TargetName(long, status.CreativeFlow)
	assert.Equal(t, "ThisIsAVeryLongD [creative-flow]", got)
	assert.Equal(t, MaxLength, utf8.RuneCountInString(got))
}

func TestTargetName_Bounded(t *testing.T) {
	names := append([]string{
		strings.Repeat("a", 100),
		strings.Repeat("\u00e9", 40),
		strings.Repeat("🎧", 33) + " [busy]",
	}, sampleNames...)

	for _, v := range status.Values() {
		suffix := SuffixFor(v)
		for _, name := range names {
			got := TargetName(name, v)
			assert.LessOrEqualf(t, utf8.RuneCountInString(got), MaxLength, "TargetName(%q, %s) = %q", name, v, got)
			assert.Truef(t, strings.HasSuffix(got, suffix), "TargetName(%q, %s) = %q lost its suffix", name, v, got)
			assert.True(t, utf8.ValidString(got))
		}
	}
}

func TestTargetName_TruncatesByCharacter(t *testing.T) {
	got := TargetName(strings.Repeat("\u00e9", 40), status.CreativeFlow)
	assert.Equal(t, strings.Repeat("\u00e9", 16)+" [creative-flow]", got)
}

func TestTargetName_NormalisesBeforeTruncating(t *testing.T) {
	decomposed := strings.Repeat("e\u0301", 40)
	got := TargetName(decomposed, status.Busy)
	assert.Equal(t, strings.Repeat("\u00e9", 25)+" [busy]", got)
}

func TestTargetName_DropsWhitespaceAtCut(t *testing.T) {
	base := strings.Repeat("a", 15) + " " + strings.Repeat("b", 20)
	got := TargetName(base, status.CreativeFlow)
	assert.Equal(t, strings.Repeat("a", 15)+" [creative-flow]", got)
	assert.Equal(t, MaxLength-1, utf8.RuneCountInString(got))
	assert.False(t, NeedsUpdate(got, TargetName(got, status.CreativeFlow)))
}

func TestTargetName_SuffixWithoutRoom(t *testing.T) {
	v := status.Value(strings.Repeat("x", 40))
	got := TargetName("Bob", v)
	assert.Equal(t, strings.Repeat("x", 32), got)
}

func TestTargetName_NoneStripsOnly(t *testing.T) {
	for _, name := range sampleNames {
		assert.Equal(t, Strip(name), TargetName(name, status.None))
	}
}

func TestNeedsUpdate(t *testing.T) {
	for _, name := range sampleNames {
		assert.False(t, NeedsUpdate(name, name))
	}
	assert.True(t, NeedsUpdate("Alice", "Alice [busy]"))
	assert.True(t, NeedsUpdate("alice", "Alice"))
}

func TestTargetName_StableOnceApplied(t *testing.T) {
	for _, v := range status.Values() {
		for _, name := range sampleNames {
			target := TargetName(name, v)
			assert.Falsef(t, NeedsUpdate(target, TargetName(target, v)), "re-applying %s to %q", v, target)
		}
	}
}

func TestClearTarget(t *testing.T) {
	cases := []struct {
		name        string
		current     string
		username    string
		policy      ClearPolicy
		want        Target
		wantChanged bool
	}{
		{"untagged untouched", "Carol", "carol99", ClearPolicyUsernameMatch, Target{Name: "Carol"}, false},
		{"base equals username resets", "Carol [break]", "Carol", ClearPolicyUsernameMatch, Target{Reset: true}, true},
		{"custom base kept", "Caz [break]", "Carol", ClearPolicyUsernameMatch, Target{Name: "Caz"}, true},
		{"username match is case sensitive", "carol [break]", "Carol", ClearPolicyUsernameMatch, Target{Name: "carol"}, true},
		{"empty base resets", " [busy]", "Carol", ClearPolicyUsernameMatch, Target{Reset: true}, true},
		{"always policy resets", "Caz [break]", "Carol", ClearPolicyAlways, Target{Reset: true}, true},
		{"always policy ignores untagged", "Caz", "Carol", ClearPolicyAlways, Target{Name: "Caz"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := ClearTarget(tc.current, tc.username, tc.policy)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantChanged, changed)
		})
	}
}

func TestTarget_Nickname(t *testing.T) {
	assert.Equal(t, "", Target{Name: "ignored", Reset: true}.Nickname())
	assert.Equal(t, "Caz", Target{Name: "Caz"}.Nickname())
}

func TestParseClearPolicy(t *testing.T) {
	p, err := ParseClearPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ClearPolicyUsernameMatch, p)

	p, err = ParseClearPolicy("always")
	require.NoError(t, err)
	assert.Equal(t, ClearPolicyAlways, p)

	_, err = ParseClearPolicy("sometimes")
	assert.Error(t, err)
}
