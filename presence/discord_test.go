package presence

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	apiErr := func(code int) error {
		return fmt.Errorf("request failed: %w", &discordgo.RESTError{
			Message: &discordgo.APIErrorMessage{Code: code, Message: "api message"},
		})
	}

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"missing permissions", apiErr(discordgo.ErrCodeMissingPermissions), ErrPermissionDenied},
		{"missing access", apiErr(discordgo.ErrCodeMissingAccess), ErrPermissionDenied},
		{"unknown member", apiErr(discordgo.ErrCodeUnknownMember), ErrMemberNotFound},
		{"forbidden without body", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}, ErrPermissionDenied},
		{"server error", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusBadGateway}}, ErrTransient},
		{"network", errors.New("dial tcp: i/o timeout"), ErrTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify("set nickname", tc.err)
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestClassify_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	got := classify("get member", cause)
	assert.ErrorIs(t, got, cause)
	assert.ErrorIs(t, got, ErrTransient)
}

func TestFromDiscordMember(t *testing.T) {
	m := FromDiscordMember("g1", &discordgo.Member{
		Nick: "Carol [break]",
		User: &discordgo.User{ID: "u1", Username: "carol", GlobalName: "Carol"},
	})
	assert.Equal(t, Member{GuildID: "g1", UserID: "u1", Username: "carol", GlobalName: "Carol", Nickname: "Carol [break]"}, m)
	assert.Equal(t, "Carol [break]", m.DisplayName())
}

func TestMember_DisplayName(t *testing.T) {
	assert.Equal(t, "Nick", Member{Nickname: "Nick", GlobalName: "Global", Username: "user"}.DisplayName())
	assert.Equal(t, "Global", Member{GlobalName: "Global", Username: "user"}.DisplayName())
	assert.Equal(t, "user", Member{Username: "user"}.DisplayName())
}
