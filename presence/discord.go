package presence

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// Discord implements Surface on top of a discordgo session.
type Discord struct {
	session *discordgo.Session
}

// NewDiscord wraps an opened or unopened discordgo session.
func NewDiscord(session *discordgo.Session) *Discord {
	return &Discord{session: session}
}

// Member returns the guild member, preferring the gateway state cache.
func (d *Discord) Member(ctx context.Context, guildID, userID string) (Member, error) {
	if d.session.State != nil {
		if m, err := d.session.State.Member(guildID, userID); err == nil && m.User != nil {
			return FromDiscordMember(guildID, m), nil
		}
	}

	m, err := d.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return Member{}, classify("get member", err)
	}
	return FromDiscordMember(guildID, m), nil
}

// SetNickname renames the member. An empty nickname resets it.
func (d *Discord) SetNickname(ctx context.Context, guildID, userID, nickname, reason string) error {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	if err := d.session.GuildMemberNickname(guildID, userID, nickname, opts...); err != nil {
		return classify("set nickname", err)
	}
	return nil
}

// FromDiscordMember converts a discordgo member. guildID is used when the
// payload omits it, as interaction payloads do.
func FromDiscordMember(guildID string, m *discordgo.Member) Member {
	out := Member{GuildID: m.GuildID, Nickname: m.Nick}
	if out.GuildID == "" {
		out.GuildID = guildID
	}
	if m.User != nil {
		out.UserID = m.User.ID
		out.Username = m.User.Username
		out.GlobalName = m.User.GlobalName
	}
	return out
}

func classify(op string, err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
				return fmt.Errorf("presence: %s: %w: %s", op, ErrPermissionDenied, restErr.Message.Message)
			case discordgo.ErrCodeUnknownMember:
				return fmt.Errorf("presence: %s: %w", op, ErrMemberNotFound)
			}
		}
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
			return fmt.Errorf("presence: %s: %w", op, ErrPermissionDenied)
		}
	}
	return fmt.Errorf("presence: %s: %w: %w", op, ErrTransient, err)
}
