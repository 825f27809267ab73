// Package presence reads and writes guild nicknames on Discord.
package presence

import (
	"context"
	"errors"
)

var (
	// ErrPermissionDenied signals the bot may not rename the member, usually
	// because it lacks Manage Nicknames or the member's role is above the bot's.
	ErrPermissionDenied = errors.New("presence: permission denied")
	// ErrMemberNotFound signals the member is not in the guild.
	ErrMemberNotFound = errors.New("presence: member not found")
	// ErrTransient covers every other failure; the call may be retried.
	ErrTransient = errors.New("presence: transient failure")
)

// Member is the subset of a guild member needed to reconcile nicknames.
type Member struct {
	GuildID    string
	UserID     string
	Username   string
	GlobalName string
	Nickname   string
}

// DisplayName is the name Discord shows for the member in the guild.
func (m Member) DisplayName() string {
	switch {
	case m.Nickname != "":
		return m.Nickname
	case m.GlobalName != "":
		return m.GlobalName
	default:
		return m.Username
	}
}

// Surface is the external nickname store.
type Surface interface {
	Member(ctx context.Context, guildID, userID string) (Member, error)
	// SetNickname writes nickname with an audit-log reason. An empty nickname
	// removes the guild override.
	SetNickname(ctx context.Context, guildID, userID, nickname, reason string) error
}
