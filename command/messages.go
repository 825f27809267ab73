package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"flowstatus/presence"
	"flowstatus/status"
)

const (
	msgGuildOnly    = "❌ This command can only be used in a server to manage nicknames."
	msgStoreFailure = "❌ An error occurred while trying to process your status. Please try again later."
	msgNoStatus     = "🤔 You do not have an active custom status set in this server. Use `/status <your-status>` to set one!"

	msgInvalidStatus = "❌ Unknown status `%s`. Choose one of: %s."
	msgStatusSet     = "✅ Your status has been set to: **%s**. It will expire in %s."
	msgCurrentStatus = "🌐 Your current status is: **%s** (expires <t:%d:R>)"

	msgNicknameUpdated      = "\nYour server nickname has been updated to: `%s`."
	msgNicknameUnchanged    = "\nYour server nickname already shows it: `%s`."
	msgNicknameSynchronized = "\nYour server nickname has been synchronized to: `%s`."
	msgNicknameReset        = "\nYour server nickname has been reset."

	msgNicknameDenied = "\n⚠️ I could not %s your nickname due to missing permissions. " +
		"Please ensure I have the \"Manage Nicknames\" permission and my role is above yours."
	msgNicknameFailed = "\n⚠️ An unexpected error occurred while trying to %s your nickname."
)

// Audit-log reasons attached to nickname writes.
const (
	reasonSet   = "Set user status via Flow Status Bot"
	reasonSync  = "Synchronize user status nickname"
	reasonClear = "Remove expired/no status from nickname"
)

func nicknameWarning(err error, verb string) string {
	if errors.Is(err, presence.ErrPermissionDenied) {
		return fmt.Sprintf(msgNicknameDenied, verb)
	}
	return fmt.Sprintf(msgNicknameFailed, verb)
}

func choiceList() string {
	values := status.Values()
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d > 0 && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int64(d/time.Hour))
	case d == time.Minute:
		return "1 minute"
	case d > 0 && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int64(d/time.Minute))
	default:
		return d.String()
	}
}
