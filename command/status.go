// Package command implements the /status slash command flow: persisting a
// member's status and keeping their guild nickname in line with it.
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"flowstatus/nickname"
	"flowstatus/presence"
	"flowstatus/status"
)

// StatusStore abstracts status.Service for the handler.
type StatusStore interface {
	Set(ctx context.Context, userID, guildID string, v status.Value) (status.Record, error)
	Current(ctx context.Context, userID, guildID string) (status.Record, error)
}

// Request is a normalised /status invocation.
type Request struct {
	GuildID string
	UserID  string
	// Status is the raw option value; empty asks for the current status.
	Status string
	// Member is the invoking member when the interaction carried it.
	Member *presence.Member
}

// Response is the text shown back to the invoking member.
type Response struct {
	Content string
}

// StatusHandler runs the set, synchronise and clear paths of /status.
type StatusHandler struct {
	store       StatusStore
	surface     presence.Surface
	clearPolicy nickname.ClearPolicy
	logger      *zap.Logger
}

// NewStatusHandler wires the handler. A nil logger discards output.
func NewStatusHandler(store StatusStore, surface presence.Surface, clearPolicy nickname.ClearPolicy, logger *zap.Logger) *StatusHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clearPolicy == "" {
		clearPolicy = nickname.ClearPolicyUsernameMatch
	}
	return &StatusHandler{
		store:       store,
		surface:     surface,
		clearPolicy: clearPolicy,
		logger:      logger,
	}
}

// Handle executes req. Failures are reported in the response text; a
// nickname failure never undoes a status write.
func (h *StatusHandler) Handle(ctx context.Context, req Request) Response {
	if req.GuildID == "" {
		return Response{Content: msgGuildOnly}
	}

	log := h.logger.With(zap.String("user_id", req.UserID), zap.String("guild_id", req.GuildID))
	if req.Status != "" {
		return h.set(ctx, log, req)
	}
	return h.show(ctx, log, req)
}

func (h *StatusHandler) set(ctx context.Context, log *zap.Logger, req Request) Response {
	v, err := status.Parse(req.Status)
	if err != nil {
		log.Warn("rejected status value", zap.String("status", req.Status))
		return Response{Content: fmt.Sprintf(msgInvalidStatus, req.Status, choiceList())}
	}

	rec, err := h.store.Set(ctx, req.UserID, req.GuildID, v)
	if err != nil {
		log.Error("set status", zap.Error(err))
		return Response{Content: msgStoreFailure}
	}
	log.Info("status set", zap.String("status", string(rec.Status)), zap.Time("expires_at", rec.ExpiresAt))

	var b strings.Builder
	fmt.Fprintf(&b, msgStatusSet, rec.Status, humanizeDuration(rec.ExpiresAt.Sub(rec.SetAt)))

	member, err := h.member(ctx, req)
	if err != nil {
		log.Warn("load member", zap.Error(err))
		b.WriteString(nicknameWarning(err, "update"))
		return Response{Content: b.String()}
	}

	current := member.DisplayName()
	target := nickname.TargetName(current, v)
	if !nickname.NeedsUpdate(current, target) {
		fmt.Fprintf(&b, msgNicknameUnchanged, target)
		return Response{Content: b.String()}
	}

	if err := h.rename(ctx, log, req, nickname.Target{Name: target}, reasonSet); err != nil {
		b.WriteString(nicknameWarning(err, "update"))
	} else {
		fmt.Fprintf(&b, msgNicknameUpdated, target)
	}
	return Response{Content: b.String()}
}

func (h *StatusHandler) show(ctx context.Context, log *zap.Logger, req Request) Response {
	rec, err := h.store.Current(ctx, req.UserID, req.GuildID)
	if errors.Is(err, status.ErrNoActiveStatus) {
		return h.clear(ctx, log, req)
	}
	if err != nil {
		log.Error("query status", zap.Error(err))
		return Response{Content: msgStoreFailure}
	}

	var b strings.Builder
	fmt.Fprintf(&b, msgCurrentStatus, rec.Status, rec.ExpiresAt.Unix())

	member, err := h.member(ctx, req)
	if err != nil {
		log.Warn("load member", zap.Error(err))
		b.WriteString(nicknameWarning(err, "synchronize"))
		return Response{Content: b.String()}
	}

	current := member.DisplayName()
	target := nickname.TargetName(current, rec.Status)
	if !nickname.NeedsUpdate(current, target) {
		return Response{Content: b.String()}
	}

	if err := h.rename(ctx, log, req, nickname.Target{Name: target}, reasonSync); err != nil {
		b.WriteString(nicknameWarning(err, "synchronize"))
	} else {
		fmt.Fprintf(&b, msgNicknameSynchronized, target)
	}
	return Response{Content: b.String()}
}

func (h *StatusHandler) clear(ctx context.Context, log *zap.Logger, req Request) Response {
	var b strings.Builder
	b.WriteString(msgNoStatus)

	member, err := h.member(ctx, req)
	if err != nil {
		log.Warn("load member", zap.Error(err))
		b.WriteString(nicknameWarning(err, "reset"))
		return Response{Content: b.String()}
	}

	target, changed := nickname.ClearTarget(member.DisplayName(), member.Username, h.clearPolicy)
	if !changed {
		return Response{Content: b.String()}
	}

	if err := h.rename(ctx, log, req, target, reasonClear); err != nil {
		b.WriteString(nicknameWarning(err, "reset"))
	} else {
		b.WriteString(msgNicknameReset)
	}
	return Response{Content: b.String()}
}

func (h *StatusHandler) member(ctx context.Context, req Request) (presence.Member, error) {
	if req.Member != nil {
		return *req.Member, nil
	}
	return h.surface.Member(ctx, req.GuildID, req.UserID)
}

func (h *StatusHandler) rename(ctx context.Context, log *zap.Logger, req Request, target nickname.Target, reason string) error {
	err := h.surface.SetNickname(ctx, req.GuildID, req.UserID, target.Nickname(), reason)
	if err != nil {
		log.Warn("nickname write failed",
			zap.String("nickname", target.Nickname()),
			zap.Bool("reset", target.Reset),
			zap.Error(err),
		)
		return err
	}
	log.Debug("nickname written", zap.String("nickname", target.Nickname()), zap.Bool("reset", target.Reset))
	return nil
}
