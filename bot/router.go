// Package bot connects the /status command to a Discord gateway session.
package bot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"flowstatus/command"
	"flowstatus/presence"
)

// Handler executes a parsed /status request.
type Handler interface {
	Handle(ctx context.Context, req command.Request) command.Response
}

// Responder is the part of *discordgo.Session used to answer interactions.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Router dispatches slash-command interactions to the handler.
type Router struct {
	handler Handler
	timeout time.Duration
	logger  *zap.Logger
}

// NewRouter builds a Router. timeout bounds each handler run; zero disables it.
func NewRouter(handler Handler, timeout time.Duration, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{handler: handler, timeout: timeout, logger: logger}
}

// Dispatch answers i if it is a /status invocation and ignores anything else.
// The reply is deferred first so slow store calls do not expire the token.
func (r *Router) Dispatch(ctx context.Context, s Responder, i *discordgo.Interaction) {
	req, ok := RequestFromInteraction(i)
	if !ok {
		return
	}
	log := r.logger.With(zap.String("interaction_id", i.ID), zap.String("user_id", req.UserID))

	if req.GuildID == "" {
		err := s.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: r.handler.Handle(ctx, req).Content,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		}, discordgo.WithContext(ctx))
		if err != nil {
			log.Error("respond to interaction", zap.Error(err))
		}
		return
	}

	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, discordgo.WithContext(ctx))
	if err != nil {
		log.Error("defer interaction response", zap.Error(err))
		return
	}

	hctx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp := r.handler.Handle(hctx, req)
	if _, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &resp.Content}, discordgo.WithContext(ctx)); err != nil {
		log.Error("edit interaction response", zap.Error(err))
	}
}

// RequestFromInteraction extracts a /status request from i.
func RequestFromInteraction(i *discordgo.Interaction) (command.Request, bool) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return command.Request{}, false
	}
	data := i.ApplicationCommandData()
	if data.Name != command.Name {
		return command.Request{}, false
	}

	req := command.Request{GuildID: i.GuildID}
	switch {
	case i.Member != nil && i.Member.User != nil:
		req.UserID = i.Member.User.ID
		if i.GuildID != "" {
			m := presence.FromDiscordMember(i.GuildID, i.Member)
			req.Member = &m
		}
	case i.User != nil:
		req.UserID = i.User.ID
	}

	for _, opt := range data.Options {
		if opt.Name == command.OptionStatus && opt.Type == discordgo.ApplicationCommandOptionString {
			req.Status = opt.StringValue()
		}
	}
	return req, true
}
