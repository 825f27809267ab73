package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot owns the gateway session lifecycle.
type Bot struct {
	session *discordgo.Session
	router  *Router
	logger  *zap.Logger
}

// NewSession creates a discordgo session for a bot token with the intents
// needed to see guild members in interactions.
func NewSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("bot: empty token")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("bot: create session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	return s, nil
}

func New(session *discordgo.Session, router *Router, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{session: session, router: router, logger: logger}
}

// Run opens the gateway connection, serves interactions until ctx is done,
// then closes the session.
func (b *Bot) Run(ctx context.Context) error {
	remove := b.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		b.router.Dispatch(ctx, s, ic.Interaction)
	})
	defer remove()

	b.session.AddHandlerOnce(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("gateway ready", zap.String("user", r.User.Username), zap.Int("guilds", len(r.Guilds)))
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("bot: open gateway: %w", err)
	}
	b.logger.Info("bot started")

	<-ctx.Done()

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("bot: close gateway: %w", err)
	}
	b.logger.Info("bot stopped")
	return nil
}
