package command

import (
	"github.com/bwmarrin/discordgo"

	"flowstatus/status"
)

const (
	// Name is the slash command handled by StatusHandler.
	Name = "status"
	// OptionStatus carries the requested status; absent means "show mine".
	OptionStatus = "status"
)

// Definition describes the /status command with one choice per status value.
func Definition() *discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(status.Values()))
	for _, v := range status.Values() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  v.Label(),
			Value: string(v),
		})
	}

	return &discordgo.ApplicationCommand{
		Name:        Name,
		Description: "Set your custom status or view current status.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionStatus,
				Description: "Your desired status",
				Required:    false,
				Choices:     choices,
			},
		},
	}
}
