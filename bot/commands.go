package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var (
	manageGuildPermission   = int64(discordgo.PermissionManageGuild)
	administratorPermission = int64(discordgo.PermissionAdministrator)
)

func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your gold balance",
		},
		{
			Name:                     "credit",
			Description:              "Credit gold to a user (officers only)",
			DefaultMemberPermissions: &manageGuildPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to credit gold to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of gold to credit",
					Required:    true,
				},
			},
		},
		{
			Name:                     "ledger",
			Description:              "View total credited gold vs total player balances",
			DefaultMemberPermissions: &administratorPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Show recent ledger entries for this user instead",
					Required:    false,
				},
			},
		},
		{
			Name:        "coinflip",
			Description: "Flip a coin and bet gold",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "wager",
					Description: "Amount of gold to wager",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "guess",
					Description: "Your call",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Heads", Value: "heads"},
						{Name: "Tails", Value: "tails"},
					},
				},
			},
		},
		{
			Name:        "wheel",
			Description: "Spin the gold wheel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of gold to bet",
					Required:    true,
				},
			},
		},
		{
			Name:        "payout",
			Description: "Request a payout to an in-game character",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of gold to pay out",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "character",
					Description: "Character to mail the gold to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "server",
					Description: "Server the character is on",
					Required:    true,
				},
			},
		},
		{
			Name:        "payoutcancel",
			Description: "Cancel one of your pending payout requests",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "id",
					Description: "Payout request ID to cancel (omit to list your pending requests)",
					Required:    false,
				},
			},
		},
		{
			Name:        "buyticket",
			Description: "Buy lottery tickets",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Number of tickets to buy",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "1 ticket", Value: 1},
						{Name: "2 tickets", Value: 2},
						{Name: "5 tickets", Value: 5},
						{Name: "10 tickets", Value: 10},
					},
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
