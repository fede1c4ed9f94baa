package balance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"reverb/bot/common"
	"reverb/service"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	balance, err := f.ledgerService.GetBalance(ctx, userID)
	if err != nil {
		log.Errorf("Error getting balance for user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	message := fmt.Sprintf("💰 Your current gold balance is **%sg**", common.FormatGold(balance))
	if err := common.RespondWithMessage(s, i, message, true); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func (f *Feature) handleCredit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var amount int64
	var targetUser *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			targetUser = opt.UserValue(s)
		}
	}

	if targetUser == nil {
		common.RespondWithError(s, i, "Invalid user.")
		return
	}

	officerID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing officer Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	userID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", targetUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	newBalance, err := f.ledgerService.Credit(ctx, officerID, userID, amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			common.RespondWithError(s, i, "Amount must be greater than 0.")
			return
		}
		log.Errorf("Error crediting %d gold to user %d: %v", amount, userID, err)
		common.RespondWithError(s, i, "Unable to credit gold. Please try again.")
		return
	}

	// Confirmation is public so the channel has a visible record
	embed := &discordgo.MessageEmbed{
		Title:       "Gold Credited",
		Description: fmt.Sprintf("**%sg** has been credited to <@%s>.\nNew balance: **%sg**", common.FormatGold(amount), targetUser.ID, common.FormatGold(newBalance)),
		Color:       0x57F287,
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to credit command: %v", err)
	}
}

func (f *Feature) handleLedger(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			f.handleLedgerHistory(s, i, opt.UserValue(s))
			return
		}
	}

	summary, err := f.ledgerService.Summary(ctx)
	if err != nil {
		log.Errorf("Error getting ledger summary: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve ledger overview. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "📒 Gold Ledger Overview",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Gold Credited", Value: fmt.Sprintf("**%sg**", common.FormatGold(summary.TotalCredited))},
			{Name: "Total Player Balances", Value: fmt.Sprintf("**%sg**", common.FormatGold(summary.TotalBalance))},
			{Name: "Guild Position", Value: fmt.Sprintf("**%sg**", common.FormatGold(summary.GuildPosition()))},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Guild Position = Credited − Outstanding Balances",
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to ledger command: %v", err)
	}
}

func (f *Feature) handleLedgerHistory(s *discordgo.Session, i *discordgo.InteractionCreate, targetUser *discordgo.User) {
	ctx := context.Background()

	if targetUser == nil {
		common.RespondWithError(s, i, "Invalid user.")
		return
	}

	userID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", targetUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	entries, err := f.ledgerService.GetHistory(ctx, userID, 15)
	if err != nil {
		log.Errorf("Error getting ledger history for user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve ledger history. Please try again.")
		return
	}

	if len(entries) == 0 {
		message := fmt.Sprintf("<@%s> has no ledger entries.", targetUser.ID)
		if err := common.RespondWithMessage(s, i, message, true); err != nil {
			log.Errorf("Error responding to ledger command: %v", err)
		}
		return
	}

	var lines []string
	for _, entry := range entries {
		sign := "+"
		if entry.Amount < 0 {
			sign = ""
		}
		lines = append(lines, fmt.Sprintf("%s **%s%sg** %s", common.FormatDiscordTimestamp(entry.CreatedAt, "d"), sign, common.FormatGold(entry.Amount), entry.Reason))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📒 Recent Ledger Entries for %s", common.GetDisplayName(s, i.GuildID, targetUser.ID)),
		Color:       0x5865F2,
		Description: strings.Join(lines, "\n"),
	}
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to ledger command: %v", err)
	}
}
