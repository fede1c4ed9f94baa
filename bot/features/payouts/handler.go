package payouts

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

const payoutStatusPrefix = "payout_status_"

func (f *Feature) handlePayoutRequest(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var amount int64
	var character, server string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "character":
			character = opt.StringValue()
		case "server":
			server = opt.StringValue()
		}
	}

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	request, err := f.payoutService.RequestPayout(ctx, userID, amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			common.RespondWithError(s, i, "Amount must be greater than 0.")
		case errors.Is(err, service.ErrInsufficientBalance):
			common.RespondWithError(s, i, "You do not have enough available gold for this payout (If you have a pending payout request please wait for it to be completed before requesting a new one).")
		default:
			log.Errorf("Error creating payout request for user %d: %v", userID, err)
			common.RespondWithError(s, i, "Unable to submit payout request. Please try again.")
		}
		return
	}

	message := fmt.Sprintf("✅ Payout request for **%sg** to **%s** has been submitted.", common.FormatGold(amount), character)
	if err := common.RespondWithMessage(s, i, message, true); err != nil {
		log.Errorf("Error responding to payout command: %v", err)
	}

	f.postPayoutNotice(s, i, request.ID, amount, character, server)
}

// postPayoutNotice drops the request into the officer channel with a status
// dropdown. A missing channel only costs the notice, never the request.
func (f *Feature) postPayoutNotice(s *discordgo.Session, i *discordgo.InteractionCreate, payoutID int64, amount int64, character, server string) {
	channel := common.FindChannelByName(s, i.GuildID, f.config.PayoutChannelName)
	if channel == nil {
		log.Warnf("Payout channel %q not found, skipping officer notice for payout %d", f.config.PayoutChannelName, payoutID)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "💰 Payout Request",
		Color: 0xF1C40F,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", i.Member.User.ID), Inline: true},
			{Name: "Amount", Value: fmt.Sprintf("%sg", common.FormatGold(amount)), Inline: true},
			{Name: "Character", Value: character, Inline: true},
			{Name: "Server", Value: server, Inline: true},
			{Name: "Status", Value: "Waiting", Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Payout ID: %d", payoutID),
		},
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    fmt.Sprintf("%s%d", payoutStatusPrefix, payoutID),
					Placeholder: "Change status...",
					Options: []discordgo.SelectMenuOption{
						{Label: "Waiting", Value: "waiting", Default: true},
						{Label: "Complete", Value: "complete"},
					},
				},
			},
		},
	}

	_, err := s.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		log.Errorf("Error posting payout notice for payout %d: %v", payoutID, err)
	}
}

func (f *Feature) handleStatusSelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	data := i.MessageComponentData()
	if len(data.Values) == 0 || data.Values[0] != "complete" {
		// Re-selecting "Waiting" changes nothing
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		}); err != nil {
			log.Errorf("Error acknowledging payout status select: %v", err)
		}
		return
	}

	payoutID, err := strconv.ParseInt(strings.TrimPrefix(data.CustomID, payoutStatusPrefix), 10, 64)
	if err != nil {
		log.Errorf("Error parsing payout id from custom id %s: %v", data.CustomID, err)
		common.RespondWithError(s, i, "Unable to process payout. Please try again.")
		return
	}

	officerID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing officer Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process payout. Please try again.")
		return
	}

	if err := f.payoutService.SettlePayout(ctx, payoutID, officerID, nil); err != nil {
		switch {
		case errors.Is(err, service.ErrPayoutNotPending):
			common.RespondWithError(s, i, "This payout has already been processed.")
		case errors.Is(err, service.ErrPayoutNotFound):
			common.RespondWithError(s, i, "Payout request not found.")
		default:
			log.Errorf("Error settling payout %d: %v", payoutID, err)
			common.RespondWithError(s, i, "Unable to process payout. Please try again.")
		}
		return
	}

	f.finishPayoutNotice(s, i, payoutID)
}

// finishPayoutNotice flips the embed to Complete, disables the dropdown and
// DMs the requester. The payout is settled at this point; presentation
// failures are logged and dropped.
func (f *Feature) finishPayoutNotice(s *discordgo.Session, i *discordgo.InteractionCreate, payoutID int64) {
	ctx := context.Background()

	if len(i.Message.Embeds) == 0 {
		log.Errorf("Payout notice for payout %d has no embed", payoutID)
		return
	}
	embed := i.Message.Embeds[0]

	var userMention, amountText, character, server string
	for _, field := range embed.Fields {
		switch field.Name {
		case "User":
			userMention = field.Value
		case "Amount":
			amountText = field.Value
		case "Character":
			character = field.Value
		case "Server":
			server = field.Value
		case "Status":
			field.Value = "Complete"
		}
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID: fmt.Sprintf("%s%d", payoutStatusPrefix, payoutID),
					Disabled: true,
					Options: []discordgo.SelectMenuOption{
						{Label: "Complete", Value: "complete", Default: true},
					},
				},
			},
		},
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Errorf("Error updating payout notice for payout %d: %v", payoutID, err)
	}

	recipientID := strings.Trim(userMention, "<@!>")
	userID, err := strconv.ParseInt(recipientID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing recipient id %q for payout %d: %v", userMention, payoutID, err)
		return
	}

	newBalance, err := f.ledgerService.GetBalance(ctx, userID)
	if err != nil {
		log.Errorf("Error getting balance for payout DM to user %d: %v", userID, err)
		return
	}

	dm := &discordgo.MessageEmbed{
		Title: "Payout Completed!",
		Color: 0x57F287,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Amount Paid", Value: fmt.Sprintf("**%s**", amountText)},
			{Name: "New Balance", Value: fmt.Sprintf("**%sg**", common.FormatGold(newBalance))},
			{Name: "Info", Value: fmt.Sprintf("Payout Completed! Gold has been mailed to **%s-%s**. Please wait up to an hour for mail to arrive.", character, server)},
		},
	}
	common.SendDM(s, recipientID, dm)
}

func (f *Feature) handlePayoutCancel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var payoutID int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "id" {
			payoutID = opt.IntValue()
		}
	}

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Without an id, show the user's pending requests instead
	if payoutID == 0 {
		f.listPendingPayouts(s, i, userID)
		return
	}

	if err := f.payoutService.CancelPayout(ctx, payoutID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrPayoutNotFound):
			common.RespondWithError(s, i, "No pending payout request with that ID was found.")
		case errors.Is(err, service.ErrPayoutNotPending):
			common.RespondWithError(s, i, "This payout request has already been processed.")
		default:
			log.Errorf("Error cancelling payout %d for user %d: %v", payoutID, userID, err)
			common.RespondWithError(s, i, "Unable to cancel payout request. Please try again.")
		}
		return
	}

	message := fmt.Sprintf("✅ Payout request **#%d** has been cancelled.", payoutID)
	if err := common.RespondWithMessage(s, i, message, true); err != nil {
		log.Errorf("Error responding to payoutcancel command: %v", err)
	}
}

func (f *Feature) listPendingPayouts(s *discordgo.Session, i *discordgo.InteractionCreate, userID int64) {
	ctx := context.Background()

	requests, err := f.payoutService.ListPending(ctx, userID)
	if err != nil {
		log.Errorf("Error listing pending payouts for user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to fetch your payout requests. Please try again.")
		return
	}

	if len(requests) == 0 {
		if err := common.RespondWithMessage(s, i, "You have no pending payout requests.", true); err != nil {
			log.Errorf("Error responding to payoutcancel command: %v", err)
		}
		return
	}

	var lines []string
	for _, request := range requests {
		lines = append(lines, fmt.Sprintf("**#%d** - %sg (requested %s)",
			request.ID, common.FormatGold(request.Amount),
			common.FormatDiscordTimestamp(request.RequestedAt, "R")))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "⏳ Pending Payout Requests",
		Color:       0xF1C40F,
		Description: strings.Join(lines, "\n"),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Use /payoutcancel id:<id> to cancel a request",
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding with pending payouts: %v", err)
	}
}
