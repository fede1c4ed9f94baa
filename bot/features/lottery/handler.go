package lottery

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"reverb/bot/common"
	"reverb/service"
)

func (f *Feature) handleBuyTicket(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "amount" {
			amount = opt.IntValue()
		}
	}

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	purchase, err := f.lotteryService.BuyTickets(ctx, userID, amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveLottery):
			common.RespondWithError(s, i, "There is no active lottery at the moment.")
		case errors.Is(err, service.ErrTicketLimitExceeded):
			common.RespondWithError(s, i, fmt.Sprintf("You can hold at most %d tickets per lottery.", f.config.MaxTickets))
		case errors.Is(err, service.ErrInsufficientBalance):
			common.RespondWithError(s, i, "You do not have enough gold to buy that many tickets.")
		case errors.Is(err, service.ErrInvalidAmount):
			common.RespondWithError(s, i, "Ticket count must be greater than 0.")
		default:
			log.Errorf("Error buying %d tickets for user %d: %v", amount, userID, err)
			common.RespondWithError(s, i, "Unable to buy tickets. Please try again.")
		}
		return
	}

	message := fmt.Sprintf("You successfully bought %d lottery ticket(s) for %sg! New balance: %sg.",
		purchase.Tickets, common.FormatGold(purchase.TotalCost), common.FormatGold(purchase.NewBalance))
	if err := common.RespondWithMessage(s, i, message, true); err != nil {
		log.Errorf("Error responding to buyticket command: %v", err)
	}

	f.logPurchase(s, i, purchase.LotteryNumber, purchase.Tickets, purchase.TotalCost, purchase.NewBalance)
	f.refreshAnnouncement(ctx, s, i.GuildID)
}

// logPurchase mirrors the purchase into the mod log channel
func (f *Feature) logPurchase(s *discordgo.Session, i *discordgo.InteractionCreate, lotteryNumber, tickets, totalCost, newBalance int64) {
	channel := common.FindChannelByName(s, i.GuildID, f.config.ModLogChannelName)
	if channel == nil {
		return
	}

	message := fmt.Sprintf("💰 <@%s> bought %d lottery ticket(s) for Lottery #%d for %sg. New balance: %sg.",
		i.Member.User.ID, tickets, lotteryNumber, common.FormatGold(totalCost), common.FormatGold(newBalance))
	if _, err := s.ChannelMessageSend(channel.ID, message); err != nil {
		log.Errorf("Error sending ticket purchase log: %v", err)
	}
}

// refreshAnnouncement re-renders the live lottery message with the current
// pot and ticket count
func (f *Feature) refreshAnnouncement(ctx context.Context, s *discordgo.Session, guildID string) {
	lottery, err := f.lotteryService.GetActiveLottery(ctx)
	if err != nil {
		log.Errorf("Error getting active lottery for announcement refresh: %v", err)
		return
	}
	if lottery == nil || lottery.MessageID == nil {
		return
	}

	totalTickets, err := f.lotteryService.TicketsSold(ctx, lottery.ID)
	if err != nil {
		log.Errorf("Error counting tickets for announcement refresh: %v", err)
		return
	}

	channel := common.FindChannelByName(s, guildID, f.config.LotteryChannelName)
	if channel == nil {
		return
	}

	content := FormatAnnouncement(lottery, f.config.MaxTickets, totalTickets)
	messageID := strconv.FormatInt(*lottery.MessageID, 10)
	if _, err := s.ChannelMessageEdit(channel.ID, messageID, content); err != nil {
		log.Errorf("Error editing lottery announcement %s: %v", messageID, err)
	}
}
