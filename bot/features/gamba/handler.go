package gamba

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"reverb/bot/common"
	"reverb/models"
	"reverb/service"
)

const wheelFrameDelay = 300 * time.Millisecond

func (f *Feature) handleCoinflip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var wager int64
	var guess string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "wager":
			wager = opt.IntValue()
		case "guess":
			guess = opt.StringValue()
		}
	}

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.gamblingService.FlipCoin(ctx, userID, wager, models.CoinSide(guess))
	if err != nil {
		f.respondWithBetError(s, i, err)
		return
	}

	var message string
	if result.Won() {
		message = fmt.Sprintf("🪙 **Coinflip Result:** %s\n🎉 You won **%sg**!\n💰 New balance: **%sg**",
			strings.ToUpper(result.Outcome), common.FormatGold(result.Payout), common.FormatGold(result.NewBalance))
	} else {
		message = fmt.Sprintf("🪙 **Coinflip Result:** %s\n❌ You lost **%sg**.\n💰 New balance: **%sg**",
			strings.ToUpper(result.Outcome), common.FormatGold(result.Wager), common.FormatGold(result.NewBalance))
	}

	if err := common.RespondWithMessage(s, i, message, false); err != nil {
		log.Errorf("Error responding to coinflip command: %v", err)
	}
}

func (f *Feature) handleWheel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var wager int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "amount" {
			wager = opt.IntValue()
		}
	}

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// The bet settles before the animation runs, so a crash mid-reveal can
	// never lose the ledger entries
	result, err := f.gamblingService.SpinWheel(ctx, userID, wager)
	if err != nil {
		f.respondWithBetError(s, i, err)
		return
	}
	// The spin slot stays held until the reveal finishes, so a second
	// /wheel during the animation is rejected
	defer f.gamblingService.FinishSpin(userID)

	if err := common.RespondWithMessage(s, i, "Spinning the wheel...", true); err != nil {
		log.Errorf("Error responding to wheel command: %v", err)
		return
	}

	f.animateWheel(s, i, result.Outcome)

	embed := &discordgo.MessageEmbed{
		Title:       "🎡 Gold Wheel Result!",
		Description: fmt.Sprintf("<@%s> spun the wheel and landed on **%s**!", i.Member.User.ID, result.Outcome),
		Color:       0xF1C40F,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bet Amount", Value: fmt.Sprintf("**%sg**", common.FormatGold(result.Wager)), Inline: true},
			{Name: "Payout", Value: fmt.Sprintf("**%sg**", common.FormatGold(result.Payout)), Inline: true},
			{Name: "New Balance", Value: fmt.Sprintf("**%sg**", common.FormatGold(result.NewBalance)), Inline: true},
		},
	}
	if _, err := common.FollowUpWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error sending wheel result embed: %v", err)
	}
}

// animateWheel edits the spin message through three passes over the wheel,
// then parks the highlight on the winning segment
func (f *Feature) animateWheel(s *discordgo.Session, i *discordgo.InteractionCreate, outcome string) {
	segments := service.WheelSegments()

	edit := func(content string) error {
		_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		})
		return err
	}

	for pass := 0; pass < 3; pass++ {
		for idx := range segments {
			if err := edit("🎡 " + wheelFrame(segments, idx)); err != nil {
				log.Debugf("Error editing wheel animation frame: %v", err)
				return
			}
			time.Sleep(wheelFrameDelay)
		}
	}

	final := -1
	for idx, seg := range segments {
		if seg.Label == outcome {
			final = idx
			break
		}
	}

	content := fmt.Sprintf("🎡 %s\nYou landed on **%s**!", wheelFrame(segments, final), outcome)
	if err := edit(content); err != nil {
		log.Debugf("Error editing final wheel frame: %v", err)
	}
}

func wheelFrame(segments []service.WheelSegment, highlighted int) string {
	parts := make([]string, len(segments))
	for idx, seg := range segments {
		if idx == highlighted {
			parts[idx] = fmt.Sprintf("__**%s**__", seg.Label)
		} else {
			parts[idx] = seg.Label
		}
	}
	return strings.Join(parts, " | ")
}

func (f *Feature) respondWithBetError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidGuess):
		common.RespondWithError(s, i, "Choice must be 'heads' or 'tails'.")
	case errors.Is(err, service.ErrInvalidAmount):
		common.RespondWithError(s, i, "Bet amount must be greater than 0.")
	case errors.Is(err, service.ErrInsufficientBalance):
		common.RespondWithError(s, i, "You do not have enough gold to bet that amount.")
	case errors.Is(err, service.ErrSpinInProgress):
		common.RespondWithError(s, i, "You already have a wheel spin in progress. Please wait for it to finish.")
	default:
		log.Errorf("Error placing bet: %v", err)
		common.RespondWithError(s, i, "Unable to place bet. Please try again.")
	}
}
