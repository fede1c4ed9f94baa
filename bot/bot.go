package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"reverb/bot/common"
	"reverb/bot/features/balance"
	"reverb/bot/features/gamba"
	"reverb/bot/features/lottery"
	"reverb/bot/features/payouts"
	"reverb/events"
	"reverb/service"
)

// Config holds bot configuration
type Config struct {
	Token                string
	GuildID              string
	LotteryChannelName   string
	PayoutChannelName    string
	ModLogChannelName    string
	LotteryMaxTickets    int64
	LotteryCheckInterval time.Duration
}

type Bot struct {
	config  Config
	session *discordgo.Session

	balanceFeature *balance.Feature
	gambaFeature   *gamba.Feature
	payoutsFeature *payouts.Feature
	lotteryFeature *lottery.Feature
	lotteryWorker  *lottery.Worker

	eventBus *events.Bus
}

func New(config Config, ledgerService service.LedgerService, gamblingService service.GamblingService, payoutService service.PayoutService, lotteryService service.LotteryService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMembers

	lotteryConfig := lottery.Config{
		LotteryChannelName: config.LotteryChannelName,
		ModLogChannelName:  config.ModLogChannelName,
		MaxTickets:         config.LotteryMaxTickets,
	}

	payoutsConfig := payouts.Config{
		PayoutChannelName: config.PayoutChannelName,
	}

	bot := &Bot{
		config:         config,
		session:        dg,
		balanceFeature: balance.New(ledgerService),
		gambaFeature:   gamba.New(gamblingService),
		payoutsFeature: payouts.New(payoutsConfig, payoutService, ledgerService),
		lotteryFeature: lottery.New(lotteryConfig, lotteryService),
		lotteryWorker:  lottery.NewWorker(dg, config.GuildID, lotteryConfig, lotteryService, config.LotteryCheckInterval),
		eventBus:       eventBus,
	}

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleComponentInteractions)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// DM users about gold that arrived outside their own interactions
	eventBus.Subscribe(events.EventTypeGoldCredited, bot.notifyGoldCredited)

	bot.lotteryWorker.Start()

	return bot, nil
}

func (b *Bot) Close() error {
	b.lotteryWorker.Stop()
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance", "credit", "ledger":
		b.balanceFeature.HandleCommand(s, i)
	case "coinflip", "wheel":
		b.gambaFeature.HandleCommand(s, i)
	case "payout", "payoutcancel":
		b.payoutsFeature.HandleCommand(s, i)
	case "buyticket":
		b.lotteryFeature.HandleCommand(s, i)
	}
}

func (b *Bot) handleComponentInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	b.payoutsFeature.HandleInteraction(s, i)
}

func (b *Bot) notifyGoldCredited(ctx context.Context, event events.Event) {
	credited, ok := event.(events.GoldCreditedEvent)
	if !ok {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Gold Received!",
		Description: fmt.Sprintf("💰 You have been credited **%sg**.\nYour new gold balance is **%sg**.", common.FormatGold(credited.Amount), common.FormatGold(credited.NewBalance)),
		Color:       0xF1C40F,
	}
	common.SendDM(b.session, strconv.FormatInt(credited.UserID, 10), embed)

	log.WithFields(log.Fields{
		"userID":    credited.UserID,
		"officerID": credited.OfficerID,
		"amount":    credited.Amount,
	}).Info("Gold credited")
}
