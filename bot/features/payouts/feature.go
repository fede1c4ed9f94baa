package payouts

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"reverb/service"
)

// Config holds payout-specific configuration
type Config struct {
	PayoutChannelName string
}

// Feature covers the payout workflow: requests, officer settlement through
// the status dropdown, and cancellation.
type Feature struct {
	config        Config
	payoutService service.PayoutService
	ledgerService service.LedgerService
}

// New creates a new payouts feature instance
func New(config Config, payoutService service.PayoutService, ledgerService service.LedgerService) *Feature {
	return &Feature{
		config:        config,
		payoutService: payoutService,
		ledgerService: ledgerService,
	}
}

// HandleCommand dispatches the feature's slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "payout":
		f.handlePayoutRequest(s, i)
	case "payoutcancel":
		f.handlePayoutCancel(s, i)
	}
}

// HandleInteraction handles the payout status dropdown in the officer channel
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if strings.HasPrefix(i.MessageComponentData().CustomID, payoutStatusPrefix) {
		f.handleStatusSelect(s, i)
	}
}
