package balance

import (
	"github.com/bwmarrin/discordgo"

	"reverb/service"
)

// Feature covers the ledger-facing commands: checking balances, officer
// credits and the economy overview.
type Feature struct {
	ledgerService service.LedgerService
}

// New creates a new balance feature instance
func New(ledgerService service.LedgerService) *Feature {
	return &Feature{
		ledgerService: ledgerService,
	}
}

// HandleCommand dispatches the feature's slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "credit":
		f.handleCredit(s, i)
	case "ledger":
		f.handleLedger(s, i)
	}
}
