package gamba

import (
	"github.com/bwmarrin/discordgo"

	"reverb/service"
)

// Feature covers the gambling commands, coinflip and the gold wheel
type Feature struct {
	gamblingService service.GamblingService
}

// New creates a new gamba feature instance
func New(gamblingService service.GamblingService) *Feature {
	return &Feature{
		gamblingService: gamblingService,
	}
}

// HandleCommand dispatches the feature's slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "coinflip":
		f.handleCoinflip(s, i)
	case "wheel":
		f.handleWheel(s, i)
	}
}
