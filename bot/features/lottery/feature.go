package lottery

import (
	"github.com/bwmarrin/discordgo"

	"reverb/service"
)

// Config holds lottery-specific configuration
type Config struct {
	LotteryChannelName string
	ModLogChannelName  string
	MaxTickets         int64
}

// Feature covers ticket purchases. The round lifecycle itself runs in the
// Worker.
type Feature struct {
	config         Config
	lotteryService service.LotteryService
}

// New creates a new lottery feature instance
func New(config Config, lotteryService service.LotteryService) *Feature {
	return &Feature{
		config:         config,
		lotteryService: lotteryService,
	}
}

// HandleCommand dispatches the feature's slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.ApplicationCommandData().Name == "buyticket" {
		f.handleBuyTicket(s, i)
	}
}
