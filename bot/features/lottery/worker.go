package lottery

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"reverb/bot/common"
	"reverb/service"
)

// Worker drives the lottery lifecycle on a fixed tick: it opens a round when
// none is active and closes the active round once its end time passes. The
// draw and payout commit in the service before any announcement goes out, so
// a Discord outage can delay the news but never the gold.
type Worker struct {
	session        *discordgo.Session
	guildID        string
	config         Config
	lotteryService service.LotteryService
	checkInterval  time.Duration

	done chan struct{}
}

// NewWorker creates a lottery lifecycle worker
func NewWorker(session *discordgo.Session, guildID string, config Config, lotteryService service.LotteryService, checkInterval time.Duration) *Worker {
	return &Worker{
		session:        session,
		guildID:        guildID,
		config:         config,
		lotteryService: lotteryService,
		checkInterval:  checkInterval,
		done:           make(chan struct{}),
	}
}

// Start runs the tick loop until Stop is called
func (w *Worker) Start() {
	go func() {
		ticker := time.NewTicker(w.checkInterval)
		defer ticker.Stop()

		// First tick immediately so a restart does not wait a full interval
		w.tick()

		for {
			select {
			case <-ticker.C:
				w.tick()
			case <-w.done:
				return
			}
		}
	}()

	log.Infof("Lottery worker started, checking every %s", w.checkInterval)
}

// Stop halts the tick loop
func (w *Worker) Stop() {
	close(w.done)
}

func (w *Worker) tick() {
	ctx := context.Background()
	now := time.Now().UTC()

	lottery, err := w.lotteryService.GetActiveLottery(ctx)
	if err != nil {
		log.Errorf("Error getting active lottery: %v", err)
		return
	}

	if lottery == nil {
		w.openRound(ctx, now)
		return
	}

	if lottery.Expired(now) {
		w.closeRound(ctx, now)
	}
}

func (w *Worker) openRound(ctx context.Context, now time.Time) {
	lottery, err := w.lotteryService.OpenLottery(ctx, now)
	if err != nil {
		log.Errorf("Error opening lottery: %v", err)
		return
	}
	log.Infof("Opened lottery #%d, ends at %s", lottery.LotteryNumber, lottery.EndTime)

	channel := common.FindChannelByName(w.session, w.guildID, w.config.LotteryChannelName)
	if channel == nil {
		log.Warnf("Lottery channel %q not found, skipping announcement for lottery #%d", w.config.LotteryChannelName, lottery.LotteryNumber)
		return
	}

	content := FormatAnnouncement(lottery, w.config.MaxTickets, 0)
	message, err := w.session.ChannelMessageSend(channel.ID, content)
	if err != nil {
		log.Errorf("Error announcing lottery #%d: %v", lottery.LotteryNumber, err)
		return
	}

	messageID, err := strconv.ParseInt(message.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing announcement message id %s: %v", message.ID, err)
		return
	}
	if err := w.lotteryService.SetAnnouncementMessage(ctx, lottery.ID, messageID); err != nil {
		log.Errorf("Error storing announcement message for lottery #%d: %v", lottery.LotteryNumber, err)
	}
}

func (w *Worker) closeRound(ctx context.Context, now time.Time) {
	// Snapshot the announcement handle before the close wipes the round
	// from the active slot
	active, err := w.lotteryService.GetActiveLottery(ctx)
	if err != nil {
		log.Errorf("Error getting active lottery before close: %v", err)
		return
	}

	result, err := w.lotteryService.CloseExpiredLottery(ctx, now)
	if err != nil {
		log.Errorf("Error closing lottery: %v", err)
		return
	}
	if result == nil {
		// Raced another tick, nothing to announce
		return
	}

	if result.Winner != nil {
		log.Infof("Lottery #%d complete, user %d won %dg", result.Lottery.LotteryNumber, result.Winner.UserID, result.Winner.Payout)
	} else {
		log.Infof("Lottery #%d complete with no tickets", result.Lottery.LotteryNumber)
	}

	channel := common.FindChannelByName(w.session, w.guildID, w.config.LotteryChannelName)
	if channel == nil {
		return
	}

	// The live announcement is stale once the round closes
	if active != nil && active.MessageID != nil {
		messageID := strconv.FormatInt(*active.MessageID, 10)
		if err := w.session.ChannelMessageDelete(channel.ID, messageID); err != nil {
			log.Debugf("Error deleting lottery announcement %s: %v", messageID, err)
		}
	}

	var content string
	if result.Winner != nil {
		content = FormatWinnerAnnouncement(result)
	} else {
		content = FormatEmptyAnnouncement(result)
	}
	if _, err := w.session.ChannelMessageSend(channel.ID, content); err != nil {
		log.Errorf("Error announcing lottery #%d result: %v", result.Lottery.LotteryNumber, err)
	}
}
