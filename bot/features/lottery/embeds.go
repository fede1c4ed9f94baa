package lottery

import (
	"fmt"

	"reverb/bot/common"
	"reverb/models"
)

// FormatAnnouncement renders the live lottery message that gets edited in
// place as tickets sell
func FormatAnnouncement(lottery *models.Lottery, maxTickets int64, totalTickets int64) string {
	totalPot := totalTickets * lottery.TicketPrice

	return fmt.Sprintf(
		"🎟️ **LOTTERY #%d IS LIVE!**\n\n"+
			"**Rules**\n"+
			"• Ticket Price: **%sg**\n"+
			"• Max Tickets per Player: **%d**\n"+
			"• Guild Cut: **%d%%**\n\n"+
			"**Schedule**\n"+
			"• Start: %s\n"+
			"• End: %s\n\n"+
			"💰 **CURRENT POT:** **%sg**\n"+
			"🎫 **TOTAL TICKETS SOLD:** **%d**\n\n"+
			"Use `/buyticket` to enter!",
		lottery.LotteryNumber,
		common.FormatGold(lottery.TicketPrice),
		maxTickets,
		lottery.GuildCutPercent,
		common.FormatDiscordTimestamp(lottery.StartTime, "f"),
		common.FormatDiscordTimestamp(lottery.EndTime, "f"),
		common.FormatGold(totalPot),
		totalTickets,
	)
}

// FormatWinnerAnnouncement renders the closing message for a lottery that
// sold tickets
func FormatWinnerAnnouncement(result *models.LotteryResult) string {
	return fmt.Sprintf(
		"🎉 **LOTTERY #%d COMPLETE!**\n\n"+
			"🏆 Winner: <@%d>\n"+
			"💰 Total Pot: **%sg**\n"+
			"🏛️ Guild Cut: **%sg**\n"+
			"💎 Payout: **%sg**",
		result.Lottery.LotteryNumber,
		result.Winner.UserID,
		common.FormatGold(result.Winner.TotalPot),
		common.FormatGold(result.Winner.GuildCut),
		common.FormatGold(result.Winner.Payout),
	)
}

// FormatEmptyAnnouncement renders the closing message for a lottery nobody
// entered
func FormatEmptyAnnouncement(result *models.LotteryResult) string {
	return fmt.Sprintf("Lottery #%d ended with no tickets purchased.", result.Lottery.LotteryNumber)
}
