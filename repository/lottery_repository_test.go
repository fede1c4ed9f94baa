package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reverb/models"
	"reverb/repository/testutil"
)

func TestLotteryRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryRepository(testDB.DB)
	ctx := context.Background()

	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(14 * 24 * time.Hour)

	t.Run("first lottery gets number one", func(t *testing.T) {
		lottery := testutil.CreateTestLottery(start, end)
		err := repo.Create(ctx, lottery)
		require.NoError(t, err)

		assert.NotZero(t, lottery.ID)
		assert.Equal(t, int64(1), lottery.LotteryNumber)
		assert.Equal(t, models.LotteryStatusActive, lottery.Status)
	})

	t.Run("second concurrent lottery is rejected", func(t *testing.T) {
		// The partial unique index allows one active lottery at a time
		err := repo.Create(ctx, testutil.CreateTestLottery(start, end))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "idx_lotteries_one_active")
	})

	t.Run("numbering continues after completion", func(t *testing.T) {
		active, err := repo.GetActive(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)

		closed, err := repo.MarkCompleted(ctx, active.ID)
		require.NoError(t, err)
		require.True(t, closed)

		next := testutil.CreateTestLottery(start, end)
		require.NoError(t, repo.Create(ctx, next))
		assert.Equal(t, int64(2), next.LotteryNumber)
	})
}

func TestLotteryRepository_GetActive(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no lottery is nil, not an error", func(t *testing.T) {
		lottery, err := repo.GetActive(ctx)
		require.NoError(t, err)
		assert.Nil(t, lottery)
	})

	t.Run("returns the active round", func(t *testing.T) {
		start := time.Now().UTC().Truncate(time.Second)
		created := testutil.CreateTestLottery(start, start.Add(time.Hour))
		require.NoError(t, repo.Create(ctx, created))

		lottery, err := repo.GetActive(ctx)
		require.NoError(t, err)
		require.NotNil(t, lottery)
		assert.Equal(t, created.ID, lottery.ID)
		assert.Equal(t, int64(5000), lottery.TicketPrice)
		assert.Equal(t, int64(20), lottery.GuildCutPercent)
		assert.Nil(t, lottery.MessageID)
	})
}

func TestLotteryRepository_SetMessageID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryRepository(testDB.DB)
	ctx := context.Background()

	start := time.Now().UTC()
	lottery := testutil.CreateTestLottery(start, start.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, lottery))

	require.NoError(t, repo.SetMessageID(ctx, lottery.ID, 987654321))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active.MessageID)
	assert.Equal(t, int64(987654321), *active.MessageID)

	assert.Error(t, repo.SetMessageID(ctx, 404, 1))
}

func TestLotteryRepository_MarkCompleted(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryRepository(testDB.DB)
	ctx := context.Background()

	start := time.Now().UTC()
	lottery := testutil.CreateTestLottery(start, start.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, lottery))

	closed, err := repo.MarkCompleted(ctx, lottery.ID)
	require.NoError(t, err)
	assert.True(t, closed)

	// The guard reports false for a lottery that is no longer active
	closed, err = repo.MarkCompleted(ctx, lottery.ID)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestLotteryRepository_Tickets(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryRepository(testDB.DB)
	ctx := context.Background()

	start := time.Now().UTC()
	lottery := testutil.CreateTestLottery(start, start.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, lottery))

	t.Run("batch insert returns the tickets", func(t *testing.T) {
		tickets, err := repo.CreateTickets(ctx, lottery.ID, 111, 3)
		require.NoError(t, err)
		require.Len(t, tickets, 3)
		for _, ticket := range tickets {
			assert.NotZero(t, ticket.ID)
			assert.Equal(t, lottery.ID, ticket.LotteryID)
			assert.Equal(t, int64(111), ticket.UserID)
		}
	})

	t.Run("counts split by user", func(t *testing.T) {
		_, err := repo.CreateTickets(ctx, lottery.ID, 222, 2)
		require.NoError(t, err)

		total, err := repo.CountTickets(ctx, lottery.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)

		byUser, err := repo.CountTicketsByUser(ctx, lottery.ID, 222)
		require.NoError(t, err)
		assert.Equal(t, int64(2), byUser)
	})

	t.Run("list preserves purchase order", func(t *testing.T) {
		tickets, err := repo.ListTickets(ctx, lottery.ID)
		require.NoError(t, err)
		require.Len(t, tickets, 5)
		for i := 1; i < len(tickets); i++ {
			assert.Greater(t, tickets[i].ID, tickets[i-1].ID)
		}
	})

	t.Run("tickets for an unknown lottery are rejected", func(t *testing.T) {
		_, err := repo.CreateTickets(ctx, 404, 111, 1)
		assert.Error(t, err)
	})
}

func TestLotteryRepository_Winner(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryRepository(testDB.DB)
	ctx := context.Background()

	start := time.Now().UTC()
	lottery := testutil.CreateTestLottery(start, start.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, lottery))

	tickets, err := repo.CreateTickets(ctx, lottery.ID, 111, 4)
	require.NoError(t, err)

	t.Run("records the settlement", func(t *testing.T) {
		winner := &models.LotteryWinner{
			LotteryID:       lottery.ID,
			UserID:          111,
			WinningTicketID: tickets[2].ID,
			TotalPot:        20000,
			GuildCut:        4000,
			Payout:          16000,
		}
		require.NoError(t, repo.CreateWinner(ctx, winner))
		assert.NotZero(t, winner.ID)
		assert.False(t, winner.CreatedAt.IsZero())

		var winningTicketID, totalPot, guildCut, payout int64
		err := testDB.DB.QueryRow(ctx,
			`SELECT winning_ticket_id, total_pot, guild_cut, payout FROM lottery_winners WHERE lottery_id = $1`,
			lottery.ID,
		).Scan(&winningTicketID, &totalPot, &guildCut, &payout)
		require.NoError(t, err)
		assert.Equal(t, tickets[2].ID, winningTicketID)
		assert.Equal(t, totalPot, guildCut+payout)
	})

	t.Run("one winner per lottery", func(t *testing.T) {
		duplicate := &models.LotteryWinner{
			LotteryID:       lottery.ID,
			UserID:          111,
			WinningTicketID: tickets[0].ID,
			TotalPot:        20000,
			GuildCut:        4000,
			Payout:          16000,
		}
		err := repo.CreateWinner(ctx, duplicate)
		assert.Error(t, err)
	})
}
