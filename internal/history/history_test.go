package history

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/playmatatu/duels/internal/events"
	"github.com/playmatatu/duels/internal/game/engine"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "postgres")), mock
}

func TestPublishWritesRow(t *testing.T) {
	s, mock := newMock(t)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO matches`).
		WithArgs("s1", "guild", "connect4", "bob", "alice", false, int64(10), false, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.PublishMatchCompleted(context.Background(), events.MatchCompleted{
		SessionID: "s1", CommunityID: "guild", Kind: engine.KindGravity,
		WinnerID: "bob", LoserID: "alice", Stake: 10, FinishedAt: at,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentClampsLimit(t *testing.T) {
	s, mock := newMock(t)
	at := time.Now()
	rows := sqlmock.NewRows([]string{"id", "session_id", "community_id", "game_kind", "winner_id", "loser_id", "draw", "stake", "settlement_failed", "finished_at"}).
		AddRow(2, "s2", "guild", "rps", nil, nil, true, 0, false, at).
		AddRow(1, "s1", "guild", "tictactoe", "alice", "bob", false, 25, true, at)
	mock.ExpectQuery(`SELECT (.+) FROM matches WHERE community_id = \$1`).
		WithArgs("guild", MaxLimit).
		WillReturnRows(rows)

	recs, err := s.Recent(context.Background(), "guild", 5000)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.True(t, recs[0].Draw)
	require.False(t, recs[0].WinnerID.Valid)
	require.Equal(t, "alice", recs[1].WinnerID.String)
	require.True(t, recs[1].SettlementFailed)
	require.NoError(t, mock.ExpectationsWereMet())
}
