package board

import (
	"context"
	"testing"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/cli/clitest"
	"github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/leaderboard"
	"github.com/julianstephens/potd/internal/leaderboard/leaderboardtest"
	"github.com/julianstephens/potd/internal/models"
)

func setupBoard(t *testing.T, remote leaderboard.Remote) *cli.Context {
	t.Helper()
	j := clitest.NewJudge(clitest.Catalog())
	return clitest.NewContext(t, j, clitest.Options{Handle: "alice", Remote: remote})
}

func TestSyncCmd_PushesStoredStreak(t *testing.T) {
	remote := leaderboardtest.NewRemote()
	ctx := setupBoard(t, remote)
	if err := ctx.Ledger.SaveStreak(models.StreakRecord{
		Count: 3, Max: 5, LastSolved: "2025-03-10", History: []string{"2025-03-08", "2025-03-09", "2025-03-10"},
	}); err != nil {
		t.Fatalf("SaveStreak() failed: %v", err)
	}

	if err := (&SyncCmd{}).Run(ctx); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	entry, err := remote.Get(context.Background(), "alice")
	if err != nil || entry == nil {
		t.Fatalf("remote entry = %v, %v", entry, err)
	}
	if entry.CurrentStreak != 3 || entry.MaxStreak != 5 {
		t.Errorf("remote entry = %+v, want current 3 max 5", entry)
	}
}

func TestSyncCmd_RemoteFailure(t *testing.T) {
	remote := leaderboardtest.NewRemote()
	remote.Err = errors.New("connection refused")
	ctx := setupBoard(t, remote)

	err := (&SyncCmd{}).Run(ctx)
	if !errors.Is(err, errors.ErrRemoteSync) {
		t.Fatalf("sync error = %v, want ErrRemoteSync", err)
	}
}

func TestSyncCmd_NotConfigured(t *testing.T) {
	ctx := setupBoard(t, nil)
	if err := (&SyncCmd{}).Run(ctx); err == nil {
		t.Error("sync without a leaderboard should fail")
	}
}

func TestLeaderboardCmd(t *testing.T) {
	remote := leaderboardtest.NewRemote()
	remote.Set(models.LeaderboardEntry{Handle: "alice", CurrentStreak: 2, MaxStreak: 4})
	remote.Set(models.LeaderboardEntry{Handle: "bob", CurrentStreak: 7, MaxStreak: 7})
	ctx := setupBoard(t, remote)

	if err := (&LeaderboardCmd{Limit: 5}).Run(ctx); err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if err := (&LeaderboardCmd{Limit: 500}).Run(ctx); err == nil {
		t.Error("limit above 100 should fail")
	}
}

func TestLeaderboardCmd_NotConfigured(t *testing.T) {
	ctx := setupBoard(t, nil)
	if err := (&LeaderboardCmd{}).Run(ctx); err == nil {
		t.Error("leaderboard without a remote should fail")
	}
}
