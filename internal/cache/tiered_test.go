package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/csy100/touch-api/data"
	"github.com/csy100/touch-api/internal/jsonlog"
)

func setupTestTiered(t *testing.T) (*Tiered, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	remote, err := NewRemote("redis://"+s.Addr(), UserBriefTTL, ProjectExistsTTL)
	if err != nil {
		t.Fatalf("failed to create remote cache: %v", err)
	}
	t.Cleanup(func() { remote.Close() })
	local := NewLocal(UserBriefTTL, ProjectExistsTTL)
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	return NewTiered(local, remote, logger), s
}

func TestTieredReadThroughBackfillsLocal(t *testing.T) {
	tiered, s := setupTestTiered(t)
	defer s.Close()

	ctx := context.Background()
	brief := data.UserBrief{ID: "user-1", Name: "Quiet Falcon 042"}

	// Seed the remote tier only.
	if err := tiered.remote.SetUserBrief(ctx, brief); err != nil {
		t.Fatalf("SetUserBrief failed: %v", err)
	}
	if _, found := tiered.local.GetUserBrief("user-1"); found {
		t.Fatal("expected local tier to start empty")
	}

	got, found := tiered.GetUserBrief(ctx, "user-1")
	if !found {
		t.Fatal("expected hit from remote tier")
	}
	if got != brief {
		t.Errorf("expected %+v, got %+v", brief, got)
	}

	// The remote hit must now be served locally.
	if _, found := tiered.local.GetUserBrief("user-1"); !found {
		t.Error("expected remote hit to backfill local tier")
	}
}

func TestTieredMissWhenBothTiersEmpty(t *testing.T) {
	tiered, s := setupTestTiered(t)
	defer s.Close()

	if _, found := tiered.GetUserBrief(context.Background(), "absent"); found {
		t.Error("expected miss, got hit")
	}
}

func TestTieredSetWritesBothTiers(t *testing.T) {
	tiered, s := setupTestTiered(t)
	defer s.Close()

	ctx := context.Background()
	brief := data.UserBrief{ID: "user-1", Name: "Quiet Falcon 042"}
	tiered.SetUserBrief(ctx, brief)

	if _, found := tiered.local.GetUserBrief("user-1"); !found {
		t.Error("expected local tier write")
	}
	if _, found, err := tiered.remote.GetUserBrief(ctx, "user-1"); err != nil || !found {
		t.Errorf("expected remote tier write, found=%t err=%v", found, err)
	}
}

func TestTieredDegradesWhenRedisDown(t *testing.T) {
	tiered, s := setupTestTiered(t)

	ctx := context.Background()
	s.Close()

	// Reads fall through to a miss and writes still land locally.
	if _, found := tiered.GetUserBrief(ctx, "user-1"); found {
		t.Error("expected miss with remote tier down")
	}
	tiered.SetUserBrief(ctx, data.UserBrief{ID: "user-1", Name: "One"})
	if _, found := tiered.local.GetUserBrief("user-1"); !found {
		t.Error("expected local tier write with remote tier down")
	}
}

func TestTieredBatchPartitionsHitsAndMisses(t *testing.T) {
	tiered, s := setupTestTiered(t)
	defer s.Close()

	ctx := context.Background()
	tiered.local.SetUserBrief(data.UserBrief{ID: "local-1", Name: "Local"})
	if err := tiered.remote.SetUserBrief(ctx, data.UserBrief{ID: "remote-1", Name: "Remote"}); err != nil {
		t.Fatalf("SetUserBrief failed: %v", err)
	}

	hits, misses := tiered.GetUserBriefs(ctx, []string{"local-1", "remote-1", "nowhere-1"})
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits["local-1"].Name != "Local" || hits["remote-1"].Name != "Remote" {
		t.Errorf("unexpected hits: %+v", hits)
	}
	if len(misses) != 1 || misses[0] != "nowhere-1" {
		t.Errorf("expected misses [nowhere-1], got %v", misses)
	}

	// The remote hit must now be served locally.
	if _, found := tiered.local.GetUserBrief("remote-1"); !found {
		t.Error("expected batch remote hit to backfill local tier")
	}
}

func TestTieredProjectExistsReadThrough(t *testing.T) {
	tiered, s := setupTestTiered(t)
	defer s.Close()

	ctx := context.Background()
	if err := tiered.remote.SetProjectExists(ctx, "proj-1", true); err != nil {
		t.Fatalf("SetProjectExists failed: %v", err)
	}

	exists, found := tiered.GetProjectExists(ctx, "proj-1")
	if !found || !exists {
		t.Errorf("expected found=true exists=true, got found=%t exists=%t", found, exists)
	}
	if _, found := tiered.local.GetProjectExists("proj-1"); !found {
		t.Error("expected remote hit to backfill local tier")
	}
}

func TestTieredWithoutRemoteTier(t *testing.T) {
	local := NewLocal(time.Minute, time.Minute)
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	tiered := NewTiered(local, nil, logger)

	ctx := context.Background()
	tiered.SetProjectExists(ctx, "proj-1", false)

	exists, found := tiered.GetProjectExists(ctx, "proj-1")
	if !found || exists {
		t.Errorf("expected found=true exists=false, got found=%t exists=%t", found, exists)
	}
	if err := tiered.Ping(ctx); err != nil {
		t.Errorf("expected nil Ping without remote tier, got %v", err)
	}
}
