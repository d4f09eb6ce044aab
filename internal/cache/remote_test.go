package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/csy100/touch-api/data"
)

func setupTestRemote(t *testing.T) (*Remote, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	remote, err := NewRemote("redis://"+s.Addr(), UserBriefTTL, ProjectExistsTTL)
	if err != nil {
		t.Fatalf("failed to create remote cache: %v", err)
	}
	return remote, s
}

func TestRemoteUserBriefRoundTrip(t *testing.T) {
	remote, s := setupTestRemote(t)
	defer remote.Close()
	defer s.Close()

	ctx := context.Background()
	brief := data.UserBrief{ID: "user-1", Name: "Quiet Falcon 042", Avatar: "https://api.multiavatar.com/user-1.svg"}

	if err := remote.SetUserBrief(ctx, brief); err != nil {
		t.Fatalf("SetUserBrief failed: %v", err)
	}

	got, found, err := remote.GetUserBrief(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUserBrief failed: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit, got miss")
	}
	if got != brief {
		t.Errorf("expected %+v, got %+v", brief, got)
	}
}

func TestRemoteUserBriefMiss(t *testing.T) {
	remote, s := setupTestRemote(t)
	defer remote.Close()
	defer s.Close()

	_, found, err := remote.GetUserBrief(context.Background(), "absent")
	if err != nil {
		t.Fatalf("GetUserBrief failed: %v", err)
	}
	if found {
		t.Error("expected cache miss, got hit")
	}
}

func TestRemoteUserBriefExpires(t *testing.T) {
	remote, s := setupTestRemote(t)
	defer remote.Close()
	defer s.Close()

	ctx := context.Background()
	brief := data.UserBrief{ID: "user-1", Name: "Quiet Falcon 042"}
	if err := remote.SetUserBrief(ctx, brief); err != nil {
		t.Fatalf("SetUserBrief failed: %v", err)
	}

	s.FastForward(UserBriefTTL + time.Second)

	_, found, err := remote.GetUserBrief(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUserBrief failed: %v", err)
	}
	if found {
		t.Error("expected miss after TTL, got hit")
	}
}

func TestRemoteUserBriefsBatch(t *testing.T) {
	remote, s := setupTestRemote(t)
	defer remote.Close()
	defer s.Close()

	ctx := context.Background()
	briefs := []data.UserBrief{
		{ID: "user-1", Name: "One"},
		{ID: "user-2", Name: "Two"},
	}
	if err := remote.SetUserBriefs(ctx, briefs); err != nil {
		t.Fatalf("SetUserBriefs failed: %v", err)
	}

	got, err := remote.GetUserBriefs(ctx, []string{"user-1", "user-2", "user-3"})
	if err != nil {
		t.Fatalf("GetUserBriefs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
	if got["user-1"].Name != "One" || got["user-2"].Name != "Two" {
		t.Errorf("unexpected briefs: %+v", got)
	}
	if _, ok := got["user-3"]; ok {
		t.Error("expected user-3 to be a miss")
	}
}

func TestRemoteProjectExistsRoundTrip(t *testing.T) {
	remote, s := setupTestRemote(t)
	defer remote.Close()
	defer s.Close()

	ctx := context.Background()
	if err := remote.SetProjectExists(ctx, "proj-1", true); err != nil {
		t.Fatalf("SetProjectExists failed: %v", err)
	}
	if err := remote.SetProjectExists(ctx, "proj-2", false); err != nil {
		t.Fatalf("SetProjectExists failed: %v", err)
	}

	exists, found, err := remote.GetProjectExists(ctx, "proj-1")
	if err != nil {
		t.Fatalf("GetProjectExists failed: %v", err)
	}
	if !found || !exists {
		t.Errorf("expected found=true exists=true, got found=%t exists=%t", found, exists)
	}

	exists, found, err = remote.GetProjectExists(ctx, "proj-2")
	if err != nil {
		t.Fatalf("GetProjectExists failed: %v", err)
	}
	if !found || exists {
		t.Errorf("expected found=true exists=false, got found=%t exists=%t", found, exists)
	}

	_, found, err = remote.GetProjectExists(ctx, "proj-3")
	if err != nil {
		t.Fatalf("GetProjectExists failed: %v", err)
	}
	if found {
		t.Error("expected miss for uncached project")
	}
}

func TestRemoteProjectExistsExpires(t *testing.T) {
	remote, s := setupTestRemote(t)
	defer remote.Close()
	defer s.Close()

	ctx := context.Background()
	if err := remote.SetProjectExists(ctx, "proj-1", true); err != nil {
		t.Fatalf("SetProjectExists failed: %v", err)
	}

	s.FastForward(ProjectExistsTTL + time.Second)

	_, found, err := remote.GetProjectExists(ctx, "proj-1")
	if err != nil {
		t.Fatalf("GetProjectExists failed: %v", err)
	}
	if found {
		t.Error("expected miss after TTL, got hit")
	}
}
