package cache

import (
	"context"

	"github.com/csy100/touch-api/data"
	"github.com/csy100/touch-api/internal/jsonlog"
)

// Tiered composes the in-process and Redis tiers into a single read-through
// cache. Reads try the in-process tier first, then Redis; a Redis hit is
// copied down into the in-process tier. Redis failures are logged at WARN
// and treated as misses, so a flaky Redis degrades lookups instead of
// breaking them.
type Tiered struct {
	local  *Local
	remote *Remote
	logger *jsonlog.Logger
}

// NewTiered composes the two cache tiers. The remote tier may be nil, in
// which case only the in-process tier is used.
func NewTiered(local *Local, remote *Remote, logger *jsonlog.Logger) *Tiered {
	return &Tiered{
		local:  local,
		remote: remote,
		logger: logger,
	}
}

// GetUserBrief retrieves a cached user brief from the fastest tier that
// holds it.
func (t *Tiered) GetUserBrief(ctx context.Context, userID string) (data.UserBrief, bool) {
	brief, found := t.local.GetUserBrief(userID)
	if found {
		return brief, true
	}
	if t.remote == nil {
		return data.UserBrief{}, false
	}
	brief, found, err := t.remote.GetUserBrief(ctx, userID)
	if err != nil {
		t.logger.PrintWarn("remote cache read failed", map[string]string{"key": userKeyPrefix + userID, "error": err.Error()})
		return data.UserBrief{}, false
	}
	if found {
		t.local.SetUserBrief(brief)
	}
	return brief, found
}

// GetUserBriefs retrieves cached user briefs for a set of users, partitioning
// the set into hits and misses across both tiers. Redis hits are copied down
// into the in-process tier.
func (t *Tiered) GetUserBriefs(ctx context.Context, userIDs []string) (map[string]data.UserBrief, []string) {
	hits := map[string]data.UserBrief{}
	misses := []string{}
	for _, userID := range userIDs {
		brief, found := t.local.GetUserBrief(userID)
		if found {
			hits[userID] = brief
		} else {
			misses = append(misses, userID)
		}
	}
	if t.remote == nil || len(misses) == 0 {
		return hits, misses
	}
	remoteHits, err := t.remote.GetUserBriefs(ctx, misses)
	if err != nil {
		t.logger.PrintWarn("remote cache batch read failed", map[string]string{"error": err.Error()})
		return hits, misses
	}
	remaining := []string{}
	for _, userID := range misses {
		brief, found := remoteHits[userID]
		if found {
			t.local.SetUserBrief(brief)
			hits[userID] = brief
		} else {
			remaining = append(remaining, userID)
		}
	}
	return hits, remaining
}

// SetUserBrief caches a user brief in both tiers.
func (t *Tiered) SetUserBrief(ctx context.Context, brief data.UserBrief) {
	t.local.SetUserBrief(brief)
	if t.remote == nil {
		return
	}
	err := t.remote.SetUserBrief(ctx, brief)
	if err != nil {
		t.logger.PrintWarn("remote cache write failed", map[string]string{"key": userKeyPrefix + brief.ID, "error": err.Error()})
	}
}

// SetUserBriefs caches a set of user briefs in both tiers.
func (t *Tiered) SetUserBriefs(ctx context.Context, briefs []data.UserBrief) {
	for _, brief := range briefs {
		t.local.SetUserBrief(brief)
	}
	if t.remote == nil || len(briefs) == 0 {
		return
	}
	err := t.remote.SetUserBriefs(ctx, briefs)
	if err != nil {
		t.logger.PrintWarn("remote cache batch write failed", map[string]string{"error": err.Error()})
	}
}

// GetProjectExists retrieves a cached project existence flag from the
// fastest tier that holds it.
func (t *Tiered) GetProjectExists(ctx context.Context, projectID string) (exists bool, found bool) {
	exists, found = t.local.GetProjectExists(projectID)
	if found {
		return exists, true
	}
	if t.remote == nil {
		return false, false
	}
	exists, found, err := t.remote.GetProjectExists(ctx, projectID)
	if err != nil {
		t.logger.PrintWarn("remote cache read failed", map[string]string{"key": projectKeyPrefix + projectID, "error": err.Error()})
		return false, false
	}
	if found {
		t.local.SetProjectExists(projectID, exists)
	}
	return exists, found
}

// SetProjectExists caches a project existence flag in both tiers.
func (t *Tiered) SetProjectExists(ctx context.Context, projectID string, exists bool) {
	t.local.SetProjectExists(projectID, exists)
	if t.remote == nil {
		return
	}
	err := t.remote.SetProjectExists(ctx, projectID, exists)
	if err != nil {
		t.logger.PrintWarn("remote cache write failed", map[string]string{"key": projectKeyPrefix + projectID, "error": err.Error()})
	}
}

// Ping checks that the remote tier is reachable. A nil remote tier is
// always healthy.
func (t *Tiered) Ping(ctx context.Context) error {
	if t.remote == nil {
		return nil
	}
	return t.remote.Ping(ctx)
}
