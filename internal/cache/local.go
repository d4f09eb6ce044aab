package cache

import (
	"time"

	"github.com/csy100/touch-api/data"
	"github.com/jellydator/ttlcache/v3"
)

// Local is the in-process cache tier. It holds user briefs and project
// existence flags in separate ttlcache instances so each keeps its own TTL.
type Local struct {
	users    *ttlcache.Cache[string, data.UserBrief]
	projects *ttlcache.Cache[string, bool]
}

// NewLocal creates the in-process cache tier.
func NewLocal(userTTL, projectTTL time.Duration) *Local {
	return &Local{
		users:    ttlcache.New(ttlcache.WithTTL[string, data.UserBrief](userTTL)),
		projects: ttlcache.New(ttlcache.WithTTL[string, bool](projectTTL)),
	}
}

// Start runs the expired-item eviction loops. It blocks, so call it in a
// goroutine.
func (l *Local) Start() {
	go l.users.Start()
	l.projects.Start()
}

// Stop stops the eviction loops.
func (l *Local) Stop() {
	l.users.Stop()
	l.projects.Stop()
}

// GetUserBrief retrieves a cached user brief.
func (l *Local) GetUserBrief(userID string) (data.UserBrief, bool) {
	item := l.users.Get(userID)
	if item == nil {
		return data.UserBrief{}, false
	}
	return item.Value(), true
}

// SetUserBrief caches a user brief.
func (l *Local) SetUserBrief(brief data.UserBrief) {
	l.users.Set(brief.ID, brief, ttlcache.DefaultTTL)
}

// GetProjectExists retrieves a cached project existence flag. The second
// return value reports whether the flag was cached at all.
func (l *Local) GetProjectExists(projectID string) (exists bool, found bool) {
	item := l.projects.Get(projectID)
	if item == nil {
		return false, false
	}
	return item.Value(), true
}

// SetProjectExists caches a project existence flag.
func (l *Local) SetProjectExists(projectID string, exists bool) {
	l.projects.Set(projectID, exists, ttlcache.DefaultTTL)
}
