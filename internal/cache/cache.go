// Package cache implements the two-tier lookup cache for user briefs and
// project existence flags: an in-process tier backed by ttlcache and a shared
// Redis tier. The tiers are composed by Tiered, which reads through from
// fastest to slowest and treats the Redis tier as best-effort.
package cache

import "time"

const (
	// UserBriefTTL is how long a resolved user brief stays cached.
	UserBriefTTL = 5 * time.Minute

	// ProjectExistsTTL is how long a project existence flag stays cached.
	ProjectExistsTTL = 10 * time.Minute
)
