package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"

	"github.com/csy100/touch-api/data"
	"github.com/csy100/touch-api/repository"
)

// Word lists for synthesized display names. Order matters: the name a user
// gets is a pure function of their ID, so reordering these would rename
// every user without a stored profile.
var (
	fallbackAdjectives = []string{
		"Brave", "Calm", "Clever", "Eager", "Gentle", "Happy", "Jolly", "Keen",
		"Lively", "Merry", "Noble", "Proud", "Quick", "Quiet", "Sunny", "Witty",
	}
	fallbackNouns = []string{
		"Badger", "Falcon", "Heron", "Lynx", "Marmot", "Otter", "Panda", "Puffin",
		"Raven", "Salmon", "Sparrow", "Tiger", "Walrus", "Wombat", "Yak", "Zebra",
	}
)

// fallbackBrief synthesizes a deterministic display identity for a user with
// no stored profile. Two requests for the same ID always produce the same
// name and avatar.
func fallbackBrief(userID string) data.UserBrief {
	h := fnv.New32a()
	h.Write([]byte(userID))
	sum := h.Sum32()
	adjective := fallbackAdjectives[sum%uint32(len(fallbackAdjectives))]
	noun := fallbackNouns[(sum>>4)%uint32(len(fallbackNouns))]
	number := (sum >> 8) % 1000
	return data.UserBrief{
		ID:     userID,
		Name:   fmt.Sprintf("%s %s %03d", adjective, noun, number),
		Avatar: "https://api.multiavatar.com/" + url.PathEscape(userID) + ".svg",
	}
}

// resolveUserBrief resolves a user's display name and avatar. It is total:
// cache tiers first, then the store, then a synthesized fallback. Whatever
// it resolves is cached, so repeated lookups for absent users stay cheap.
func (s *service) resolveUserBrief(ctx context.Context, userID string) data.UserBrief {
	if brief, found := s.cache.GetUserBrief(ctx, userID); found {
		return brief
	}
	brief, err := s.repo.GetUserBrief(userID)
	if err != nil {
		if !errors.Is(err, repository.ErrRecordNotFound) {
			s.logger.PrintError(err, map[string]string{"user_id": userID})
		}
		fb := fallbackBrief(userID)
		s.cache.SetUserBrief(ctx, fb)
		return fb
	}
	s.cache.SetUserBrief(ctx, *brief)
	return *brief
}

// resolveUserBriefs resolves display identities for a set of users: cache
// hits are partitioned out across both tiers, the misses go to the store in
// one query, and anyone still unresolved gets the synthesized fallback. The
// result holds an entry for every requested ID.
func (s *service) resolveUserBriefs(ctx context.Context, userIDs []string) map[string]data.UserBrief {
	unique := make([]string, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		unique = append(unique, userID)
	}
	briefs, misses := s.cache.GetUserBriefs(ctx, unique)
	if len(misses) == 0 {
		return briefs
	}
	stored, err := s.repo.GetUserBriefs(misses)
	if err != nil {
		s.logger.PrintError(err, nil)
		stored = map[string]*data.UserBrief{}
	}
	resolved := make([]data.UserBrief, 0, len(misses))
	for _, userID := range misses {
		brief, ok := stored[userID]
		if ok {
			briefs[userID] = *brief
			resolved = append(resolved, *brief)
		} else {
			fb := fallbackBrief(userID)
			briefs[userID] = fb
			resolved = append(resolved, fb)
		}
	}
	s.cache.SetUserBriefs(ctx, resolved)
	return briefs
}

// attachUserBriefs decorates a page of comments with their authors' briefs.
// Reply targets stay as bare reply_to_id references on listings.
func (s *service) attachUserBriefs(ctx context.Context, comments []*data.Comment) {
	userIDs := make([]string, 0, len(comments))
	for _, comment := range comments {
		userIDs = append(userIDs, comment.UserID)
	}
	if len(userIDs) == 0 {
		return
	}
	briefs := s.resolveUserBriefs(ctx, userIDs)
	for _, comment := range comments {
		if brief, ok := briefs[comment.UserID]; ok {
			brief := brief
			comment.User = &brief
		}
	}
}
