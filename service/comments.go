package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/csy100/touch-api/data"
	"github.com/csy100/touch-api/data/dto"
	"github.com/csy100/touch-api/internal/validator"
	"github.com/csy100/touch-api/repository"
)

type comments interface {
	CreateComment(userID string, body dto.CreateCommentRequestBody) (*data.Comment, error)
	ListProjectComments(qs dto.QsListComments) ([]*data.Comment, data.Metadata, error)
	ListThreadReplies(qs dto.QsListReplies) ([]*data.Comment, data.Metadata, error)
	UpsertReaction(commentID int64, userID string, body dto.ReactionRequestBody) error
	ListLikedCommentIDs(userID string) ([]int64, error)
	SoftDeleteComment(commentID int64, userID string) error
}

// CreateComment service creates a top-level comment or a reply. The project
// check and the author's brief are resolved concurrently before the insert.
// The thread bookkeeping that follows the insert (a top-level comment's
// self-referencing root, the thread's reply counter) runs in the background;
// the returned comment reflects the row as written, so a fresh top-level
// comment carries a null root until the backfill lands.
func (s *service) CreateComment(userID string, body dto.CreateCommentRequestBody) (*data.Comment, error) {
	comment := &data.Comment{
		ProjectID: strings.TrimSpace(body.ProjectID),
		UserID:    userID,
		Content:   strings.TrimSpace(body.Content),
		ParentID:  body.ParentID,
		RootID:    body.RootID,
		ReplyToID: body.ReplyToID,
	}
	v := validator.New()
	if data.ValidateComment(v, comment); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Validate the project and resolve the author's brief at the same time.
	var (
		exists bool
		brief  data.UserBrief
		fanout sync.WaitGroup
	)
	fanout.Add(2)
	go func() {
		defer fanout.Done()
		exists = s.projectExists(ctx, comment.ProjectID)
	}()
	go func() {
		defer fanout.Done()
		brief = s.resolveUserBrief(ctx, userID)
	}()
	fanout.Wait()
	if !exists {
		return nil, ErrRecordNotFound
	}
	comment.User = &brief

	// A reply target only makes sense inside a thread.
	var replyTo *data.Comment
	if comment.IsReply() {
		var err error
		replyTo, err = s.validateReply(comment)
		if err != nil {
			return nil, err
		}
	} else {
		comment.ReplyToID = nil
	}

	err := s.repo.CreateComment(comment)
	if err != nil {
		return nil, err
	}

	// The reply target's author is display decoration only, resolved after
	// the row is safely written.
	if replyTo != nil {
		replyBrief := s.resolveUserBrief(ctx, replyTo.UserID)
		comment.ReplyUser = &replyBrief
	}

	if comment.IsReply() {
		rootID := *comment.RootID
		s.background(func() {
			err := s.repo.IncrementRepliesCount(rootID)
			if err != nil {
				s.logger.PrintError(err, map[string]string{"root_id": strconv.FormatInt(rootID, 10)})
			}
		})
	} else {
		commentID := comment.ID
		s.background(func() {
			err := s.repo.SetCommentRoot(commentID)
			if err != nil {
				s.logger.PrintError(err, map[string]string{"comment_id": strconv.FormatInt(commentID, 10)})
			}
		})
	}
	return comment, nil
}

// validateReply checks a reply's thread references: the root, the parent and
// the optional reply target are fetched concurrently, must all exist, belong
// to the reply's project, and form a flat thread (the root is top-level and
// the parent and reply target are the root itself or one of its replies).
// The reply target record is returned so the caller can decorate the
// response with its author.
func (s *service) validateReply(comment *data.Comment) (*data.Comment, error) {
	var (
		root, parent, replyTo        *data.Comment
		rootErr, parentErr, replyErr error
		fanout                       sync.WaitGroup
	)
	fanout.Add(2)
	go func() {
		defer fanout.Done()
		root, rootErr = s.repo.GetComment(*comment.RootID)
	}()
	go func() {
		defer fanout.Done()
		parent, parentErr = s.repo.GetComment(*comment.ParentID)
	}()
	if comment.ReplyToID != nil {
		fanout.Add(1)
		go func() {
			defer fanout.Done()
			replyTo, replyErr = s.repo.GetComment(*comment.ReplyToID)
		}()
	}
	fanout.Wait()
	for _, err := range []error{rootErr, parentErr, replyErr} {
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrRecordNotFound):
				return nil, ErrRecordNotFound
			default:
				return nil, err
			}
		}
	}
	if root.IsDeleted || parent.IsDeleted {
		return nil, ErrRecordNotFound
	}
	if root.ProjectID != comment.ProjectID || parent.ProjectID != comment.ProjectID {
		return nil, ErrInconsistentThread
	}
	if root.IsReply() {
		return nil, ErrInvalidThread
	}
	if parent.ID != root.ID && (parent.RootID == nil || *parent.RootID != root.ID) {
		return nil, ErrInconsistentThread
	}
	if replyTo != nil {
		if replyTo.IsDeleted {
			return nil, ErrRecordNotFound
		}
		if replyTo.ProjectID != comment.ProjectID {
			return nil, ErrInconsistentThread
		}
		if replyTo.ID != root.ID && (replyTo.RootID == nil || *replyTo.RootID != root.ID) {
			return nil, ErrInconsistentThread
		}
	}
	return replyTo, nil
}

// ListProjectComments service retrieves a page of a project's comments,
// newest first, with author briefs attached. The page spans the whole
// project: replies and soft-deleted comments are included, the latter
// flagged so clients can render placeholders.
func (s *service) ListProjectComments(qs dto.QsListComments) ([]*data.Comment, data.Metadata, error) {
	v := validator.New()
	v.Check(qs.ProjectID != "", "project_id", "must be provided")
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !s.projectExists(ctx, qs.ProjectID) {
		return nil, data.Metadata{}, ErrRecordNotFound
	}
	comments, metadata, err := s.repo.GetAllCommentsForProject(qs.ProjectID, qs.Filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	s.attachUserBriefs(ctx, comments)
	return comments, metadata, nil
}

// ListThreadReplies service retrieves a page of a thread's replies, oldest
// first, with author briefs attached. The thread root itself is not part of
// the page.
func (s *service) ListThreadReplies(qs dto.QsListReplies) ([]*data.Comment, data.Metadata, error) {
	v := validator.New()
	v.Check(qs.RootID > 0, "root_id", "must be a positive integer")
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	root, err := s.repo.GetComment(qs.RootID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, data.Metadata{}, ErrRecordNotFound
		default:
			return nil, data.Metadata{}, err
		}
	}
	if root.IsDeleted {
		return nil, data.Metadata{}, ErrRecordNotFound
	}
	if root.IsReply() {
		return nil, data.Metadata{}, ErrInvalidThread
	}
	replies, metadata, err := s.repo.GetThreadReplies(qs.RootID, qs.Filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.attachUserBriefs(ctx, replies)
	return replies, metadata, nil
}

// UpsertReaction service sets or clears a user's reaction on a comment. The
// operation is idempotent: re-liking a liked comment and clearing an absent
// reaction both succeed without changing counters.
func (s *service) UpsertReaction(commentID int64, userID string, body dto.ReactionRequestBody) error {
	v := validator.New()
	if data.ValidateReactionType(v, body.Type); !v.Valid() {
		return s.failedValidation(v.Errors)
	}
	comment, err := s.repo.GetComment(commentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if comment.IsDeleted {
		return ErrRecordNotFound
	}
	return s.repo.ApplyReaction(commentID, userID, body.Type)
}

// ListLikedCommentIDs service retrieves the IDs of all comments a user has
// liked.
func (s *service) ListLikedCommentIDs(userID string) ([]int64, error) {
	return s.repo.GetLikedCommentIDs(userID)
}

// SoftDeleteComment service marks a comment as deleted on behalf of its
// author. The row stays behind so existing threads and counters keep their
// shape.
func (s *service) SoftDeleteComment(commentID int64, userID string) error {
	comment, err := s.repo.GetComment(commentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if comment.IsDeleted {
		return ErrRecordNotFound
	}
	if comment.UserID != userID {
		return ErrNotPermitted
	}
	err = s.repo.SoftDeleteComment(commentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}
