package data

import (
	"time"

	"github.com/csy100/touch-api/internal/validator"
)

// Comment defines a project comment. A top-level comment has a nil ParentID
// and a nil RootID until the deferred backfill sets RootID to the comment's
// own id. A reply carries both ParentID and RootID, where RootID always
// references a top-level comment in the same project. ReplyToID optionally
// references the specific comment in the thread being replied to.
type Comment struct {
	ID            int64      `json:"id"`
	ProjectID     string     `json:"project_id"`
	UserID        string     `json:"user_id"`
	User          *UserBrief `json:"user,omitempty"`
	Content       string     `json:"content"`
	ParentID      *int64     `json:"parent_id"`
	RootID        *int64     `json:"root_id"`
	ReplyToID     *int64     `json:"reply_to_id,omitempty"`
	ReplyUser     *UserBrief `json:"reply_user,omitempty"`
	LikesCount    int64      `json:"likes_count"`
	DislikesCount int64      `json:"dislikes_count"`
	RepliesCount  int64      `json:"replies_count"`
	IsDeleted     bool       `json:"is_deleted"`
	DeletedAt     *time.Time `json:"deleted_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Version       int32      `json:"-"`
}

// IsReply returns true if the comment carries thread references.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil && c.RootID != nil
}

func ValidateComment(v *validator.Validator, comment *Comment) {
	v.Check(comment.ProjectID != "", "project_id", "must be provided")
	v.Check(comment.Content != "", "content", "must be provided")
	v.Check(len(comment.Content) <= 10_000, "content", "must not be more than 10000 bytes long")
	// ParentID and RootID come as a pair: a reply needs both, a top-level
	// comment needs neither.
	if (comment.ParentID == nil) != (comment.RootID == nil) {
		v.AddError("parent_id", "must be provided together with root_id")
	}
}
