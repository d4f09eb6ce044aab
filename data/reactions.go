package data

import (
	"time"

	"github.com/csy100/touch-api/internal/validator"
)

// ReactionLike is the only reaction type currently accepted.
const ReactionLike = "LIKE"

// Reaction defines a single reaction row. At most one row exists per
// (comment, user) pair; clearing a reaction deletes the row.
type Reaction struct {
	CommentID int64     `json:"comment_id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidateReactionType checks a reaction type supplied by a client. A nil
// type means "clear my reaction" and is always valid.
func ValidateReactionType(v *validator.Validator, reactionType *string) {
	if reactionType != nil {
		v.Check(*reactionType == ReactionLike, "type", "must be LIKE or null")
	}
}
