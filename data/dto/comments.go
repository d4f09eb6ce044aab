package dto

import "github.com/csy100/touch-api/data"

// CreateCommentRequestBody defines the request body for CreateComment service.
// ParentID and RootID are supplied together for a reply and omitted for a
// top-level comment. ReplyToID optionally references the comment being
// replied to within the same thread.
type CreateCommentRequestBody struct {
	ProjectID string `json:"project_id"`
	Content   string `json:"content"`
	ParentID  *int64 `json:"parent_id"`
	RootID    *int64 `json:"root_id"`
	ReplyToID *int64 `json:"reply_to_id"`
}

// ReactionRequestBody defines the request body for UpsertReaction service.
// A nil Type clears any existing reaction.
type ReactionRequestBody struct {
	Type *string `json:"type"`
}

// QsListComments defines the query string parameters for ListProjectComments service.
type QsListComments struct {
	ProjectID string
	Filters   data.Filters
}

// QsListReplies defines the query string parameters for ListThreadReplies service.
type QsListReplies struct {
	RootID  int64
	Filters data.Filters
}
