package handler

import (
	"errors"
	"net/http"

	"github.com/csy100/touch-api/data"
	"github.com/csy100/touch-api/data/dto"
	"github.com/csy100/touch-api/service"
)

// createCommentHandler creates a top-level comment or a reply on behalf of
// the authenticated user.
func (h *Handler) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateCommentRequestBody
	if err := h.decodeJSON(w, r, &requestBody); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	comment, err := h.service.CreateComment(user.ID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrInvalidThread), errors.Is(err, service.ErrInconsistentThread):
			h.invalidThreadResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	if err := h.encodeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// listCommentsHandler retrieves a page of a project's comments, newest
// first, soft-deleted rows included.
func (h *Handler) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	params := dto.QsListComments{
		ProjectID: h.readString(qs, "projectId", ""),
		Filters: data.Filters{
			Page:     h.readInt(qs, "page", 1),
			PageSize: h.readInt(qs, "limit", 20),
		},
	}
	comments, metadata, err := h.service.ListProjectComments(params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"comments": comments, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// listRepliesHandler retrieves a page of a thread's replies, oldest first.
func (h *Handler) listRepliesHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	params := dto.QsListReplies{
		RootID: h.readInt64(qs, "rootId", 0),
		Filters: data.Filters{
			Page:     h.readInt(qs, "page", 1),
			PageSize: h.readInt(qs, "limit", 20),
		},
	}
	replies, metadata, err := h.service.ListThreadReplies(params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrInvalidThread):
			h.invalidThreadResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"replies": replies, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// reactionHandler sets or clears the authenticated user's reaction on a
// comment.
func (h *Handler) reactionHandler(w http.ResponseWriter, r *http.Request) {
	commentID, err := h.readIDParam(r, "commentId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.ReactionRequestBody
	if err := h.decodeJSON(w, r, &requestBody); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	err = h.service.UpsertReaction(commentID, user.ID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"comment_id": commentID}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// likedCommentsHandler retrieves the IDs of all comments the authenticated
// user has liked.
func (h *Handler) likedCommentsHandler(w http.ResponseWriter, r *http.Request) {
	user := h.contextGetUser(r)
	commentIDs, err := h.service.ListLikedCommentIDs(user.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"comment_ids": commentIDs}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// deleteCommentHandler soft-deletes one of the authenticated user's
// comments.
func (h *Handler) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID, err := h.readIDParam(r, "commentId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	err = h.service.SoftDeleteComment(commentID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "comment successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
