package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/csy100/touch-api/data"
)

type comments interface {
	CreateComment(comment *data.Comment) error
	GetComment(commentID int64) (*data.Comment, error)
	SetCommentRoot(commentID int64) error
	IncrementRepliesCount(rootID int64) error
	GetAllCommentsForProject(projectID string, filters data.Filters) ([]*data.Comment, data.Metadata, error)
	GetThreadReplies(rootID int64, filters data.Filters) ([]*data.Comment, data.Metadata, error)
	SoftDeleteComment(commentID int64) error
}

// CreateComment creates a comment record. Top-level comments are inserted
// with a NULL root_id; the self-referencing root_id is filled in afterwards
// by SetCommentRoot.
func (r *repository) CreateComment(comment *data.Comment) error {
	query := `
		INSERT INTO comments (project_id, user_id, content, parent_id, root_id, reply_to_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at, version`
	args := []interface{}{comment.ProjectID, comment.UserID, comment.Content, comment.ParentID, comment.RootID, comment.ReplyToID}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt, &comment.Version)
}

// GetComment retrieves a comment record. Soft-deleted records are returned
// as well; callers inspect IsDeleted where it matters.
func (r *repository) GetComment(commentID int64) (*data.Comment, error) {
	if commentID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, project_id, user_id, content, parent_id, root_id, reply_to_id, likes_count, dislikes_count, replies_count, is_deleted, deleted_at, created_at, updated_at, version
		FROM comments
		WHERE id = $1`
	var comment data.Comment
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.ProjectID,
		&comment.UserID,
		&comment.Content,
		&comment.ParentID,
		&comment.RootID,
		&comment.ReplyToID,
		&comment.LikesCount,
		&comment.DislikesCount,
		&comment.RepliesCount,
		&comment.IsDeleted,
		&comment.DeletedAt,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &comment, nil
}

// SetCommentRoot backfills a top-level comment's root_id with its own id.
func (r *repository) SetCommentRoot(commentID int64) error {
	query := `
		UPDATE comments
		SET root_id = id
		WHERE id = $1 AND root_id IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// IncrementRepliesCount adds one to a thread root's replies_count.
func (r *repository) IncrementRepliesCount(rootID int64) error {
	query := `
		UPDATE comments
		SET replies_count = replies_count + 1
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, rootID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GetAllCommentsForProject retrieves a paginated list of every comment
// record under a project, newest first. Replies and soft-deleted records
// are part of the page; the deleted ones keep their is_deleted flag so
// threads retain their placeholders.
func (r *repository) GetAllCommentsForProject(projectID string, filters data.Filters) ([]*data.Comment, data.Metadata, error) {
	query := `
		SELECT count(*) OVER(), id, project_id, user_id, content, parent_id, root_id, reply_to_id, likes_count, dislikes_count, replies_count, is_deleted, deleted_at, created_at, updated_at, version
		FROM comments
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	args := []interface{}{projectID, filters.Limit(), filters.Offset()}
	return r.getCommentPage(query, args, filters)
}

// GetThreadReplies retrieves a paginated list of a thread's reply records,
// oldest first. The root record itself is excluded.
func (r *repository) GetThreadReplies(rootID int64, filters data.Filters) ([]*data.Comment, data.Metadata, error) {
	query := `
		SELECT count(*) OVER(), id, project_id, user_id, content, parent_id, root_id, reply_to_id, likes_count, dislikes_count, replies_count, is_deleted, deleted_at, created_at, updated_at, version
		FROM comments
		WHERE root_id = $1 AND id <> $1 AND is_deleted = false
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`
	args := []interface{}{rootID, filters.Limit(), filters.Offset()}
	return r.getCommentPage(query, args, filters)
}

func (r *repository) getCommentPage(query string, args []interface{}, filters data.Filters) ([]*data.Comment, data.Metadata, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	comments := []*data.Comment{}
	for rows.Next() {
		var comment data.Comment
		err := rows.Scan(
			&totalRecords,
			&comment.ID,
			&comment.ProjectID,
			&comment.UserID,
			&comment.Content,
			&comment.ParentID,
			&comment.RootID,
			&comment.ReplyToID,
			&comment.LikesCount,
			&comment.DislikesCount,
			&comment.RepliesCount,
			&comment.IsDeleted,
			&comment.DeletedAt,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		comments = append(comments, &comment)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return comments, metadata, nil
}

// SoftDeleteComment marks a comment record as deleted. The record and its
// counters are retained.
func (r *repository) SoftDeleteComment(commentID int64) error {
	if commentID < 1 {
		return ErrRecordNotFound
	}
	query := `
		UPDATE comments
		SET is_deleted = true, deleted_at = now(), updated_at = now(), version = version + 1
		WHERE id = $1 AND is_deleted = false`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
