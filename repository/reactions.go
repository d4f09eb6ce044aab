package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/csy100/touch-api/data"
)

type reactions interface {
	ApplyReaction(commentID int64, userID string, reactionType *string) error
	GetLikedCommentIDs(userID string) ([]int64, error)
}

// ApplyReaction sets or clears a user's reaction on a comment. The reaction
// row and the comment's like counter change in the same transaction, so the
// counter never drifts from the rows. Re-applying an existing reaction or
// clearing an absent one is a no-op.
func (r *repository) ApplyReaction(commentID int64, userID string, reactionType *string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if reactionType == nil {
		var previous string
		query := `
			DELETE FROM comment_reactions
			WHERE comment_id = $1 AND user_id = $2
			RETURNING type`
		err := tx.QueryRowContext(ctx, query, commentID, userID).Scan(&previous)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return tx.Commit()
			default:
				return err
			}
		}
		if previous == data.ReactionLike {
			query = `
				UPDATE comments
				SET likes_count = greatest(likes_count - 1, 0)
				WHERE id = $1`
			_, err = tx.ExecContext(ctx, query, commentID)
			if err != nil {
				return err
			}
		}
		return tx.Commit()
	}
	query := `
		INSERT INTO comment_reactions (comment_id, user_id, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (comment_id, user_id) DO NOTHING`
	result, err := tx.ExecContext(ctx, query, commentID, userID, *reactionType)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 1 && *reactionType == data.ReactionLike {
		query = `
			UPDATE comments
			SET likes_count = likes_count + 1
			WHERE id = $1`
		_, err = tx.ExecContext(ctx, query, commentID)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetLikedCommentIDs retrieves the IDs of all comments a user has liked.
func (r *repository) GetLikedCommentIDs(userID string) ([]int64, error) {
	query := `
		SELECT comment_id
		FROM comment_reactions
		WHERE user_id = $1 AND type = $2
		ORDER BY comment_id ASC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, userID, data.ReactionLike)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	commentIDs := []int64{}
	for rows.Next() {
		var commentID int64
		err := rows.Scan(&commentID)
		if err != nil {
			return nil, err
		}
		commentIDs = append(commentIDs, commentID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return commentIDs, nil
}
