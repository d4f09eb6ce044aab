package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/csy100/touch-api/data"
	"github.com/lib/pq"
)

type users interface {
	GetUserBrief(userID string) (*data.UserBrief, error)
	GetUserBriefs(userIDs []string) (map[string]*data.UserBrief, error)
}

// GetUserBrief retrieves the display name and avatar for a user.
func (r *repository) GetUserBrief(userID string) (*data.UserBrief, error) {
	query := `
		SELECT id, name, avatar
		FROM users
		WHERE id = $1`
	var brief data.UserBrief
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&brief.ID, &brief.Name, &brief.Avatar)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &brief, nil
}

// GetUserBriefs retrieves display names and avatars for a set of users in a
// single query. Users without a record are simply absent from the result map.
func (r *repository) GetUserBriefs(userIDs []string) (map[string]*data.UserBrief, error) {
	briefs := map[string]*data.UserBrief{}
	if len(userIDs) == 0 {
		return briefs, nil
	}
	query := `
		SELECT id, name, avatar
		FROM users
		WHERE id = ANY($1)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var brief data.UserBrief
		err := rows.Scan(&brief.ID, &brief.Name, &brief.Avatar)
		if err != nil {
			return nil, err
		}
		briefs[brief.ID] = &brief
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return briefs, nil
}
