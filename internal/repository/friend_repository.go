package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// FriendRepository reads the social graph.
type FriendRepository struct {
	db *sqlx.DB
}

// NewFriendRepository constructs a FriendRepository.
func NewFriendRepository(db *sqlx.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// FriendIDs lists accepted friends of the user.
func (r *FriendRepository) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	const query = "SELECT friend_id FROM friendships WHERE user_id = $1 AND status = 'accepted' ORDER BY friend_id"
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("list friends of %s: %w", userID, err)
	}
	return ids, nil
}
