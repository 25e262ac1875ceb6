package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/noah-isme/learning-progress-api/internal/models"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

// FriendReader exposes the social graph.
type FriendReader interface {
	FriendIDs(ctx context.Context, userID string) ([]string, error)
}

// Population is the candidate set for a leaderboard. Global means every known user.
type Population struct {
	Global  bool
	UserIDs []string
}

// PopulationSelector resolves leaderboard candidates for a scope.
type PopulationSelector struct {
	friends FriendReader
}

// NewPopulationSelector constructs a selector backed by the social graph.
func NewPopulationSelector(friends FriendReader) *PopulationSelector {
	return &PopulationSelector{friends: friends}
}

// Select returns the candidates for scope. Friends scope always includes the requester.
func (p *PopulationSelector) Select(ctx context.Context, scope models.Scope, requesterID string) (Population, error) {
	switch scope {
	case models.ScopeGlobal:
		return Population{Global: true}, nil
	case models.ScopeFriends:
		if requesterID == "" {
			return Population{}, appErrors.Clone(appErrors.ErrValidation, "friends scope requires a requesting user")
		}
		var friendIDs []string
		if p.friends != nil {
			ids, err := p.friends.FriendIDs(ctx, requesterID)
			if err != nil {
				return Population{}, fmt.Errorf("load friends of %s: %w", requesterID, err)
			}
			friendIDs = ids
		}
		return Population{UserIDs: FriendsPopulation(requesterID, friendIDs)}, nil
	default:
		panic(fmt.Sprintf("service: unknown leaderboard scope %q", scope))
	}
}

// FriendsPopulation is the union of the requester and their friends, requester first.
func FriendsPopulation(requesterID string, friendIDs []string) []string {
	ids := append([]string{requesterID}, friendIDs...)
	return lo.Uniq(lo.Compact(ids))
}
