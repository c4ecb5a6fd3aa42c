// Package visibility decides whether one user may see another's extended
// profile fields.
package visibility

import (
	"context"

	"github.com/gdugdh24/matrimony-backend/internal/repository"
)

type Gate struct {
	interestRepo repository.InterestRepository
}

func NewGate(interestRepo repository.InterestRepository) *Gate {
	return &Gate{interestRepo: interestRepo}
}

// CanViewFull reports whether an accepted interest links viewer and target in
// either direction. Users always see their own profile.
func (g *Gate) CanViewFull(ctx context.Context, viewerID, targetID string) (bool, error) {
	if viewerID == targetID {
		return true, nil
	}
	return g.interestRepo.ExistsAccepted(ctx, viewerID, targetID)
}
