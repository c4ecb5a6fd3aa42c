package directory

import (
	"context"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/repository"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

type DirectoryUseCase struct {
	userRepo     repository.UserRepository
	interestRepo repository.InterestRepository
}

func NewDirectoryUseCase(
	userRepo repository.UserRepository,
	interestRepo repository.InterestRepository,
) *DirectoryUseCase {
	return &DirectoryUseCase{
		userRepo:     userRepo,
		interestRepo: interestRepo,
	}
}

// BrowseRequest holds the optional directory filters.
type BrowseRequest struct {
	Gender   *domain.Gender `form:"gender" binding:"omitempty,gender"`
	Religion *string        `form:"religion" binding:"omitempty,max=64"`
	MinAge   *int           `form:"min_age" binding:"omitempty,min=18,max=100"`
	MaxAge   *int           `form:"max_age" binding:"omitempty,min=18,max=100"`
	Limit    int            `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset   int            `form:"offset" binding:"omitempty,min=0"`
}

// Browse lists every other user, each annotated with the interest relation
// between them and the viewer.
func (uc *DirectoryUseCase) Browse(ctx context.Context, actor domain.Actor, req *BrowseRequest) ([]*domain.UserSummary, error) {
	if req == nil {
		req = &BrowseRequest{}
	}
	if req.MinAge != nil && req.MaxAge != nil && *req.MinAge > *req.MaxAge {
		return nil, domain.NewError(domain.KindInvalidInput, "min_age must not exceed max_age")
	}

	filter := repository.DirectoryFilter{
		Gender:   req.Gender,
		Religion: req.Religion,
		MinAge:   req.MinAge,
		MaxAge:   req.MaxAge,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	users, err := uc.userRepo.ListSummaries(ctx, actor.UserID, filter)
	if err != nil {
		return nil, err
	}

	interests, err := uc.interestRepo.ListInvolving(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string][]*domain.Interest)
	for _, in := range interests {
		other, _ := in.GetOtherUserID(actor.UserID)
		byUser[other] = append(byUser[other], in)
	}

	for _, u := range users {
		u.InterestStatus = domain.StatusFor(actor.UserID, byUser[u.ID])
	}
	return users, nil
}
