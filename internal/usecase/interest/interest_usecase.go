package interest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/matrimony-backend/internal/infrastructure/lock"
	"github.com/gdugdh24/matrimony-backend/internal/logger"
	"github.com/gdugdh24/matrimony-backend/internal/repository"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/notification"
)

const icebreakerTimeout = 10 * time.Second

// IcebreakerGenerator suggests opening messages for a matched pair.
type IcebreakerGenerator interface {
	GenerateIcebreakers(ctx context.Context, from, to gemini.Person) ([]string, error)
}

// Limits bounds how many relationships a user can hold. MaxActiveSent of zero
// disables the outgoing limit.
type Limits struct {
	MaxMutual     int
	MaxActiveSent int
}

type InterestUseCase struct {
	interestRepo     repository.InterestRepository
	userRepo         repository.UserRepository
	profileRepo      repository.ProfileRepository
	notificationRepo repository.NotificationRepository
	tx               repository.Transactor
	locker           lock.Locker
	publisher        notification.Publisher
	icebreakers      IcebreakerGenerator
	limits           Limits
}

func NewInterestUseCase(
	interestRepo repository.InterestRepository,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	notificationRepo repository.NotificationRepository,
	tx repository.Transactor,
	locker lock.Locker,
	publisher notification.Publisher,
	icebreakers IcebreakerGenerator,
	limits Limits,
) *InterestUseCase {
	return &InterestUseCase{
		interestRepo:     interestRepo,
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		tx:               tx,
		locker:           locker,
		publisher:        notification.OrNop(publisher),
		icebreakers:      icebreakers,
		limits:           limits,
	}
}

// SendRequest represents an interest sent to another user
type SendRequest struct {
	ToUserID string  `json:"to_user_id" binding:"required"`
	Message  *string `json:"message" binding:"omitempty,max=500"`
}

// InterestView is an interest together with the user on the other side.
type InterestView struct {
	*domain.Interest
	User *domain.UserSummary `json:"user"`
}

// IcebreakersResponse represents suggested opening messages for a match
type IcebreakersResponse struct {
	InterestID  string   `json:"interest_id"`
	Suggestions []string `json:"suggestions"`
}

// Send records a pending interest from actor to req.ToUserID and notifies the
// recipient in the same transaction.
func (uc *InterestUseCase) Send(ctx context.Context, actor domain.Actor, req *SendRequest) (*domain.Interest, error) {
	if actor.UserID == req.ToUserID {
		return nil, domain.ErrCannotInterestSelf
	}

	sender, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.userRepo.GetByID(ctx, req.ToUserID); err != nil {
		return nil, err
	}

	unlock, err := uc.lockUsers(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	interest := &domain.Interest{
		FromUserID: actor.UserID,
		ToUserID:   req.ToUserID,
		Status:     domain.InterestPending,
		Message:    normalizeMessage(req.Message),
	}
	var note *domain.Notification

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := uc.interestRepo.GetActiveBetween(ctx, actor.UserID, req.ToUserID)
		if err != nil && !errors.Is(err, domain.ErrInterestNotFound) {
			return err
		}
		if existing != nil {
			return domain.ErrActiveInterestExists
		}

		mutual, err := uc.interestRepo.CountAccepted(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if mutual >= uc.limits.MaxMutual {
			return domain.ErrInterestLimitReached
		}

		if uc.limits.MaxActiveSent > 0 {
			active, err := uc.interestRepo.CountActiveSent(ctx, actor.UserID)
			if err != nil {
				return err
			}
			if active >= uc.limits.MaxActiveSent {
				return domain.ErrActiveSentLimit
			}
		}

		if err := uc.interestRepo.Create(ctx, interest); err != nil {
			return err
		}

		note = domain.NewInterestNotification(domain.NotificationInterestReceived, req.ToUserID, sender, interest.ID)
		return uc.notificationRepo.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(note.UserID, note)
	logger.CtxInfo(ctx, "interest sent", "interest_id", interest.ID, "to_user_id", interest.ToUserID)
	return interest, nil
}

// Accept moves a pending interest addressed to actor into accepted, provided
// neither side has reached the mutual cap.
func (uc *InterestUseCase) Accept(ctx context.Context, actor domain.Actor, id string) (*domain.Interest, error) {
	interest, err := uc.pendingFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	acceptor, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	unlock, err := uc.lockUsers(ctx, interest.FromUserID, interest.ToUserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		updated *domain.Interest
		note    *domain.Notification
	)
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		mine, err := uc.interestRepo.CountAccepted(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if mine >= uc.limits.MaxMutual {
			return domain.ErrInterestLimitReached
		}

		theirs, err := uc.interestRepo.CountAccepted(ctx, interest.FromUserID)
		if err != nil {
			return err
		}
		if theirs >= uc.limits.MaxMutual {
			return domain.ErrSenderLimitReached
		}

		updated, err = uc.interestRepo.TransitionFromPending(ctx, interest.ID, domain.InterestAccepted)
		if err != nil {
			return err
		}

		note = domain.NewInterestNotification(domain.NotificationInterestAccepted, updated.FromUserID, acceptor, updated.ID)
		return uc.notificationRepo.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(note.UserID, note)
	logger.CtxInfo(ctx, "interest accepted", "interest_id", updated.ID, "from_user_id", updated.FromUserID)
	return updated, nil
}

// Reject moves a pending interest addressed to actor into rejected.
func (uc *InterestUseCase) Reject(ctx context.Context, actor domain.Actor, id string) (*domain.Interest, error) {
	interest, err := uc.pendingFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	rejector, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	var (
		updated *domain.Interest
		note    *domain.Notification
	)
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = uc.interestRepo.TransitionFromPending(ctx, interest.ID, domain.InterestRejected)
		if err != nil {
			return err
		}

		note = domain.NewInterestNotification(domain.NotificationInterestRejected, updated.FromUserID, rejector, updated.ID)
		return uc.notificationRepo.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(note.UserID, note)
	logger.CtxInfo(ctx, "interest rejected", "interest_id", updated.ID, "from_user_id", updated.FromUserID)
	return updated, nil
}

// Cancel withdraws a pending interest sent by actor. The record is removed and
// nobody is notified.
func (uc *InterestUseCase) Cancel(ctx context.Context, actor domain.Actor, id string) error {
	interest, err := uc.interestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if interest.FromUserID != actor.UserID {
		return domain.ErrNotInterestSender
	}
	if interest.Status != domain.InterestPending {
		return domain.ErrInterestNotPending
	}

	if err := uc.interestRepo.DeletePending(ctx, id); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "interest cancelled", "interest_id", id)
	return nil
}

func (uc *InterestUseCase) ListSent(ctx context.Context, actor domain.Actor, status *domain.InterestStatus) ([]*InterestView, error) {
	interests, err := uc.interestRepo.ListSent(ctx, actor.UserID, status)
	if err != nil {
		return nil, err
	}
	return uc.withCounterparts(ctx, actor.UserID, interests)
}

func (uc *InterestUseCase) ListReceived(ctx context.Context, actor domain.Actor, status *domain.InterestStatus) ([]*InterestView, error) {
	interests, err := uc.interestRepo.ListReceived(ctx, actor.UserID, status)
	if err != nil {
		return nil, err
	}
	return uc.withCounterparts(ctx, actor.UserID, interests)
}

// ListMatches returns the actor's accepted interests in either direction.
func (uc *InterestUseCase) ListMatches(ctx context.Context, actor domain.Actor) ([]*InterestView, error) {
	interests, err := uc.interestRepo.ListAccepted(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return uc.withCounterparts(ctx, actor.UserID, interests)
}

// Icebreakers suggests opening messages from actor to the other side of an
// accepted interest. Without a model, or when it fails, suggestions are built
// from the profile.
func (uc *InterestUseCase) Icebreakers(ctx context.Context, actor domain.Actor, id string) (*IcebreakersResponse, error) {
	interest, err := uc.interestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	otherID, ok := interest.GetOtherUserID(actor.UserID)
	if !ok {
		return nil, domain.ErrNotInterestMember
	}
	if interest.Status != domain.InterestAccepted {
		return nil, domain.ErrInterestNotAccepted
	}

	me, err := uc.person(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	other, err := uc.person(ctx, otherID)
	if err != nil {
		return nil, err
	}

	response := &IcebreakersResponse{InterestID: interest.ID}
	if uc.icebreakers != nil {
		genCtx, cancel := context.WithTimeout(ctx, icebreakerTimeout)
		defer cancel()

		suggestions, err := uc.icebreakers.GenerateIcebreakers(genCtx, me, other)
		if err == nil && len(suggestions) > 0 {
			response.Suggestions = suggestions
			return response, nil
		}
		logger.CtxWarn(ctx, "icebreaker generation failed, using fallback", "interest_id", interest.ID, "error", err)
	}

	response.Suggestions = gemini.Fallback(me, other)
	return response, nil
}

// pendingFor loads an interest the actor may respond to.
func (uc *InterestUseCase) pendingFor(ctx context.Context, actor domain.Actor, id string) (*domain.Interest, error) {
	interest, err := uc.interestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if interest.ToUserID != actor.UserID {
		return nil, domain.ErrNotInterestRecipient
	}
	if interest.Status != domain.InterestPending {
		return nil, domain.ErrInterestNotPending
	}
	return interest, nil
}

// lockUsers takes the per-user cap locks in a fixed order.
func (uc *InterestUseCase) lockUsers(ctx context.Context, userIDs ...string) (func(), error) {
	ids := append([]string(nil), userIDs...)
	sort.Strings(ids)

	var unlocks []func()
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, id := range ids {
		unlock, err := uc.locker.Lock(ctx, "interest:user:"+id)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

func (uc *InterestUseCase) withCounterparts(ctx context.Context, viewerID string, interests []*domain.Interest) ([]*InterestView, error) {
	summaries := make(map[string]*domain.UserSummary)
	views := make([]*InterestView, 0, len(interests))

	for _, in := range interests {
		otherID, _ := in.GetOtherUserID(viewerID)

		summary, ok := summaries[otherID]
		if !ok {
			var err error
			summary, err = uc.userRepo.GetSummary(ctx, otherID)
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			summaries[otherID] = summary
		}

		views = append(views, &InterestView{Interest: in, User: summary})
	}
	return views, nil
}

func (uc *InterestUseCase) person(ctx context.Context, userID string) (gemini.Person, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return gemini.Person{}, err
	}

	p := gemini.Person{Name: user.Name}
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return p, nil
		}
		return gemini.Person{}, err
	}

	p.Profession = deref(profile.Profession)
	p.Location = deref(profile.Location)
	p.Hobbies = deref(profile.Hobbies)
	p.Interests = deref(profile.Interests)
	return p, nil
}

func normalizeMessage(message *string) *string {
	if message == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*message)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
